package woocommerce

import "errors"

// Config holds the REST API credentials of a WooCommerce store.
type Config struct {
	// URL is the store base URL, e.g. https://shop.example.com.
	URL string `mapstructure:"url" default:""`
	// ConsumerKey is the REST API consumer key (ck_...).
	ConsumerKey string `mapstructure:"consumer_key" default:""`
	// ConsumerSecret is the REST API consumer secret (cs_...).
	ConsumerSecret string `mapstructure:"consumer_secret" default:""`
	// TimeoutSeconds bounds every HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

var (
	ErrMissingURL         = errors.New("woocommerce: store url is required")
	ErrMissingCredentials = errors.New("woocommerce: consumer key and secret are required")
)

// IsConfigured reports whether any connection setting was provided.
func (c Config) IsConfigured() bool {
	return c.URL != "" || c.ConsumerKey != ""
}

// Validate checks that the config can build a client.
func (c Config) Validate() error {
	if c.URL == "" {
		return ErrMissingURL
	}
	if c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return ErrMissingCredentials
	}
	return nil
}
