package shopify

import "errors"

// Config holds the Admin API credentials of a Shopify store.
type Config struct {
	// Shop is the store domain (example.myshopify.com) or a full base URL.
	Shop string `mapstructure:"shop" default:""`
	// AccessToken is the Admin API access token (shpat_...).
	AccessToken string `mapstructure:"access_token" default:""`
	// APIVersion is the Admin API version segment.
	APIVersion string `mapstructure:"api_version" default:"2024-10"`
	// BlogID is the blog articles are created in (gid://shopify/Blog/...).
	BlogID string `mapstructure:"blog_id" default:""`
	// TimeoutSeconds bounds every HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

var (
	ErrMissingShop  = errors.New("shopify: shop domain is required")
	ErrMissingToken = errors.New("shopify: access token is required")
)

// IsConfigured reports whether any connection setting was provided.
func (c Config) IsConfigured() bool {
	return c.Shop != "" || c.AccessToken != ""
}

// Validate checks that the config can build a client.
func (c Config) Validate() error {
	if c.Shop == "" {
		return ErrMissingShop
	}
	if c.AccessToken == "" {
		return ErrMissingToken
	}
	return nil
}
