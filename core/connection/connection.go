package connection

import (
	"context"
	"errors"
	"fmt"

	"catalog-sync/core/platform"
	"catalog-sync/core/platform/shopify"
	"catalog-sync/core/platform/woocommerce"
)

// ErrNotConnected is returned when a platform has no usable connection.
var ErrNotConnected = errors.New("platform is not connected")

// Connection holds the credentials of one store.
type Connection struct {
	Platform  platform.Platform
	Connected bool

	WooCommerce woocommerce.Config
	Shopify     shopify.Config
}

// Validate checks the credentials of the connection's platform.
func (c *Connection) Validate() error {
	switch c.Platform {
	case platform.WooCommerce:
		return c.WooCommerce.Validate()
	case platform.Shopify:
		return c.Shopify.Validate()
	default:
		return fmt.Errorf("unknown platform %q", c.Platform)
	}
}

// Store looks up the connection of a platform.
type Store interface {
	// Get returns the connection or an error matching ErrNotConnected.
	Get(ctx context.Context, p platform.Platform) (*Connection, error)
}

// ConfigStore serves connections declared in configuration.
type ConfigStore struct {
	conns map[platform.Platform]*Connection
}

// NewConfigStore builds a store from the platform config sections. A section
// without any setting is treated as not connected.
func NewConfigStore(woo woocommerce.Config, shop shopify.Config) *ConfigStore {
	s := &ConfigStore{conns: make(map[platform.Platform]*Connection)}
	if woo.IsConfigured() {
		s.conns[platform.WooCommerce] = &Connection{Platform: platform.WooCommerce, Connected: true, WooCommerce: woo}
	}
	if shop.IsConfigured() {
		s.conns[platform.Shopify] = &Connection{Platform: platform.Shopify, Connected: true, Shopify: shop}
	}
	return s
}

func (s *ConfigStore) Get(_ context.Context, p platform.Platform) (*Connection, error) {
	conn, ok := s.conns[p]
	if !ok || !conn.Connected {
		return nil, fmt.Errorf("%s: %w", p, ErrNotConnected)
	}
	c := *conn
	return &c, nil
}

// Chain tries each store in order and returns the first connected result.
type Chain []Store

func (c Chain) Get(ctx context.Context, p platform.Platform) (*Connection, error) {
	for _, s := range c {
		conn, err := s.Get(ctx, p)
		if err == nil {
			return conn, nil
		}
		if !errors.Is(err, ErrNotConnected) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%s: %w", p, ErrNotConnected)
}
