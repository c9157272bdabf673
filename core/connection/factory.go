package connection

import (
	"context"
	"fmt"
	"sync"

	"catalog-sync/core/platform"
	"catalog-sync/core/platform/shopify"
	"catalog-sync/core/platform/woocommerce"
)

// Factory builds platform clients from the connections in a Store.
type Factory struct {
	store Store

	mu        sync.Mutex
	overrides map[platform.Platform]platform.Client
}

// NewFactory creates a factory reading connections from store.
func NewFactory(store Store) *Factory {
	return &Factory{store: store, overrides: make(map[platform.Platform]platform.Client)}
}

// Override serves client for p instead of building one from a connection.
// The in-memory platform is wired through here.
func (f *Factory) Override(p platform.Platform, client platform.Client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[p] = client
}

// Client returns a client for p.
func (f *Factory) Client(ctx context.Context, p platform.Platform) (platform.Client, error) {
	f.mu.Lock()
	client, ok := f.overrides[p]
	f.mu.Unlock()
	if ok {
		return client, nil
	}

	if !p.IsValid() {
		return nil, fmt.Errorf("unknown platform %q", p)
	}
	conn, err := f.store.Get(ctx, p)
	if err != nil {
		return nil, err
	}
	return Build(conn)
}

// Build creates the client for a connection.
func Build(conn *Connection) (platform.Client, error) {
	if conn == nil || !conn.Connected {
		return nil, ErrNotConnected
	}
	switch conn.Platform {
	case platform.WooCommerce:
		return woocommerce.New(conn.WooCommerce)
	case platform.Shopify:
		return shopify.New(conn.Shopify)
	default:
		return nil, fmt.Errorf("unknown platform %q", conn.Platform)
	}
}

// Pinger is implemented by clients that can verify their credentials.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the health of one platform connection.
type Status struct {
	Platform  platform.Platform `json:"platform"`
	Connected bool              `json:"connected"`
	Error     string            `json:"error,omitempty"`
}

// Check resolves and pings every known platform.
func (f *Factory) Check(ctx context.Context) []Status {
	platforms := []platform.Platform{platform.WooCommerce, platform.Shopify}
	out := make([]Status, 0, len(platforms))
	for _, p := range platforms {
		st := Status{Platform: p}
		client, err := f.Client(ctx, p)
		if err == nil {
			if pinger, ok := client.(Pinger); ok {
				err = pinger.Ping(ctx)
			}
		}
		if err != nil {
			st.Error = err.Error()
		} else {
			st.Connected = true
		}
		out = append(out, st)
	}
	return out
}
