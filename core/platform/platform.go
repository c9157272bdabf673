package platform

import "context"

// Platform identifies an e-commerce platform.
type Platform string

const (
	// WooCommerce is the offset-paginated REST platform.
	WooCommerce Platform = "woocommerce"
	// Shopify is the cursor-paginated GraphQL platform.
	Shopify Platform = "shopify"
)

// IsValid reports whether p is a recognized platform.
func (p Platform) IsValid() bool {
	switch p {
	case WooCommerce, Shopify:
		return true
	default:
		return false
	}
}

// Other returns the opposite platform of a sync pair.
func (p Platform) Other() (Platform, bool) {
	switch p {
	case WooCommerce:
		return Shopify, true
	case Shopify:
		return WooCommerce, true
	default:
		return "", false
	}
}

// String returns the platform identifier.
func (p Platform) String() string {
	return string(p)
}

// Kind is the entity kind a client operation targets.
type Kind string

const (
	KindProduct      Kind = "product"
	KindCollection   Kind = "collection"
	KindBlogPost     Kind = "blog_post"
	KindReview       Kind = "review"
	KindCustomer     Kind = "customer"
	KindShippingZone Kind = "shipping_zone"
)

// Kinds returns every supported entity kind.
func Kinds() []Kind {
	return []Kind{KindProduct, KindCollection, KindBlogPost, KindReview, KindCustomer, KindShippingZone}
}

// IsValid reports whether k is a supported entity kind.
func (k Kind) IsValid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Filters narrows a paged fetch. Keys are platform-neutral ("status", "updated_after");
// clients ignore filters they do not support.
type Filters map[string]string

// Payload is a create/update body in the destination platform's field names.
type Payload map[string]any

// Page is one page of a paged fetch.
type Page struct {
	// Items are the entities on this page, in platform order.
	Items []Entity
	// Next is the continuation token, empty when there are no more pages.
	Next string
}

// HasNext reports whether another page can be fetched.
func (p Page) HasNext() bool {
	return p.Next != ""
}

// Client is the capability set every platform implements.
//
// Pagination is exposed as an opaque continuation token so callers never branch
// on the platform. Mutations are not idempotent: CreateOne twice creates twice.
type Client interface {
	// Platform returns the platform this client talks to.
	Platform() Platform

	// FetchPage fetches one page of entities. An empty token requests the first page.
	FetchPage(ctx context.Context, kind Kind, token string, pageSize int, filters Filters) (Page, error)

	// GetOne fetches a single entity by its platform-native id.
	// Returns an error matching ErrNotFound when it does not exist.
	GetOne(ctx context.Context, kind Kind, id string) (Entity, error)

	// CreateOne creates an entity and returns its platform-native id.
	CreateOne(ctx context.Context, kind Kind, payload Payload) (string, error)

	// UpdateOne overwrites the fields present in payload.
	UpdateOne(ctx context.Context, kind Kind, id string, payload Payload) error

	// DeleteOne removes an entity. Platforms without soft delete ignore hard.
	DeleteOne(ctx context.Context, kind Kind, id string, hard bool) error
}
