// Package platform defines the capability contract every e-commerce platform
// client implements, and the typed entity model shared by the reconciliation core.
//
// # Client
//
// Client exposes list/get/create/update/delete per entity kind. Paged fetches
// return an opaque continuation token: WooCommerce encodes a page number,
// Shopify passes its GraphQL cursor through. Drain follows tokens until none
// is returned, so callers never branch on the platform.
//
// # Entities
//
// An Entity is an immutable snapshot: a kind, the platform-native id, and one of
// the typed attribute structs (Product, Collection, BlogPost, Review, Customer,
// ShippingZone). Clients decode platform JSON into these canonical structs, so
// enumerated values (product status, for instance) are already normalised.
//
// # Errors
//
// Operations fail with a TransientError (timeouts, 429, 5xx) that callers may
// retry, or a PermanentError (validation, other 4xx, bad credentials) that they
// must not. Classify maps an HTTP exchange onto this taxonomy.
//
// Concrete clients live in the woocommerce, shopify and memory subpackages.
package platform
