// Package shopify implements platform.Client over the Shopify Admin GraphQL API.
//
// Lists use connection cursors as continuation tokens. Product prices and SKU
// live on the first variant; writes to them go through productVariantsBulkUpdate
// after the product mutation. Reviews and shipping zones have no Admin API
// equivalent and fail with platform.ErrUnsupportedKind.
package shopify
