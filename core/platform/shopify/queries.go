package shopify

import "catalog-sync/core/platform"

// kindSpec describes how one entity kind maps onto the Admin GraphQL API.
type kindSpec struct {
	// connection is the root query field for paged lists.
	connection string
	// typename is the GraphQL object type, used for node lookups.
	typename string
	// selection is the field selection of one node.
	selection string

	create string
	update string
	remove string
	// result is the object field returned by create and update mutations.
	result string
	// deleted is the id field returned by the delete mutation.
	deleted string
	// argStyle selects how mutation arguments are passed.
	argStyle argStyle
}

type argStyle int

const (
	// inputArg passes everything, id included, as (input: ...).
	inputArg argStyle = iota
	// articleArg passes (article: ...) with the id as a separate argument.
	articleArg
)

var specs = map[platform.Kind]kindSpec{
	platform.KindProduct: {
		connection: "products",
		typename:   "Product",
		selection: `id handle title descriptionHtml vendor productType status tags
			variants(first: 1) { nodes { id sku price compareAtPrice inventoryQuantity } }`,
		create:  "productCreate",
		update:  "productUpdate",
		remove:  "productDelete",
		result:  "product",
		deleted: "deletedProductId",
	},
	platform.KindCollection: {
		connection: "collections",
		typename:   "Collection",
		selection:  `id handle title descriptionHtml sortOrder`,
		create:     "collectionCreate",
		update:     "collectionUpdate",
		remove:     "collectionDelete",
		result:     "collection",
		deleted:    "deletedCollectionId",
	},
	platform.KindCustomer: {
		connection: "customers",
		typename:   "Customer",
		selection:  `id email firstName lastName phone tags emailMarketingConsent { marketingState }`,
		create:     "customerCreate",
		update:     "customerUpdate",
		remove:     "customerDelete",
		result:     "customer",
		deleted:    "deletedCustomerId",
	},
	platform.KindBlogPost: {
		connection: "articles",
		typename:   "Article",
		selection:  `id handle title body tags isPublished author { name }`,
		create:     "articleCreate",
		update:     "articleUpdate",
		remove:     "articleDelete",
		result:     "article",
		deleted:    "deletedArticleId",
		argStyle:   articleArg,
	},
}

func listQuery(s kindSpec) string {
	return `query List($first: Int!, $after: String, $query: String) {
  ` + s.connection + `(first: $first, after: $after, query: $query) {
    pageInfo { hasNextPage endCursor }
    nodes { ` + s.selection + ` }
  }
}`
}

func nodeQuery(s kindSpec) string {
	return `query Node($id: ID!) {
  node(id: $id) { ... on ` + s.typename + ` { ` + s.selection + ` } }
}`
}

const userErrors = `userErrors { field message }`

func createMutation(s kindSpec) string {
	if s.argStyle == articleArg {
		return `mutation Create($article: ArticleCreateInput!) {
  ` + s.create + `(article: $article) { ` + s.result + ` { id } ` + userErrors + ` }
}`
	}
	return `mutation Create($input: ` + s.typename + `Input!) {
  ` + s.create + `(input: $input) { ` + s.result + ` { ` + s.selection + ` } ` + userErrors + ` }
}`
}

func updateMutation(s kindSpec) string {
	if s.argStyle == articleArg {
		return `mutation Update($id: ID!, $article: ArticleUpdateInput!) {
  ` + s.update + `(id: $id, article: $article) { ` + s.result + ` { id } ` + userErrors + ` }
}`
	}
	return `mutation Update($input: ` + s.typename + `Input!) {
  ` + s.update + `(input: $input) { ` + s.result + ` { ` + s.selection + ` } ` + userErrors + ` }
}`
}

func deleteMutation(s kindSpec) string {
	if s.argStyle == articleArg {
		return `mutation Delete($id: ID!) {
  ` + s.remove + `(id: $id) { ` + s.deleted + ` ` + userErrors + ` }
}`
	}
	return `mutation Delete($input: ` + s.typename + `DeleteInput!) {
  ` + s.remove + `(input: $input) { ` + s.deleted + ` ` + userErrors + ` }
}`
}

const variantsBulkUpdate = `mutation Variants($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
  productVariantsBulkUpdate(productId: $productId, variants: $variants) {
    productVariants { id }
    ` + userErrors + `
  }
}`
