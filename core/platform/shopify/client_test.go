package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"catalog-sync/core/platform"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// newTestClient serves every GraphQL call through respond and records the requests.
func newTestClient(t *testing.T, respond func(req gqlRequest) (int, string)) (*Client, *[]gqlRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []gqlRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-10/graphql.json", r.URL.Path)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))

		var req gqlRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		seen = append(seen, req)
		mu.Unlock()

		status, body := respond(req)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{Shop: srv.URL, AccessToken: "shpat_test", BlogID: "gid://shopify/Blog/1", TimeoutSeconds: 5})
	require.NoError(t, err)
	return c, &seen
}

func TestConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, Config{}.Validate(), ErrMissingShop)
	assert.ErrorIs(t, Config{Shop: "demo.myshopify.com"}.Validate(), ErrMissingToken)
	assert.True(t, Config{Shop: "demo.myshopify.com"}.IsConfigured())

	c, err := New(Config{Shop: "demo.myshopify.com", AccessToken: "t"})
	require.NoError(t, err)
	assert.Equal(t, "https://demo.myshopify.com/admin/api/2024-10/graphql.json", c.endpoint)
}

func TestFetchPage_CursorPagination(t *testing.T) {
	c, seen := newTestClient(t, func(req gqlRequest) (int, string) {
		if req.Variables["after"] == nil {
			return 200, `{"data":{"products":{"pageInfo":{"hasNextPage":true,"endCursor":"abc"},"nodes":[
				{"id":"gid://shopify/Product/1","handle":"tee","title":"Tee","status":"ACTIVE","tags":["a"],
				 "variants":{"nodes":[{"id":"gid://shopify/ProductVariant/9","sku":"T-1","price":"19.90","compareAtPrice":"25.00","inventoryQuantity":4}]}}]}}}`
		}
		return 200, `{"data":{"products":{"pageInfo":{"hasNextPage":false,"endCursor":"def"},"nodes":[
			{"id":"gid://shopify/Product/2","handle":"mug","title":"Mug","status":"DRAFT","variants":{"nodes":[]}}]}}}`
	})

	first, err := c.FetchPage(context.Background(), platform.KindProduct, "", 1, platform.Filters{"status": "active"})
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.Equal(t, "abc", first.Next)

	p := first.Items[0].Attrs.(*platform.Product)
	assert.Equal(t, "tee", p.Slug)
	assert.Equal(t, platform.ProductActive, p.Status)
	assert.Equal(t, "T-1", p.SKU)
	assert.True(t, decimal.RequireFromString("19.90").Equal(p.Price))
	assert.True(t, decimal.NewFromInt(25).Equal(p.CompareAtPrice))
	assert.Equal(t, 4, p.Inventory)

	second, err := c.FetchPage(context.Background(), platform.KindProduct, first.Next, 1, nil)
	require.NoError(t, err)
	assert.False(t, second.HasNext())
	assert.Equal(t, platform.ProductDraft, second.Items[0].Attrs.(*platform.Product).Status)

	assert.Equal(t, "status:active", (*seen)[0].Variables["query"])
	assert.Equal(t, "abc", (*seen)[1].Variables["after"])
}

func TestFetchPage_Decoding(t *testing.T) {
	c, _ := newTestClient(t, func(req gqlRequest) (int, string) {
		switch {
		case strings.Contains(req.Query, "collections("):
			return 200, `{"data":{"collections":{"pageInfo":{"hasNextPage":false},"nodes":[{"id":"c1","handle":"summer","title":"Summer","sortOrder":"ALPHA_ASC"}]}}}`
		case strings.Contains(req.Query, "customers("):
			return 200, `{"data":{"customers":{"pageInfo":{"hasNextPage":false},"nodes":[{"id":"u1","email":"a@b.c","firstName":"Ann","emailMarketingConsent":{"marketingState":"SUBSCRIBED"}}]}}}`
		default:
			return 200, `{"data":{"articles":{"pageInfo":{"hasNextPage":false},"nodes":[{"id":"a1","handle":"hello","title":"Hello","isPublished":true,"author":{"name":"Kim"}}]}}}`
		}
	})
	ctx := context.Background()

	page, err := c.FetchPage(ctx, platform.KindCollection, "", 10, nil)
	require.NoError(t, err)
	assert.Equal(t, "alpha-asc", page.Items[0].Attrs.(*platform.Collection).SortOrder)

	page, err = c.FetchPage(ctx, platform.KindCustomer, "", 10, nil)
	require.NoError(t, err)
	assert.True(t, page.Items[0].Attrs.(*platform.Customer).AcceptsMarketing)

	page, err = c.FetchPage(ctx, platform.KindBlogPost, "", 10, nil)
	require.NoError(t, err)
	post := page.Items[0].Attrs.(*platform.BlogPost)
	assert.Equal(t, "Kim", post.Author)
	assert.True(t, post.Published)
}

func TestFetchPage_UnsupportedKind(t *testing.T) {
	c, seen := newTestClient(t, func(gqlRequest) (int, string) { return 200, `{}` })

	_, err := c.FetchPage(context.Background(), platform.KindReview, "", 10, nil)
	assert.ErrorIs(t, err, platform.ErrUnsupportedKind)
	assert.True(t, platform.IsPermanent(err))
	assert.Empty(t, *seen)
}

func TestGetOne_NotFound(t *testing.T) {
	c, _ := newTestClient(t, func(gqlRequest) (int, string) {
		return 200, `{"data":{"node":null}}`
	})

	_, err := c.GetOne(context.Background(), platform.KindProduct, "gid://shopify/Product/404")
	assert.ErrorIs(t, err, platform.ErrNotFound)
}

func TestErrors_Classification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		transient bool
	}{
		{"throttled", 200, `{"errors":[{"message":"Throttled","extensions":{"code":"THROTTLED"}}]}`, true},
		{"server error", 502, `bad gateway`, true},
		{"rate limited", 429, `{}`, true},
		{"syntax error", 200, `{"errors":[{"message":"Field 'x' doesn't exist"}]}`, false},
		{"unauthorized", 401, `{"errors":"[API] Invalid API key or access token"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(gqlRequest) (int, string) { return tt.status, tt.body })
			_, err := c.FetchPage(context.Background(), platform.KindProduct, "", 10, nil)
			require.Error(t, err)
			assert.Equal(t, tt.transient, platform.IsTransient(err))
			assert.Equal(t, !tt.transient, platform.IsPermanent(err))
		})
	}
}

func TestCreateOne_ProductAppliesVariant(t *testing.T) {
	c, seen := newTestClient(t, func(req gqlRequest) (int, string) {
		if strings.Contains(req.Query, "productVariantsBulkUpdate") {
			return 200, `{"data":{"productVariantsBulkUpdate":{"productVariants":[{"id":"v1"}],"userErrors":[]}}}`
		}
		return 200, `{"data":{"productCreate":{"product":{"id":"gid://shopify/Product/7","variants":{"nodes":[{"id":"v1"}]}},"userErrors":[]}}}`
	})

	id, err := c.CreateOne(context.Background(), platform.KindProduct, platform.Payload{
		"title":   "Tee",
		"handle":  "tee",
		"variant": map[string]any{"sku": "T-1", "price": "19.90"},
	})
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Product/7", id)

	require.Len(t, *seen, 2)
	input := (*seen)[0].Variables["input"].(map[string]any)
	assert.NotContains(t, input, "variant")
	assert.Equal(t, "tee", input["handle"])

	variants := (*seen)[1].Variables["variants"].([]any)
	v := variants[0].(map[string]any)
	assert.Equal(t, "v1", v["id"])
	assert.Equal(t, "19.90", v["price"])
	assert.Equal(t, map[string]any{"sku": "T-1"}, v["inventoryItem"])
}

func TestCreateOne_UserErrorsArePermanent(t *testing.T) {
	c, _ := newTestClient(t, func(gqlRequest) (int, string) {
		return 200, `{"data":{"customerCreate":{"customer":null,"userErrors":[{"field":["email"],"message":"has already been taken"}]}}}`
	})

	_, err := c.CreateOne(context.Background(), platform.KindCustomer, platform.Payload{"email": "a@b.c"})
	require.Error(t, err)
	assert.True(t, platform.IsPermanent(err))
	assert.Contains(t, err.Error(), "email: has already been taken")

	var perr *platform.PermanentError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusUnprocessableEntity, perr.StatusCode)
}

func TestCreateOne_ArticleUsesBlog(t *testing.T) {
	c, seen := newTestClient(t, func(gqlRequest) (int, string) {
		return 200, `{"data":{"articleCreate":{"article":{"id":"gid://shopify/Article/3"},"userErrors":[]}}}`
	})

	id, err := c.CreateOne(context.Background(), platform.KindBlogPost, platform.Payload{"title": "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Article/3", id)

	article := (*seen)[0].Variables["article"].(map[string]any)
	assert.Equal(t, "gid://shopify/Blog/1", article["blogId"])
}

func TestUpdateOne_PassesID(t *testing.T) {
	c, seen := newTestClient(t, func(gqlRequest) (int, string) {
		return 200, `{"data":{"collectionUpdate":{"collection":{"id":"c1"},"userErrors":[]}}}`
	})

	require.NoError(t, c.UpdateOne(context.Background(), platform.KindCollection, "c1", platform.Payload{"title": "New"}))
	input := (*seen)[0].Variables["input"].(map[string]any)
	assert.Equal(t, "c1", input["id"])
	assert.Equal(t, "New", input["title"])
}

func TestDeleteOne(t *testing.T) {
	t.Run("soft delete archives products", func(t *testing.T) {
		c, seen := newTestClient(t, func(gqlRequest) (int, string) {
			return 200, `{"data":{"productUpdate":{"product":{"id":"p1"},"userErrors":[]}}}`
		})
		require.NoError(t, c.DeleteOne(context.Background(), platform.KindProduct, "p1", false))
		assert.Equal(t, "ARCHIVED", (*seen)[0].Variables["input"].(map[string]any)["status"])
	})

	t.Run("hard delete", func(t *testing.T) {
		c, seen := newTestClient(t, func(gqlRequest) (int, string) {
			return 200, `{"data":{"customerDelete":{"deletedCustomerId":"u1","userErrors":[]}}}`
		})
		require.NoError(t, c.DeleteOne(context.Background(), platform.KindCustomer, "u1", true))
		assert.Contains(t, (*seen)[0].Query, "customerDelete")
	})

	t.Run("soft delete of a customer is rejected", func(t *testing.T) {
		c, seen := newTestClient(t, func(gqlRequest) (int, string) { return 200, `{}` })
		err := c.DeleteOne(context.Background(), platform.KindCustomer, "u1", false)
		assert.True(t, platform.IsPermanent(err))
		assert.Empty(t, *seen)
	})
}
