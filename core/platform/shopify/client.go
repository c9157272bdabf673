package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"catalog-sync/core/platform"
)

const maxResponseSize = 10 << 20

// Client talks to the Shopify Admin GraphQL API. The continuation token is
// the connection's endCursor, passed through untouched.
type Client struct {
	endpoint   string
	cfg        Config
	httpClient *http.Client
}

// New creates a client for cfg.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	version := cfg.APIVersion
	if version == "" {
		version = "2024-10"
	}
	base := strings.TrimRight(cfg.Shop, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return &Client{
		endpoint: fmt.Sprintf("%s/admin/api/%s/graphql.json", base, version),
		cfg:      cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}, nil
}

func (c *Client) Platform() platform.Platform {
	return platform.Shopify
}

func spec(kind platform.Kind) (kindSpec, error) {
	s, ok := specs[kind]
	if !ok {
		return kindSpec{}, platform.Permanent("shopify", 0, fmt.Errorf("%w: %s", platform.ErrUnsupportedKind, kind))
	}
	return s, nil
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type connection struct {
	PageInfo pageInfo          `json:"pageInfo"`
	Nodes    []json.RawMessage `json:"nodes"`
}

func (c *Client) FetchPage(ctx context.Context, kind platform.Kind, token string, pageSize int, filters platform.Filters) (platform.Page, error) {
	s, err := spec(kind)
	if err != nil {
		return platform.Page{}, err
	}
	if pageSize <= 0 {
		pageSize = platform.DefaultPageSize
	}
	// The Admin API caps connections at 250 nodes per page.
	if pageSize > 250 {
		pageSize = 250
	}

	vars := map[string]any{"first": pageSize}
	if token != "" {
		vars["after"] = token
	}
	if q := searchQuery(filters); q != "" {
		vars["query"] = q
	}

	var data map[string]connection
	if err := c.graphql(ctx, "shopify.list", listQuery(s), vars, &data); err != nil {
		return platform.Page{}, err
	}
	conn := data[s.connection]

	out := platform.Page{Items: make([]platform.Entity, 0, len(conn.Nodes))}
	for _, node := range conn.Nodes {
		e, err := decode(kind, node)
		if err != nil {
			return platform.Page{}, platform.Permanent("shopify.list", 0, err)
		}
		out.Items = append(out.Items, e)
	}
	if conn.PageInfo.HasNextPage {
		if conn.PageInfo.EndCursor == "" {
			return platform.Page{}, platform.Permanent("shopify.list", 0, fmt.Errorf("%w: next page without cursor", platform.ErrInvalidToken))
		}
		out.Next = conn.PageInfo.EndCursor
	}
	return out, nil
}

// searchQuery renders neutral filters in Shopify search syntax.
func searchQuery(filters platform.Filters) string {
	var parts []string
	if status := filters["status"]; status != "" {
		parts = append(parts, "status:"+status)
	}
	if after := filters["updated_after"]; after != "" {
		parts = append(parts, fmt.Sprintf("updated_at:>'%s'", after))
	}
	return strings.Join(parts, " ")
}

func (c *Client) GetOne(ctx context.Context, kind platform.Kind, id string) (platform.Entity, error) {
	s, err := spec(kind)
	if err != nil {
		return platform.Entity{}, err
	}
	var data struct {
		Node json.RawMessage `json:"node"`
	}
	if err := c.graphql(ctx, "shopify.get", nodeQuery(s), map[string]any{"id": id}, &data); err != nil {
		return platform.Entity{}, err
	}
	if len(data.Node) == 0 || string(data.Node) == "null" || string(data.Node) == "{}" {
		return platform.Entity{}, platform.Permanent("shopify.get", http.StatusNotFound, platform.ErrNotFound)
	}
	e, err := decode(kind, data.Node)
	if err != nil {
		return platform.Entity{}, platform.Permanent("shopify.get", 0, err)
	}
	return e, nil
}

func (c *Client) CreateOne(ctx context.Context, kind platform.Kind, payload platform.Payload) (string, error) {
	s, err := spec(kind)
	if err != nil {
		return "", err
	}
	input, variant := splitVariant(payload)

	vars := map[string]any{"input": input}
	if s.argStyle == articleArg {
		if c.cfg.BlogID == "" {
			return "", platform.Permanent("shopify.create", 0, errors.New("no blog configured for articles"))
		}
		input["blogId"] = c.cfg.BlogID
		vars = map[string]any{"article": input}
	}

	obj, err := c.mutate(ctx, "shopify.create", createMutation(s), vars, s.create, s.result)
	if err != nil {
		return "", err
	}
	var created struct {
		ID       string `json:"id"`
		Variants struct {
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
		} `json:"variants"`
	}
	if err := json.Unmarshal(obj, &created); err != nil || created.ID == "" {
		return "", platform.Permanent("shopify.create", 0, fmt.Errorf("no id in %s response", s.create))
	}

	if variant != nil && len(created.Variants.Nodes) > 0 {
		if err := c.updateVariant(ctx, created.ID, created.Variants.Nodes[0].ID, variant); err != nil {
			return created.ID, err
		}
	}
	return created.ID, nil
}

func (c *Client) UpdateOne(ctx context.Context, kind platform.Kind, id string, payload platform.Payload) error {
	s, err := spec(kind)
	if err != nil {
		return err
	}
	input, variant := splitVariant(payload)

	var obj json.RawMessage
	if len(input) > 0 || variant != nil {
		vars := map[string]any{}
		if s.argStyle == articleArg {
			vars["id"] = id
			vars["article"] = input
		} else {
			input["id"] = id
			vars["input"] = input
		}
		obj, err = c.mutate(ctx, "shopify.update", updateMutation(s), vars, s.update, s.result)
		if err != nil {
			return err
		}
	}

	if variant != nil {
		var updated struct {
			Variants struct {
				Nodes []struct {
					ID string `json:"id"`
				} `json:"nodes"`
			} `json:"variants"`
		}
		if err := json.Unmarshal(obj, &updated); err != nil || len(updated.Variants.Nodes) == 0 {
			return platform.Permanent("shopify.update", 0, errors.New("product has no variant to update"))
		}
		return c.updateVariant(ctx, id, updated.Variants.Nodes[0].ID, variant)
	}
	return nil
}

func (c *Client) DeleteOne(ctx context.Context, kind platform.Kind, id string, hard bool) error {
	s, err := spec(kind)
	if err != nil {
		return err
	}
	if !hard {
		switch kind {
		case platform.KindProduct:
			return c.UpdateOne(ctx, kind, id, platform.Payload{"status": "ARCHIVED"})
		case platform.KindBlogPost:
			return c.UpdateOne(ctx, kind, id, platform.Payload{"isPublished": false})
		default:
			return platform.Permanent("shopify.delete", 0, fmt.Errorf("%s cannot be archived, use a hard delete", kind))
		}
	}

	vars := map[string]any{"input": map[string]any{"id": id}}
	if s.argStyle == articleArg {
		vars = map[string]any{"id": id}
	}
	_, err = c.mutate(ctx, "shopify.delete", deleteMutation(s), vars, s.remove, "")
	return err
}

// splitVariant separates the nested "variant" object written by the translator
// from the product input.
func splitVariant(payload platform.Payload) (map[string]any, map[string]any) {
	input := make(map[string]any, len(payload))
	var variant map[string]any
	for k, v := range payload {
		if k == "variant" {
			if m, ok := v.(map[string]any); ok && len(m) > 0 {
				variant = m
			}
			continue
		}
		input[k] = v
	}
	return input, variant
}

func (c *Client) updateVariant(ctx context.Context, productID, variantID string, fields map[string]any) error {
	v := map[string]any{"id": variantID}
	for k, val := range fields {
		if k == "sku" {
			v["inventoryItem"] = map[string]any{"sku": val}
			continue
		}
		v[k] = val
	}
	vars := map[string]any{"productId": productID, "variants": []any{v}}
	_, err := c.mutate(ctx, "shopify.variant", variantsBulkUpdate, vars, "productVariantsBulkUpdate", "")
	return err
}

// mutate runs a mutation, turns userErrors into a PermanentError and returns
// the raw result object, if any.
func (c *Client) mutate(ctx context.Context, op, query string, vars map[string]any, field, result string) (json.RawMessage, error) {
	var data map[string]map[string]json.RawMessage
	if err := c.graphql(ctx, op, query, vars, &data); err != nil {
		return nil, err
	}
	payload := data[field]

	if raw, ok := payload["userErrors"]; ok {
		var errs []struct {
			Field   []string `json:"field"`
			Message string   `json:"message"`
		}
		if err := json.Unmarshal(raw, &errs); err == nil && len(errs) > 0 {
			msgs := make([]string, 0, len(errs))
			for _, e := range errs {
				if len(e.Field) > 0 {
					msgs = append(msgs, strings.Join(e.Field, ".")+": "+e.Message)
				} else {
					msgs = append(msgs, e.Message)
				}
			}
			return nil, platform.Permanent(op, http.StatusUnprocessableEntity, errors.New(strings.Join(msgs, "; ")))
		}
	}
	if result == "" {
		return nil, nil
	}
	return payload[result], nil
}

type graphqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// graphql posts one operation and decodes its data into out.
func (c *Client) graphql(ctx context.Context, op, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	if err != nil {
		return platform.Permanent(op, 0, fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return platform.Permanent(op, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.cfg.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return platform.Classify(op, 0, err, "")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return platform.Transient(op, resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	decodeErr := json.Unmarshal(data, &envelope)

	if err := platform.Classify(op, resp.StatusCode, nil, firstMessage(envelope.Errors)); err != nil {
		return err
	}
	if decodeErr != nil {
		return platform.Permanent(op, resp.StatusCode, fmt.Errorf("failed to decode response: %w", decodeErr))
	}
	if len(envelope.Errors) > 0 {
		return classifyGraphQL(op, envelope.Errors)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return platform.Permanent(op, resp.StatusCode, fmt.Errorf("failed to decode data: %w", err))
		}
	}
	return nil
}

// classifyGraphQL maps top-level GraphQL errors, which arrive with HTTP 200.
func classifyGraphQL(op string, errs []graphqlError) error {
	msg := firstMessage(errs)
	for _, e := range errs {
		switch e.Extensions.Code {
		case "THROTTLED":
			return platform.Transient(op, http.StatusTooManyRequests, errors.New(msg))
		case "INTERNAL_SERVER_ERROR":
			return platform.Transient(op, http.StatusInternalServerError, errors.New(msg))
		case "ACCESS_DENIED":
			return platform.Permanent(op, http.StatusForbidden, fmt.Errorf("credentials rejected: %s", msg))
		}
	}
	return platform.Permanent(op, http.StatusBadRequest, errors.New(msg))
}

func firstMessage(errs []graphqlError) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message
}

// Ping checks connectivity and credentials with the cheapest shop query.
func (c *Client) Ping(ctx context.Context) error {
	var data struct {
		Shop struct {
			Name string `json:"name"`
		} `json:"shop"`
	}
	return c.graphql(ctx, "shopify.ping", `query { shop { name } }`, nil, &data)
}

var _ platform.Client = (*Client)(nil)
