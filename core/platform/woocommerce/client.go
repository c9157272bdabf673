package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"catalog-sync/core/platform"
	"catalog-sync/core/utils"
)

const maxResponseSize = 10 << 20

// resources maps entity kinds to REST collections, relative to the site root.
var resources = map[platform.Kind]string{
	platform.KindProduct:      "/wp-json/wc/v3/products",
	platform.KindCollection:   "/wp-json/wc/v3/products/categories",
	platform.KindReview:       "/wp-json/wc/v3/products/reviews",
	platform.KindCustomer:     "/wp-json/wc/v3/customers",
	platform.KindShippingZone: "/wp-json/wc/v3/shipping/zones",
	platform.KindBlogPost:     "/wp-json/wp/v2/posts",
}

// trashable kinds can be deleted without force=true.
var trashable = map[platform.Kind]bool{
	platform.KindProduct:  true,
	platform.KindReview:   true,
	platform.KindBlogPost: true,
}

// Client talks to the WooCommerce REST API. Pages are numbered; the
// continuation token is the next page number.
type Client struct {
	base       string
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
	return &Client{
		base: strings.TrimRight(cfg.URL, "/"),
		cfg:  cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}, nil
}

func (c *Client) Platform() platform.Platform {
	return platform.WooCommerce
}

func resource(kind platform.Kind) (string, error) {
	path, ok := resources[kind]
	if !ok {
		return "", platform.Permanent("woocommerce", 0, fmt.Errorf("%w: %s", platform.ErrUnsupportedKind, kind))
	}
	return path, nil
}

func (c *Client) FetchPage(ctx context.Context, kind platform.Kind, token string, pageSize int, filters platform.Filters) (platform.Page, error) {
	path, err := resource(kind)
	if err != nil {
		return platform.Page{}, err
	}
	page, err := platform.ParseOffsetToken(token)
	if err != nil {
		return platform.Page{}, platform.Permanent("woocommerce.list", 0, err)
	}
	if pageSize <= 0 {
		pageSize = platform.DefaultPageSize
	}

	// Shipping zones are a single unpaginated list.
	if kind == platform.KindShippingZone {
		items, err := c.listZones(ctx)
		return platform.Page{Items: items}, err
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(pageSize))
	if status := filters["status"]; status != "" {
		query.Set("status", status)
	}
	if after := filters["updated_after"]; after != "" {
		query.Set("modified_after", after)
	}

	var raw []json.RawMessage
	header, err := c.do(ctx, "woocommerce.list", http.MethodGet, path, query, nil, &raw)
	if err != nil {
		return platform.Page{}, err
	}

	out := platform.Page{Items: make([]platform.Entity, 0, len(raw))}
	for _, item := range raw {
		e, err := decode(kind, item)
		if err != nil {
			return platform.Page{}, platform.Permanent("woocommerce.list", 0, err)
		}
		out.Items = append(out.Items, e)
	}

	totalPages, _ := strconv.Atoi(header.Get("X-WP-TotalPages"))
	if page < totalPages {
		out.Next = platform.OffsetToken(page + 1)
	}
	return out, nil
}

func (c *Client) GetOne(ctx context.Context, kind platform.Kind, id string) (platform.Entity, error) {
	path, err := resource(kind)
	if err != nil {
		return platform.Entity{}, err
	}
	if kind == platform.KindShippingZone {
		return c.getZone(ctx, id)
	}
	var raw json.RawMessage
	if _, err := c.do(ctx, "woocommerce.get", http.MethodGet, path+"/"+url.PathEscape(id), nil, nil, &raw); err != nil {
		return platform.Entity{}, err
	}
	e, err := decode(kind, raw)
	if err != nil {
		return platform.Entity{}, platform.Permanent("woocommerce.get", 0, err)
	}
	return e, nil
}

func (c *Client) CreateOne(ctx context.Context, kind platform.Kind, payload platform.Payload) (string, error) {
	path, err := resource(kind)
	if err != nil {
		return "", err
	}
	body, locations := prepare(kind, payload)

	var created wcCreated
	if _, err := c.do(ctx, "woocommerce.create", http.MethodPost, path, nil, body, &created); err != nil {
		return "", err
	}
	id := created.ID.String()
	if kind == platform.KindShippingZone && locations != nil {
		if err := c.putLocations(ctx, id, locations); err != nil {
			return id, err
		}
	}
	return id, nil
}

func (c *Client) UpdateOne(ctx context.Context, kind platform.Kind, id string, payload platform.Payload) error {
	path, err := resource(kind)
	if err != nil {
		return err
	}
	body, locations := prepare(kind, payload)

	if len(body) > 0 {
		if _, err := c.do(ctx, "woocommerce.update", http.MethodPut, path+"/"+url.PathEscape(id), nil, body, nil); err != nil {
			return err
		}
	}
	if kind == platform.KindShippingZone && locations != nil {
		return c.putLocations(ctx, id, locations)
	}
	return nil
}

func (c *Client) DeleteOne(ctx context.Context, kind platform.Kind, id string, hard bool) error {
	path, err := resource(kind)
	if err != nil {
		return err
	}
	if !hard && !trashable[kind] {
		return platform.Permanent("woocommerce.delete", 0, fmt.Errorf("%s cannot be trashed, use a hard delete", kind))
	}
	query := url.Values{}
	query.Set("force", strconv.FormatBool(hard))
	_, err = c.do(ctx, "woocommerce.delete", http.MethodDelete, path+"/"+url.PathEscape(id), query, nil, nil)
	return err
}

// prepare adapts a translated payload to the REST body. Shipping zone
// countries are written through a separate locations call.
func prepare(kind platform.Kind, payload platform.Payload) (platform.Payload, []wcZoneLocation) {
	body := make(platform.Payload, len(payload))
	for k, v := range payload {
		body[k] = v
	}

	switch kind {
	case platform.KindProduct:
		if _, ok := body["stock_quantity"]; ok {
			body["manage_stock"] = true
		}
	case platform.KindShippingZone:
		countries, ok := body["countries"]
		delete(body, "countries")
		delete(body, "rates")
		if !ok {
			return body, nil
		}
		var locations []wcZoneLocation
		for _, code := range utils.ToStrings(countries) {
			locations = append(locations, wcZoneLocation{Code: code, Type: "country"})
		}
		if locations == nil {
			locations = []wcZoneLocation{}
		}
		return body, locations
	}
	return body, nil
}

func (c *Client) listZones(ctx context.Context) ([]platform.Entity, error) {
	var zones []wcZone
	if _, err := c.do(ctx, "woocommerce.list", http.MethodGet, resources[platform.KindShippingZone], nil, nil, &zones); err != nil {
		return nil, err
	}
	out := make([]platform.Entity, 0, len(zones))
	for _, z := range zones {
		e, err := c.expandZone(ctx, z)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *Client) getZone(ctx context.Context, id string) (platform.Entity, error) {
	var z wcZone
	if _, err := c.do(ctx, "woocommerce.get", http.MethodGet, resources[platform.KindShippingZone]+"/"+url.PathEscape(id), nil, nil, &z); err != nil {
		return platform.Entity{}, err
	}
	return c.expandZone(ctx, z)
}

// expandZone loads the locations and methods of a zone.
func (c *Client) expandZone(ctx context.Context, z wcZone) (platform.Entity, error) {
	base := fmt.Sprintf("%s/%d", resources[platform.KindShippingZone], z.ID)

	var locations []wcZoneLocation
	if _, err := c.do(ctx, "woocommerce.zone_locations", http.MethodGet, base+"/locations", nil, nil, &locations); err != nil {
		return platform.Entity{}, err
	}
	var methods []wcZoneMethod
	if _, err := c.do(ctx, "woocommerce.zone_methods", http.MethodGet, base+"/methods", nil, nil, &methods); err != nil {
		return platform.Entity{}, err
	}
	return zoneEntity(z, locations, methods), nil
}

func (c *Client) putLocations(ctx context.Context, id string, locations []wcZoneLocation) error {
	path := resources[platform.KindShippingZone] + "/" + url.PathEscape(id) + "/locations"
	_, err := c.do(ctx, "woocommerce.zone_locations", http.MethodPut, path, nil, locations, nil)
	return err
}

// do performs one API call and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, out any) (http.Header, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, platform.Permanent(op, 0, fmt.Errorf("failed to encode request: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, platform.Permanent(op, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, platform.Classify(op, 0, err, "")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, platform.Transient(op, resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	if err := platform.Classify(op, resp.StatusCode, nil, errorDetail(data)); err != nil {
		return nil, err
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, platform.Permanent(op, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
		}
	}
	return resp.Header, nil
}

func errorDetail(data []byte) string {
	var e wcError
	if err := json.Unmarshal(data, &e); err != nil || e.Message == "" {
		return ""
	}
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// ErrBadCredentials is returned by Ping when the store rejects the keys.
var ErrBadCredentials = errors.New("woocommerce: credentials rejected")

// Ping checks connectivity and credentials with a one-item product fetch.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.FetchPage(ctx, platform.KindProduct, "", 1, nil)
	var perm *platform.PermanentError
	if errors.As(err, &perm) && (perm.StatusCode == http.StatusUnauthorized || perm.StatusCode == http.StatusForbidden) {
		return fmt.Errorf("%w: %v", ErrBadCredentials, err)
	}
	return err
}

var _ platform.Client = (*Client)(nil)
