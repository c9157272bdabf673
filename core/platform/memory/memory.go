// Package memory implements platform.Client over an in-process store.
//
// It backs tests, dry runs and connections configured with the "memory" driver.
// Payloads are expected in canonical field names, which is what the translator
// emits for a platform pair without a mapping table.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"catalog-sync/core/platform"
)

// WriteHook runs before every mutation; a non-nil error aborts it.
type WriteHook func(op string, kind platform.Kind, id string, payload platform.Payload) error

// Client is an in-memory platform.
type Client struct {
	platform platform.Platform

	mu      sync.RWMutex
	order   map[platform.Kind][]string
	records map[platform.Kind]map[string]platform.Entity
	nextID  int
	hook    WriteHook
}

// New creates an empty in-memory platform that reports itself as p.
func New(p platform.Platform) *Client {
	return &Client{
		platform: p,
		order:    make(map[platform.Kind][]string),
		records:  make(map[platform.Kind]map[string]platform.Entity),
	}
}

// SetWriteHook installs a hook invoked before create, update and delete.
func (c *Client) SetWriteHook(hook WriteHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hook = hook
}

// Seed stores attrs as new entities and returns their ids.
func (c *Client) Seed(attrs ...platform.Attributes) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(attrs))
	for _, a := range attrs {
		ids = append(ids, c.insert(a))
	}
	return ids
}

// Len returns the number of stored entities of kind.
func (c *Client) Len(kind platform.Kind) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order[kind])
}

func (c *Client) insert(a platform.Attributes) string {
	c.nextID++
	id := fmt.Sprintf("%s-%d", c.platform, c.nextID)
	kind := a.Kind()
	if c.records[kind] == nil {
		c.records[kind] = make(map[string]platform.Entity)
	}
	c.records[kind][id] = platform.Entity{Kind: kind, ID: id, Attrs: a}
	c.order[kind] = append(c.order[kind], id)
	return id
}

func (c *Client) Platform() platform.Platform {
	return c.platform
}

func (c *Client) FetchPage(ctx context.Context, kind platform.Kind, token string, pageSize int, _ platform.Filters) (platform.Page, error) {
	if err := ctx.Err(); err != nil {
		return platform.Page{}, err
	}
	page, err := platform.ParseOffsetToken(token)
	if err != nil {
		return platform.Page{}, platform.Permanent("memory.list", 0, err)
	}
	if pageSize <= 0 {
		pageSize = platform.DefaultPageSize
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := c.order[kind]
	start := (page - 1) * pageSize
	if start >= len(ids) {
		return platform.Page{}, nil
	}
	end := start + pageSize
	if end > len(ids) {
		end = len(ids)
	}

	out := platform.Page{Items: make([]platform.Entity, 0, end-start)}
	for _, id := range ids[start:end] {
		out.Items = append(out.Items, c.records[kind][id])
	}
	if end < len(ids) {
		out.Next = platform.OffsetToken(page + 1)
	}
	return out, nil
}

func (c *Client) GetOne(ctx context.Context, kind platform.Kind, id string) (platform.Entity, error) {
	if err := ctx.Err(); err != nil {
		return platform.Entity{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.records[kind][id]
	if !ok {
		return platform.Entity{}, platform.Permanent("memory.get", 404, platform.ErrNotFound)
	}
	return e, nil
}

func (c *Client) CreateOne(ctx context.Context, kind platform.Kind, payload platform.Payload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := c.runHook("create", kind, "", payload); err != nil {
		return "", err
	}
	attrs, err := platform.DecodeFields(kind, platform.Fields(payload))
	if err != nil {
		return "", platform.Permanent("memory.create", 422, err)
	}
	if attrs.Handle() == "" {
		return "", platform.Permanent("memory.create", 422, errors.New("matching key is blank"))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insert(attrs), nil
}

func (c *Client) UpdateOne(ctx context.Context, kind platform.Kind, id string, payload platform.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.runHook("update", kind, id, payload); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.records[kind][id]
	if !ok {
		return platform.Permanent("memory.update", 404, platform.ErrNotFound)
	}
	merged := existing.Attrs.Fields()
	for k, v := range payload {
		merged[k] = v
	}
	attrs, err := platform.DecodeFields(kind, merged)
	if err != nil {
		return platform.Permanent("memory.update", 422, err)
	}
	c.records[kind][id] = platform.Entity{Kind: kind, ID: id, Attrs: attrs}
	return nil
}

func (c *Client) DeleteOne(ctx context.Context, kind platform.Kind, id string, _ bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.runHook("delete", kind, id, nil); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.records[kind][id]; !ok {
		return platform.Permanent("memory.delete", 404, platform.ErrNotFound)
	}
	delete(c.records[kind], id)
	ids := c.order[kind]
	for i, existing := range ids {
		if existing == id {
			c.order[kind] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Client) runHook(op string, kind platform.Kind, id string, payload platform.Payload) error {
	c.mu.RLock()
	hook := c.hook
	c.mu.RUnlock()
	if hook == nil {
		return nil
	}
	return hook(op, kind, id, payload)
}

var _ platform.Client = (*Client)(nil)
