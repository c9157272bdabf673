package mocks

import (
	"context"

	"catalog-sync/core/platform"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of platform.Client
type Client struct {
	mock.Mock
}

func (m *Client) Platform() platform.Platform {
	args := m.Called()
	return args.Get(0).(platform.Platform)
}

func (m *Client) FetchPage(ctx context.Context, kind platform.Kind, token string, pageSize int, filters platform.Filters) (platform.Page, error) {
	args := m.Called(ctx, kind, token, pageSize, filters)
	return args.Get(0).(platform.Page), args.Error(1)
}

func (m *Client) GetOne(ctx context.Context, kind platform.Kind, id string) (platform.Entity, error) {
	args := m.Called(ctx, kind, id)
	return args.Get(0).(platform.Entity), args.Error(1)
}

func (m *Client) CreateOne(ctx context.Context, kind platform.Kind, payload platform.Payload) (string, error) {
	args := m.Called(ctx, kind, payload)
	return args.String(0), args.Error(1)
}

func (m *Client) UpdateOne(ctx context.Context, kind platform.Kind, id string, payload platform.Payload) error {
	args := m.Called(ctx, kind, id, payload)
	return args.Error(0)
}

func (m *Client) DeleteOne(ctx context.Context, kind platform.Kind, id string, hard bool) error {
	args := m.Called(ctx, kind, id, hard)
	return args.Error(0)
}
