package mocks

import (
	"context"

	"parking-sync/core/source"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of source.Client
type Client struct {
	mock.Mock
}

func (m *Client) FetchSummary(ctx context.Context) (*source.Summary, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*source.Summary); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) FetchDetailedState(ctx context.Context) (*source.DetailedState, error) {
	args := m.Called(ctx)
	if d, ok := args.Get(0).(*source.DetailedState); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}
