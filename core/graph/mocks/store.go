package mocks

import (
	"context"

	"parking-sync/core/graph"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of graph.Store
type Store struct {
	mock.Mock
}

func (m *Store) GetContext(ctx context.Context, name string) (*graph.Node, error) {
	args := m.Called(ctx, name)
	if n, ok := args.Get(0).(*graph.Node); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetNetworks(ctx context.Context, contextID string) ([]graph.Node, error) {
	args := m.Called(ctx, contextID)
	if n, ok := args.Get(0).([]graph.Node); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetDevices(ctx context.Context, networkID string) ([]graph.Node, error) {
	args := m.Called(ctx, networkID)
	if n, ok := args.Get(0).([]graph.Node); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetInfo(ctx context.Context, id string) (*graph.NodeInfo, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*graph.NodeInfo); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) DeviceNames(ctx context.Context, contextID string) (map[string]struct{}, error) {
	args := m.Called(ctx, contextID)
	if n, ok := args.Get(0).(map[string]struct{}); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) SetEndpointValue(ctx context.Context, id string, value any) error {
	args := m.Called(ctx, id, value)
	return args.Error(0)
}

func (m *Store) UpdateData(ctx context.Context, networkID string, device graph.DeviceSpec) (*graph.Node, error) {
	args := m.Called(ctx, networkID, device)
	if n, ok := args.Get(0).(*graph.Node); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
