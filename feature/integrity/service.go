package integrity

import (
	"context"
	"errors"

	"parking-sync/core/graph"
	"parking-sync/core/source"
	"parking-sync/core/storage"
	"parking-sync/core/syncer"
	"parking-sync/feature/integrity/checks"

	"go.uber.org/zap"
)

// ErrNotReady is returned by the drift check before the context is known.
var ErrNotReady = errors.New("synchronization not initialized")

// Store is the part of the graph store the checks read.
type Store interface {
	checks.SchemaChecker
	checks.DeviceNamer
}

// StatusProvider exposes the controller status.
type StatusProvider interface {
	Status() syncer.Status
}

// Service handles integrity checks.
type Service struct {
	store  Store
	source source.Client
	client storage.Client
	bucket string
	status StatusProvider
	logger *zap.Logger
}

// NewService creates a new integrity service. client is nil when snapshot storage is disabled.
func NewService(store Store, src source.Client, client storage.Client, bucket string, status StatusProvider, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		source: src,
		client: client,
		bucket: bucket,
		status: status,
		logger: logger,
	}
}

// CheckSchema reports graph columns missing from the database.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.store)
}

// CheckStorage reports the state of the snapshot bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.bucket)
}

// FixStorage creates the snapshot bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	return checks.FixStorage(ctx, s.client, s.bucket, s.logger)
}

// CheckDrift compares the source car parks with the persisted devices.
func (s *Service) CheckDrift(ctx context.Context) (*checks.DriftReport, error) {
	contextID := s.status.Status().Target.ContextID
	if contextID == "" {
		return nil, ErrNotReady
	}
	return checks.CheckDrift(ctx, s.source, s.store, contextID)
}

var _ Store = (*graph.GormStore)(nil)
