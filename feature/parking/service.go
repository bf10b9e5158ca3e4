package parking

import (
	"context"
	"errors"
	"time"

	"parking-sync/core/graph"
	"parking-sync/core/reconcile"
	"parking-sync/core/snapshot"
	"parking-sync/core/syncer"

	"go.uber.org/zap"
)

var (
	// ErrNotReady is returned before the controller discovered its context.
	ErrNotReady = errors.New("synchronization not initialized")
	// ErrSnapshotsDisabled is returned when snapshot storage is off.
	ErrSnapshotsDisabled = errors.New("snapshot storage disabled")
)

// Controller is the part of the sync controller exposed over HTTP.
type Controller interface {
	Status() syncer.Status
	RefreshNow(ctx context.Context) (*reconcile.RefreshReport, error)
}

// DeviceLister reads the persisted device subtrees.
type DeviceLister interface {
	Devices(ctx context.Context, contextID string) ([]graph.DeviceView, error)
}

// IntervalSettings exposes the live pull interval.
type IntervalSettings interface {
	PullInterval() time.Duration
	SetPullInterval(d time.Duration)
}

// SnapshotReader reads archived snapshots.
type SnapshotReader interface {
	Latest(ctx context.Context) (*snapshot.Document, error)
}

// Service exposes the synchronization state.
type Service struct {
	controller Controller
	devices    DeviceLister
	settings   IntervalSettings
	snapshots  SnapshotReader
	logger     *zap.Logger
}

// NewService creates a new parking service. snapshots may be nil.
func NewService(ctrl Controller, devices DeviceLister, settings IntervalSettings, snapshots SnapshotReader, logger *zap.Logger) *Service {
	return &Service{
		controller: ctrl,
		devices:    devices,
		settings:   settings,
		snapshots:  snapshots,
		logger:     logger,
	}
}

// Status returns the controller status.
func (s *Service) Status() syncer.Status {
	return s.controller.Status()
}

// Devices returns the device subtrees of the synchronized context.
func (s *Service) Devices(ctx context.Context) ([]graph.DeviceView, error) {
	target := s.controller.Status().Target
	if target.ContextID == "" {
		return nil, ErrNotReady
	}
	return s.devices.Devices(ctx, target.ContextID)
}

// Refresh runs a refresh cycle now.
func (s *Service) Refresh(ctx context.Context) (*reconcile.RefreshReport, error) {
	report, err := s.controller.RefreshNow(ctx)
	if errors.Is(err, syncer.ErrNotInitialized) {
		return nil, ErrNotReady
	}
	return report, err
}

// SetInterval changes the pull interval and returns the previous one.
func (s *Service) SetInterval(d time.Duration) time.Duration {
	prev := s.settings.PullInterval()
	s.settings.SetPullInterval(d)
	s.logger.Info("Pull interval changed", zap.Duration("from", prev), zap.Duration("to", d))
	return prev
}

// Snapshot returns the last archived snapshot.
func (s *Service) Snapshot(ctx context.Context) (*snapshot.Document, error) {
	if s.snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	return s.snapshots.Latest(ctx)
}
