package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"parking-sync/core/metrics"
	"parking-sync/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrNotInitialized is returned when polling is requested before Init succeeded.
var ErrNotInitialized = errors.New("controller not initialized")

// State is the lifecycle state of a controller.
type State string

const (
	StateIdle         State = "idle"
	StateInitializing State = "initializing"
	StatePolling      State = "polling"
	StateStopped      State = "stopped"
)

// Engine is the synchronization work driven by the controller.
type Engine interface {
	Discover(ctx context.Context, contextName string) (reconcile.Target, error)
	Sync(ctx context.Context, target reconcile.Target) (*reconcile.TreeReport, error)
	Refresh(ctx context.Context, target reconcile.Target) (*reconcile.RefreshReport, error)
}

// Recorder receives the report of every successful refresh.
type Recorder interface {
	Record(ctx context.Context, report *reconcile.RefreshReport) error
}

// Status is a snapshot of the controller for the HTTP surface.
type Status struct {
	State        State                    `json:"state"`
	Target       reconcile.Target         `json:"target"`
	PullInterval string                   `json:"pull_interval"`
	LastSync     *time.Time               `json:"last_sync,omitempty"`
	LastError    string                   `json:"last_error,omitempty"`
	Cycles       int                      `json:"cycles"`
	Failures     int                      `json:"failures"`
	Tree         *reconcile.TreeReport    `json:"tree,omitempty"`
	LastReport   *reconcile.RefreshReport `json:"last_report,omitempty"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder archives every successful refresh.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithClock replaces the time source and the sleep function.
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Controller) {
		c.now = now
		c.sleep = sleep
	}
}

// Controller owns the polling loop: one reconciliation at startup, then
// refresh cycles separated by an adaptive wait.
type Controller struct {
	engine   Engine
	settings Settings
	cfg      Config
	logger   *zap.Logger
	recorder Recorder

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	// refreshes share one in-flight cycle between the loop and manual triggers
	group singleflight.Group

	stopCtx context.Context
	stop    context.CancelFunc

	mu          sync.RWMutex
	state       State
	initialized bool
	target      reconcile.Target
	lastSync    time.Time
	lastErr     error
	cycles      int
	failures    int
	tree        *reconcile.TreeReport
	lastReport  *reconcile.RefreshReport
}

// New creates a new controller.
func New(engine Engine, settings Settings, cfg Config, logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	stopCtx, stop := context.WithCancel(context.Background())

	c := &Controller{
		engine:   engine,
		settings: settings,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sleep:    sleepContext,
		stopCtx:  stopCtx,
		stop:     stop,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init discovers the target context, creates missing devices and runs a first refresh.
// Any error is returned and leaves the controller idle.
func (c *Controller) Init(ctx context.Context) error {
	c.setState(StateInitializing)

	err := c.initialize(ctx)
	c.setState(StateIdle)
	return err
}

func (c *Controller) initialize(ctx context.Context) error {
	target, err := c.engine.Discover(ctx, c.cfg.ContextName)
	if err != nil {
		return err
	}
	c.logger.Info("Context discovered",
		zap.String("context", c.cfg.ContextName),
		zap.String("context_id", target.ContextID),
		zap.String("network_id", target.NetworkID),
	)

	c.mu.Lock()
	c.target = target
	c.mu.Unlock()

	tree, err := c.engine.Sync(ctx, target)
	if err != nil {
		return err
	}
	c.logger.Info("Tree reconciled",
		zap.Strings("created", tree.Created),
		zap.Int("existing", len(tree.Existing)),
	)

	c.mu.Lock()
	c.tree = tree
	c.mu.Unlock()

	if _, err := c.refresh(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()
	return nil
}

// Run polls until Stop is called or ctx is done. Cycle errors are logged and
// followed by the cooldown; they never end the loop.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.RLock()
	ready := c.initialized
	c.mu.RUnlock()
	if !ready {
		return ErrNotInitialized
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopWatch := context.AfterFunc(c.stopCtx, cancel)
	defer stopWatch()
	if c.stopCtx.Err() != nil {
		cancel()
	}

	c.setState(StatePolling)
	defer c.setState(StateStopped)

	c.logger.Info("Polling started", zap.Duration("interval", c.settings.PullInterval()))

	if err := c.sleep(loopCtx, c.settings.PullInterval()); err != nil {
		return nil
	}

	for loopCtx.Err() == nil {
		start := c.now()

		// In-flight work is never aborted by Stop
		if _, err := c.refresh(context.WithoutCancel(loopCtx)); err != nil {
			c.logger.Error("Refresh cycle failed",
				zap.Error(err),
				zap.Duration("cooldown", c.cfg.Cooldown()),
			)
			_ = c.sleep(loopCtx, c.cfg.Cooldown())
		}

		elapsed := c.now().Sub(start)
		if err := c.sleep(loopCtx, NextDelay(c.settings.PullInterval(), elapsed)); err != nil {
			break
		}
	}

	c.logger.Info("Polling stopped")
	return nil
}

// Stop asks the loop to exit at its next suspension point.
func (c *Controller) Stop() {
	c.stop()
}

// RefreshNow runs a refresh outside the loop schedule. When a cycle is
// already running the caller waits for it and receives its outcome.
func (c *Controller) RefreshNow(ctx context.Context) (*reconcile.RefreshReport, error) {
	c.mu.RLock()
	ready := c.initialized
	c.mu.RUnlock()
	if !ready {
		return nil, ErrNotInitialized
	}
	return c.refresh(context.WithoutCancel(ctx))
}

// Status returns a snapshot of the controller.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Status{
		State:        c.state,
		Target:       c.target,
		PullInterval: c.settings.PullInterval().String(),
		Cycles:       c.cycles,
		Failures:     c.failures,
		Tree:         c.tree,
		LastReport:   c.lastReport,
	}
	if !c.lastSync.IsZero() {
		t := c.lastSync
		s.LastSync = &t
	}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	return s
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) refresh(ctx context.Context) (*reconcile.RefreshReport, error) {
	v, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		return c.runRefresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*reconcile.RefreshReport), nil
}

func (c *Controller) runRefresh(ctx context.Context) (*reconcile.RefreshReport, error) {
	c.mu.RLock()
	target := c.target
	c.mu.RUnlock()

	start := c.now()
	report, err := c.engine.Refresh(ctx, target)
	metrics.SyncCycleDuration.Observe(c.now().Sub(start).Seconds())

	c.mu.Lock()
	c.cycles++
	if err != nil {
		c.failures++
		c.lastErr = err
		c.mu.Unlock()
		metrics.SyncCycles.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, err
	}
	done := c.now()
	c.lastSync = done
	c.lastErr = nil
	c.lastReport = report
	c.mu.Unlock()

	c.settings.SetLastSync(done)
	metrics.SyncCycles.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.LastSuccess.Set(float64(done.Unix()))

	c.logger.Info("Data updated",
		zap.Int("devices", report.Devices),
		zap.Int("updated", report.Updated),
		zap.Int("skipped_devices", len(report.SkippedDevices)),
		zap.Int("unmatched_groups", len(report.UnmatchedGroups)),
		zap.Duration("took", done.Sub(start)),
	)

	if c.recorder != nil {
		if err := c.recorder.Record(ctx, report); err != nil {
			c.logger.Warn("Failed to archive refresh snapshot", zap.Error(err))
		}
	}

	return report, nil
}

// NextDelay returns the wait before the next cycle: the interval minus the
// time the cycle took, never negative.
func NextDelay(interval, elapsed time.Duration) time.Duration {
	if d := interval - elapsed; d > 0 {
		return d
	}
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
