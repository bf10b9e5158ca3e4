package syncer

import (
	"sync/atomic"
	"time"
)

// Config holds configuration for the polling loop.
type Config struct {
	// ContextName is the name of the context holding the car park network.
	ContextName string `mapstructure:"context_name" default:"NetworkInnvia" validate:"required"`
	// NetworkName is the network created by `graph bootstrap`.
	NetworkName string `mapstructure:"network_name" default:"Innvia" validate:"required"`
	// PullIntervalMS is the target period of a refresh cycle in milliseconds.
	PullIntervalMS int `mapstructure:"pull_interval_ms" default:"60000" validate:"gte=0"`
	// CooldownSeconds is the extra wait after a failed cycle.
	CooldownSeconds int `mapstructure:"cooldown_seconds" default:"60" validate:"gte=0"`
}

// PullInterval returns the configured interval as a duration.
func (c Config) PullInterval() time.Duration {
	return time.Duration(c.PullIntervalMS) * time.Millisecond
}

// Cooldown returns the configured cooldown as a duration.
func (c Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// Settings is the live configuration consumed by the controller.
// PullInterval is read again before every wait.
type Settings interface {
	PullInterval() time.Duration
	SetLastSync(t time.Time)
}

// RuntimeSettings is a Settings implementation safe for concurrent use.
type RuntimeSettings struct {
	interval atomic.Int64
	lastSync atomic.Int64
}

// NewSettings creates settings seeded from the configuration.
func NewSettings(cfg Config) *RuntimeSettings {
	s := &RuntimeSettings{}
	s.interval.Store(int64(cfg.PullInterval()))
	return s
}

// PullInterval returns the current pull interval.
func (s *RuntimeSettings) PullInterval() time.Duration {
	return time.Duration(s.interval.Load())
}

// SetPullInterval changes the pull interval; the next wait picks it up.
func (s *RuntimeSettings) SetPullInterval(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.interval.Store(int64(d))
}

// SetLastSync records the time of the last successful refresh.
func (s *RuntimeSettings) SetLastSync(t time.Time) {
	s.lastSync.Store(t.UnixMilli())
}

// LastSync returns the time of the last successful refresh, zero if none.
func (s *RuntimeSettings) LastSync() time.Time {
	ms := s.lastSync.Load()
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
