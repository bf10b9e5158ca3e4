package cmd

import (
	"fmt"

	"parking-sync/core/config"
	"parking-sync/core/database"
	"parking-sync/core/graph"
	"parking-sync/core/logger"
	"parking-sync/core/reconcile"
	"parking-sync/core/source"

	"go.uber.org/zap"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *graph.GormStore
}

// setup loads the configuration, builds the logger and opens the graph store.
func setup() (*runtime, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := graph.NewStore(db)
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate graph schema: %w", err)
	}

	return &runtime{cfg: cfg, logger: l, store: store}, nil
}

// reconciler builds the source client and the reconciler on top of the store.
func (r *runtime) reconciler() (*reconcile.Reconciler, source.Client, error) {
	src, err := source.NewClient(r.cfg.Source, r.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create source client: %w", err)
	}
	return reconcile.New(r.store, src, r.logger), src, nil
}

// printRefreshReport logs a refresh report.
func printRefreshReport(l *zap.Logger, rep *reconcile.RefreshReport) {
	if rep == nil {
		return
	}
	l.Info("Refresh report",
		zap.Int("devices", rep.Devices),
		zap.Int("updated", rep.Updated),
		zap.Duration("took", rep.Duration),
	)

	if len(rep.SkippedDevices) > 0 {
		l.Warn("Devices without facility", zap.Strings("devices", rep.SkippedDevices))
	}
	if len(rep.UnmatchedGroups) > 0 {
		l.Warn("Level groups without source level", zap.Strings("groups", rep.UnmatchedGroups))
	}
	if len(rep.MissingEndpoints) > 0 {
		maxShow := 10
		if len(rep.MissingEndpoints) < maxShow {
			maxShow = len(rep.MissingEndpoints)
		}
		l.Warn("Endpoints absent from source",
			zap.Int("count", len(rep.MissingEndpoints)),
			zap.Strings("sample", rep.MissingEndpoints[:maxShow]),
		)
	}
	if len(rep.SkippedNodes) > 0 {
		l.Debug("Skipped foreign nodes", zap.Strings("ids", rep.SkippedNodes))
	}
}
