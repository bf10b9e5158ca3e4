package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"parking-sync/core/loader"
	"parking-sync/core/logger"
	"parking-sync/core/middleware/auth"
	"parking-sync/core/middleware/rayid"
	"parking-sync/core/snapshot"
	"parking-sync/core/storage"
	"parking-sync/core/syncer"

	"parking-sync/feature/integrity"
	"parking-sync/feature/parking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "parking-sync/docs/swagger"
)

// @title Parking Sync API
// @version 1.0
// @description Occupancy synchronization state and controls.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the synchronization service",
	Long: `Reconciles the device tree once, then polls the parking guidance system
and serves the HTTP API until interrupted.`,
	RunE: runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	logg := rt.logger
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	rec, src, err := rt.reconciler()
	if err != nil {
		return err
	}

	settings := syncer.NewSettings(rt.cfg.Sync)
	var opts []syncer.Option

	// Snapshot archive (Optional)
	var (
		objects   storage.Client
		snapshots parking.SnapshotReader
	)
	if rt.cfg.Storage.Enabled {
		client, err := storage.NewClient(rt.cfg.Storage)
		if err != nil {
			return err
		}
		objects = client
		archiver := snapshot.New(client, rt.cfg.Storage, logg)
		if err := archiver.EnsureBucket(cmd.Context()); err != nil {
			logg.Warn("Snapshot bucket unavailable", zap.Error(err))
		}
		opts = append(opts, syncer.WithRecorder(archiver))
		snapshots = archiver
	}

	ctrl := syncer.New(rec, settings, rt.cfg.Sync, logg, opts...)

	// 1. Initial reconciliation (fatal on failure)
	ctx := context.Background()
	if err := ctrl.Init(ctx); err != nil {
		return err
	}
	printRefreshReport(logg, ctrl.Status().LastReport)

	// 2. HTTP server
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every log line carries it
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey, Skip: []string{"/health"}}))

	mgr := loader.NewManager()
	mgr.Register(parking.NewFeature(ctrl, rt.store, settings, snapshots, logg))
	mgr.Register(integrity.NewFeature(rt.store, src, objects, rt.cfg.Storage.Bucket, ctrl, logg))

	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return err
	}
	logg.Info("Features loaded", zap.Strings("features", loaded))

	go func() {
		logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
		if err := app.Listen(rt.cfg.Server.Address()); err != nil {
			logg.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// 3. Polling loop
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ctrl.Run(ctx)
	}()

	// 4. Graceful Shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logg.Info("Shutting down...")

	ctrl.Stop()
	<-done
	return app.Shutdown()
}
