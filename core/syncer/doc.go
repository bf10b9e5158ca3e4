// Package syncer drives the synchronization engine.
//
// A Controller moves through Idle → Initializing → Polling → Stopped:
//
//	ctrl := syncer.New(reconciler, settings, cfg.Sync, logger)
//	if err := ctrl.Init(ctx); err != nil { ... } // fatal: context missing, first pass failed
//	go ctrl.Run(ctx)
//	...
//	ctrl.Stop()
//
// Run waits one interval, then loops: refresh, on failure wait the cooldown,
// then wait max(0, interval - elapsed). The interval is read from Settings
// before every wait so it can be changed while running. Stop cancels the waits
// only; a refresh that already started always completes.
package syncer
