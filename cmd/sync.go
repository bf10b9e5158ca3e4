package cmd

import (
	"parking-sync/core/syncer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd runs one reconciliation pass and exits.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a single reconciliation and refresh pass",
	Long: `Discovers the configured context, creates the devices of new car parks and
refreshes every endpoint value once, then exits.`,
	RunE: runSync,
}

func init() {
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	rec, _, err := rt.reconciler()
	if err != nil {
		return err
	}

	ctrl := syncer.New(rec, syncer.NewSettings(rt.cfg.Sync), rt.cfg.Sync, rt.logger)
	if err := ctrl.Init(cmd.Context()); err != nil {
		return err
	}

	status := ctrl.Status()
	if status.Tree != nil {
		rt.logger.Info("Tree report",
			zap.Strings("created", status.Tree.Created),
			zap.Strings("existing", status.Tree.Existing),
		)
	}
	printRefreshReport(rt.logger, status.LastReport)
	return nil
}
