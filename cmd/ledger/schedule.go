package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/workshop-ledger/internal/cli"
	"github.com/Veraticus/workshop-ledger/internal/config"
	regsync "github.com/Veraticus/workshop-ledger/internal/sync"
)

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Keep every linked workshop synced on a schedule",
		Long: `Run in the foreground and re-sync every workshop with a linked sheet on
the sync.schedule cron expression (default "@every 30m"). A run that is still
going when the next one is due is skipped. Stop with Ctrl-C.`,
		Example: `  ledger schedule
  ledger schedule --every "*/15 8-22 * * *" --now`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			every, _ := cmd.Flags().GetString("every")
			now, _ := cmd.Flags().GetBool("now")

			syncConfig, err := config.LoadSyncConfig()
			if err != nil {
				return err
			}
			if every != "" {
				syncConfig.Schedule = every
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			syncer, err := newSyncer(ctx, store)
			if err != nil {
				return err
			}

			scheduler := regsync.NewScheduler(syncer, syncConfig.Schedule, syncConfig.Concurrency, slog.Default())
			if now {
				scheduler.RunOnce(ctx)
			}
			if err := scheduler.Start(ctx); err != nil {
				return err
			}
			defer scheduler.Stop()

			fmt.Println(cli.FormatInfo(fmt.Sprintf("Syncing linked workshops on %q. Press Ctrl-C to stop.", syncConfig.Schedule)))
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().String("every", "", "cron expression overriding sync.schedule")
	cmd.Flags().Bool("now", false, "run a sync immediately before waiting for the schedule")

	return cmd
}
