package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/workshop-ledger/internal/cli"
	"github.com/Veraticus/workshop-ledger/internal/common"
	"github.com/Veraticus/workshop-ledger/internal/config"
	regsync "github.com/Veraticus/workshop-ledger/internal/sync"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [workshop-id]",
		Short: "Pull registrations from a workshop's sheet",
		Long: `Fetch the registration sheet linked to a workshop and store every row.

Rows are matched by their position in the sheet, so syncing again updates
registrations in place instead of duplicating them. A sync that stops part
way can simply be run again.`,
		Example: `  ledger sync 3f2a...                  # sync one workshop from its linked sheet
  ledger sync 3f2a... --url <sheet-url> # one-off sync from another sheet
  ledger sync --all --concurrency 2     # sync every linked workshop`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSync,
	}

	cmd.Flags().Bool("all", false, "sync every workshop with a linked sheet")
	cmd.Flags().String("url", "", "sync from this sheet instead of the linked one")
	cmd.Flags().Int("retries", 0, "attempts per sync when the sheet service fails (default from sync.retries)")
	cmd.Flags().Int("concurrency", 0, "workshops synced at once with --all (default from sync.concurrency)")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	sourceURL, _ := cmd.Flags().GetString("url")
	retries, _ := cmd.Flags().GetInt("retries")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	switch {
	case all && len(args) > 0:
		return fmt.Errorf("pass either a workshop ID or --all, not both")
	case !all && len(args) == 0:
		return fmt.Errorf("a workshop ID is required unless --all is set")
	case all && sourceURL != "":
		return fmt.Errorf("--url cannot be combined with --all")
	}

	syncConfig, err := config.LoadSyncConfig()
	if err != nil {
		return err
	}
	if retries > 0 {
		syncConfig.Retry.MaxAttempts = retries
	}
	if concurrency > 0 {
		syncConfig.Concurrency = concurrency
	}

	hint := "ledger sync --all"
	if !all {
		hint = "ledger sync " + args[0]
	}
	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx := interrupts.HandleInterrupts(cmd.Context(), hint)

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var opts []regsync.Option
	progress := cli.NewSyncProgress(os.Stderr)
	if !noProgress {
		opts = append(opts, regsync.WithProgress(func(p regsync.Progress) {
			progress.Row(p.WorkshopID, p.Done, p.Total)
		}))
	}

	syncer, err := newSyncer(ctx, store, opts...)
	if err != nil {
		return err
	}

	if all {
		return syncAll(ctx, syncer, syncConfig)
	}

	workshop, err := store.GetWorkshop(ctx, args[0])
	if err != nil {
		return explainSyncError(err)
	}
	progress.Label(workshop.ID, workshop.Title)

	var result *regsync.Result
	err = common.WithRetry(ctx, func() error {
		var syncErr error
		if sourceURL != "" {
			result, syncErr = syncer.Sync(ctx, workshop.ID, sourceURL)
		} else {
			result, syncErr = syncer.SyncWorkshop(ctx, workshop.ID)
		}
		return syncErr
	}, syncConfig.Retry)

	if result != nil {
		fmt.Println(formatSyncResult(workshop.Title, result))
	}
	if err != nil {
		if interrupts.WasInterrupted() {
			return nil
		}
		return explainSyncError(err)
	}
	return nil
}

func syncAll(ctx context.Context, syncer *regsync.Syncer, syncConfig *config.SyncConfig) error {
	results, err := syncer.SyncAll(ctx, syncConfig.Concurrency)
	if err != nil && !errors.Is(err, ctx.Err()) {
		return fmt.Errorf("failed to sync workshops: %w", err)
	}
	if len(results) == 0 {
		fmt.Println(cli.InfoStyle.Render("No workshops have a linked sheet. Use 'ledger workshops set-sheet' first."))
		return nil
	}

	for _, r := range results {
		if r.Result != nil {
			fmt.Println(formatSyncResult(r.Workshop.Title, r.Result))
		}
		if r.Err != nil {
			fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", r.Workshop.Title, explainSyncError(r.Err))))
		}
	}

	if failed := regsync.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d workshops did not sync cleanly", len(failed), len(results))
	}
	return nil
}

func formatSyncResult(title string, result *regsync.Result) string {
	msg := fmt.Sprintf("%s: %d rows stored", title, result.Succeeded)
	if result.Skipped > 0 {
		msg += fmt.Sprintf(", %d blank rows skipped", result.Skipped)
	}
	msg += fmt.Sprintf(" in %s", result.Duration.Round(time.Millisecond))

	if result.Failed > 0 {
		return cli.FormatWarning(fmt.Sprintf("%s, %d failed", msg, result.Failed))
	}
	return cli.FormatSuccess(msg)
}
