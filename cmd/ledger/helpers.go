package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"github.com/Veraticus/workshop-ledger/internal/cli"
	"github.com/Veraticus/workshop-ledger/internal/common"
	"github.com/Veraticus/workshop-ledger/internal/config"
	"github.com/Veraticus/workshop-ledger/internal/ingest"
	"github.com/Veraticus/workshop-ledger/internal/service"
	"github.com/Veraticus/workshop-ledger/internal/sheets"
	"github.com/Veraticus/workshop-ledger/internal/storage"
	regsync "github.com/Veraticus/workshop-ledger/internal/sync"
)

const dateLayout = "2006-01-02"

// databasePath returns the configured database location with ~ and $VARs expanded.
func databasePath() string {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		return config.DefaultDatabasePath()
	}
	return config.ExpandPath(dbPath)
}

// initStorage opens the database and brings its schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(databasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newParser builds a row parser from the columns.* configuration.
func newParser() (*ingest.Parser, error) {
	layout, err := config.LoadColumnLayout()
	if err != nil {
		return nil, fmt.Errorf("invalid column configuration: %w", err)
	}
	return ingest.NewParser(layout, nil, slog.Default()), nil
}

// newFetcher builds the sheet fetcher selected by sheets.source.
func newFetcher(ctx context.Context) (service.SheetFetcher, error) {
	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, common.NewUserError("Google Sheets is not configured", err)
	}
	return sheets.NewFetcher(ctx, *sheetsConfig, slog.Default())
}

// newSyncer wires a fetcher, the configured parser and store into a Syncer.
func newSyncer(ctx context.Context, store service.SyncStore, opts ...regsync.Option) (*regsync.Syncer, error) {
	fetcher, err := newFetcher(ctx)
	if err != nil {
		return nil, err
	}
	parser, err := newParser()
	if err != nil {
		return nil, err
	}
	return regsync.NewSyncer(fetcher, store, parser, slog.Default(), opts...), nil
}

// explainSyncError turns sync failures into messages an organizer can act on.
// Errors it does not recognize are returned unchanged.
func explainSyncError(err error) error {
	if err == nil {
		return nil
	}

	var (
		fetchErr     *sheets.FetchError
		malformedErr *sheets.MalformedResponseError
		emptyErr     *sheets.EmptyOrInvalidSheetError
		partialErr   *regsync.PartialSyncFailure
		authErr      *oauth2.RetrieveError
	)

	switch {
	case errors.As(err, &partialErr):
		return common.NewUserError(
			fmt.Sprintf("%d of %d rows could not be saved; run the sync again to retry them",
				partialErr.Failed, partialErr.Failed+partialErr.Succeeded), err)
	case errors.As(err, &authErr):
		return common.NewUserError("Google rejected the saved credentials; run 'ledger auth sheets' again", err)
	case errors.As(err, &fetchErr):
		if fetchErr.StatusCode >= 400 && fetchErr.StatusCode < 500 {
			return common.NewUserError("the sheet could not be opened; check the URL and that it is shared", err)
		}
		return common.NewUserError("could not reach the sheet service; try again shortly", err)
	case errors.As(err, &malformedErr):
		return common.NewUserError("the sheet service did not return sheet data; check the script URL", err)
	case errors.As(err, &emptyErr):
		return common.NewUserError("the sheet has no registrations yet", err)
	case errors.Is(err, regsync.ErrNoSheetURL):
		return common.NewUserError("link a sheet first with 'ledger workshops set-sheet'", err)
	case errors.Is(err, common.ErrNotFound):
		return common.NewUserError("no such workshop; see 'ledger workshops list'", err)
	default:
		return err
	}
}

// formatCommandError renders the final error of a command.
func formatCommandError(err error) string {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		msg := cli.FormatError(userErr.UserMessage)
		if userErr.Err != nil {
			msg += "\n" + cli.SubtleStyle.Render(userErr.Err.Error())
		}
		return msg
	}
	return cli.FormatError(err.Error())
}

func parseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return date, nil
}

// parseRupees accepts plain or grouped amounts such as "1,500" and "Rs 2000".
func parseRupees(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(strings.TrimPrefix(cleaned, "Rs"), "₹")
	cleaned = strings.ReplaceAll(strings.TrimSpace(cleaned), ",", "")

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if amount < 0 {
		return 0, fmt.Errorf("amount cannot be negative: %s", value)
	}
	return amount, nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}
