// Package sync stores the registrations of a workshop's sheet.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/workshop-ledger/internal/ingest"
	"github.com/Veraticus/workshop-ledger/internal/model"
	"github.com/Veraticus/workshop-ledger/internal/service"
)

// Result summarizes one sync run.
type Result struct {
	WorkshopID string
	Source     string
	Duration   time.Duration
	Succeeded  int
	Failed     int
	Skipped    int // Blank data rows
}

// Progress describes how far a sync has got through its rows.
type Progress struct {
	WorkshopID string
	RowIndex   int
	Done       int
	Total      int
	Err        error
}

// Syncer fetches a sheet, parses it, and upserts each registration in row order.
type Syncer struct {
	fetcher service.SheetFetcher
	store   service.SyncStore
	parser  *ingest.Parser
	logger  *slog.Logger
	onRow   func(Progress)
	now     func() time.Time
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithProgress registers a callback invoked after every row upsert.
func WithProgress(fn func(Progress)) Option {
	return func(s *Syncer) {
		s.onRow = fn
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) {
		s.now = now
	}
}

// NewSyncer creates a Syncer. A nil parser uses the default column layout and payment patterns.
func NewSyncer(fetcher service.SheetFetcher, store service.SyncStore, parser *ingest.Parser, logger *slog.Logger, opts ...Option) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = ingest.NewParser(nil, nil, logger)
	}

	s := &Syncer{
		fetcher: fetcher,
		store:   store,
		parser:  parser,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync stores every registration in the sheet at sourceURL under workshopID.
//
// Fetch and decode errors are returned as they are, before any row is
// written. Row failures do not stop the run; they are collected into a
// *PartialSyncFailure returned alongside the Result. Rows reached after ctx
// is done count as failed.
func (s *Syncer) Sync(ctx context.Context, workshopID, sourceURL string) (*Result, error) {
	if workshopID == "" {
		return nil, fmt.Errorf("workshop ID cannot be empty")
	}

	start := s.now()
	logger := s.logger.With("workshop_id", workshopID)
	logger.Info("starting sheet sync", "source", sourceURL)

	table, err := s.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		logger.Error("failed to fetch sheet", "error", err)
		return nil, err
	}

	_, rows := s.parser.Parse(table)

	total := 0
	for range rows {
		total++
	}

	result := &Result{
		WorkshopID: workshopID,
		Source:     sourceURL,
		Skipped:    len(table.DataRows()) - total,
	}
	var rowErrors []RowError

	done := 0
	for reg := range rows {
		err := ctx.Err()
		if err == nil {
			_, err = s.store.UpsertRegistration(ctx, workshopID, reg.RowIndex, reg.RegistrationFields)
		}

		if err != nil {
			result.Failed++
			rowErrors = append(rowErrors, RowError{RowIndex: reg.RowIndex, Err: err})
			logger.Warn("failed to store registration", "row", reg.RowIndex, "error", err)
		} else {
			result.Succeeded++
		}

		done++
		if s.onRow != nil {
			s.onRow(Progress{WorkshopID: workshopID, RowIndex: reg.RowIndex, Done: done, Total: total, Err: err})
		}
	}

	result.Duration = s.now().Sub(start)
	logger.Info("sheet sync finished",
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"skipped", result.Skipped,
		"duration", result.Duration)

	if result.Failed > 0 {
		return result, &PartialSyncFailure{
			Succeeded: result.Succeeded,
			Failed:    result.Failed,
			Errors:    rowErrors,
		}
	}
	return result, nil
}

// SyncWorkshop syncs a stored workshop from its linked sheet and records the
// sync time once every row was stored.
func (s *Syncer) SyncWorkshop(ctx context.Context, workshopID string) (*Result, error) {
	workshop, err := s.store.GetWorkshop(ctx, workshopID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workshop: %w", err)
	}
	return s.syncWorkshop(ctx, workshop)
}

func (s *Syncer) syncWorkshop(ctx context.Context, workshop *model.Workshop) (*Result, error) {
	if !workshop.HasSheet() {
		return nil, fmt.Errorf("%s: %w", workshop.Title, ErrNoSheetURL)
	}

	result, err := s.Sync(ctx, workshop.ID, workshop.SheetURL)
	if err != nil {
		return result, err
	}

	if markErr := s.store.MarkWorkshopSynced(ctx, workshop.ID, s.now()); markErr != nil {
		return result, fmt.Errorf("failed to record sync time: %w", markErr)
	}
	return result, nil
}

// WorkshopResult is the outcome of one workshop in SyncAll.
type WorkshopResult struct {
	Err      error
	Result   *Result
	Workshop model.Workshop
}

// SyncAll syncs every workshop with a linked sheet, at most concurrency at a
// time. Each workshop's rows are still written in order. Failures are
// reported per workshop; the returned error is only for failing to list
// workshops or a canceled context.
func (s *Syncer) SyncAll(ctx context.Context, concurrency int) ([]WorkshopResult, error) {
	workshops, err := s.store.GetWorkshops(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workshops: %w", err)
	}

	var targets []model.Workshop
	for _, w := range workshops {
		if w.HasSheet() {
			targets = append(targets, w)
		}
	}

	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]WorkshopResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range targets {
		g.Go(func() error {
			workshop := targets[i]
			result, syncErr := s.syncWorkshop(gctx, &workshop)
			results[i] = WorkshopResult{Workshop: workshop, Result: result, Err: syncErr}
			return nil
		})
	}
	_ = g.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return results, ctxErr
	}
	return results, nil
}

// Failed returns the workshop results that did not complete cleanly.
func Failed(results []WorkshopResult) []WorkshopResult {
	var failed []WorkshopResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// IsPartial reports whether err is a partial row failure rather than a
// failure to read the sheet.
func IsPartial(err error) bool {
	var partial *PartialSyncFailure
	return errors.As(err, &partial)
}
