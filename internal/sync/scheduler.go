package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler re-syncs every linked workshop on a cron schedule.
type Scheduler struct {
	cron        *cron.Cron
	syncer      *Syncer
	logger      *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	schedule    string
	concurrency int
	entry       cron.EntryID
	mu          sync.Mutex
	running     bool
}

// NewScheduler creates a scheduler. schedule accepts standard five-field
// cron expressions and descriptors such as "@every 30m".
func NewScheduler(syncer *Syncer, schedule string, concurrency int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:        cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		syncer:      syncer,
		logger:      logger,
		schedule:    schedule,
		concurrency: concurrency,
	}
}

// Start registers the sync job and starts the cron loop. Jobs run with ctx
// and stop when it is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	entry, err := s.cron.AddFunc(s.schedule, s.runScheduled)
	if err != nil {
		s.cancel()
		return fmt.Errorf("invalid sync schedule %q: %w", s.schedule, err)
	}
	s.entry = entry

	s.cron.Start()
	s.running = true

	s.logger.Info("Sync scheduler started", "schedule", s.schedule, "concurrency", s.concurrency)
	return nil
}

// Stop waits for a running job to finish and stops the scheduler. The sync
// job is unregistered so a later Start schedules it exactly once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.logger.Info("Stopping sync scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entry)
	s.running = false
	s.logger.Info("Sync scheduler stopped")
}

func (s *Scheduler) runScheduled() {
	s.RunOnce(s.ctx)
}

// RunOnce syncs all linked workshops and logs the outcome of each.
func (s *Scheduler) RunOnce(ctx context.Context) []WorkshopResult {
	s.logger.Info("Starting scheduled sync")

	results, err := s.syncer.SyncAll(ctx, s.concurrency)
	if err != nil {
		s.logger.Error("Scheduled sync failed", "error", err)
	}

	for _, r := range results {
		if r.Err != nil {
			s.logger.Error("Workshop sync failed", "workshop_id", r.Workshop.ID, "title", r.Workshop.Title, "error", r.Err)
		}
	}
	s.logger.Info("Scheduled sync completed", "workshops", len(results), "failed", len(Failed(results)))

	return results
}
