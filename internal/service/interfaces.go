// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/workshop-ledger/internal/model"
)

// SheetFetcher retrieves raw tabular data for a registration sheet.
type SheetFetcher interface {
	// Fetch returns a table with a header row and at least one data row.
	Fetch(ctx context.Context, source string) (model.RawTable, error)
}

// RegistrationStore is the storage contract the sync pipeline relies on.
// UpsertRegistration must be idempotent for a given (workshopID, rowIndex).
type RegistrationStore interface {
	UpsertRegistration(ctx context.Context, workshopID string, rowIndex int, fields model.RegistrationFields) (*model.Registration, error)
}

// WorkshopStore provides access to workshops.
type WorkshopStore interface {
	CreateWorkshop(ctx context.Context, workshop *model.Workshop) error
	GetWorkshop(ctx context.Context, id string) (*model.Workshop, error)
	GetWorkshops(ctx context.Context) ([]model.Workshop, error)
	UpdateWorkshop(ctx context.Context, workshop *model.Workshop) error
	MarkWorkshopSynced(ctx context.Context, id string, at time.Time) error
}

// SyncStore is everything a sync run needs from storage.
type SyncStore interface {
	RegistrationStore
	GetWorkshop(ctx context.Context, id string) (*model.Workshop, error)
	GetWorkshops(ctx context.Context) ([]model.Workshop, error)
	MarkWorkshopSynced(ctx context.Context, id string, at time.Time) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	WorkshopStore
	RegistrationStore

	// Registration operations
	GetRegistrations(ctx context.Context, workshopID string) ([]model.Registration, error)
	DeleteRegistrationsByWorkshop(ctx context.Context, workshopID string) (int, error)

	// Cost operations
	CreateOtherCost(ctx context.Context, cost *model.OtherCost) error
	GetOtherCosts(ctx context.Context, workshopID string) ([]model.OtherCost, error)
	UpdateOtherCost(ctx context.Context, id, label string, amount float64) (*model.OtherCost, error)
	DeleteOtherCost(ctx context.Context, id string) error

	// Snapshot operations
	CreateFinancialSnapshot(ctx context.Context, snapshot *model.FinancialSnapshot) error
	GetFinancialSnapshots(ctx context.Context, workshopID string) ([]model.FinancialSnapshot, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
