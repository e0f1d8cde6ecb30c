// Package model defines the core domain types shared across the ledger.
package model

import "time"

// WorkshopStatus describes where a workshop is in its lifecycle.
type WorkshopStatus string

const (
	// WorkshopUpcoming is a workshop that has not happened yet.
	WorkshopUpcoming WorkshopStatus = "upcoming"
	// WorkshopCompleted is a workshop that has already run.
	WorkshopCompleted WorkshopStatus = "completed"
	// WorkshopCancelled is a workshop that will not run.
	WorkshopCancelled WorkshopStatus = "cancelled"
)

// Workshop is a single event that people register for.
type Workshop struct {
	Date         time.Time
	CreatedAt    time.Time
	LastSyncedAt *time.Time
	ID           string
	Title        string
	SheetURL     string // Empty when no registration sheet is linked
	Status       WorkshopStatus
	TicketPrice  float64
}

// HasSheet reports whether the workshop is linked to a registration sheet.
func (w *Workshop) HasSheet() bool {
	return w.SheetURL != ""
}

// IsValid reports whether s is a known workshop status.
func (s WorkshopStatus) IsValid() bool {
	switch s {
	case WorkshopUpcoming, WorkshopCompleted, WorkshopCancelled:
		return true
	default:
		return false
	}
}
