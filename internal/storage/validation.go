// Package storage provides the SQLite persistence layer for workshops,
// registrations, and their finances.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/workshop-ledger/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidRowIndex  = errors.New("row index must be positive")
	ErrInvalidAmount    = errors.New("amount must be a finite number")
	ErrInvalidWorkshop  = errors.New("invalid workshop")
	ErrInvalidStatus    = errors.New("invalid workshop status")
	ErrInvalidOtherCost = errors.New("invalid cost")
	ErrInvalidSnapshot  = errors.New("invalid financial snapshot")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateAmount(amount float64, paramName string) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, paramName)
	}
	return nil
}

func validateWorkshop(workshop *model.Workshop) error {
	if workshop == nil {
		return fmt.Errorf("%w: workshop", ErrNilParameter)
	}
	if strings.TrimSpace(workshop.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidWorkshop)
	}
	if workshop.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidWorkshop)
	}
	if workshop.TicketPrice < 0 {
		return fmt.Errorf("%w: ticket price cannot be negative", ErrInvalidWorkshop)
	}
	if err := validateAmount(workshop.TicketPrice, "ticket_price"); err != nil {
		return err
	}
	if workshop.Status != "" && !workshop.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, workshop.Status)
	}
	return nil
}

func validateRegistrationKey(workshopID string, rowIndex int) error {
	if err := validateString(workshopID, "workshopID"); err != nil {
		return err
	}
	if rowIndex < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidRowIndex, rowIndex)
	}
	return nil
}

func validateOtherCost(cost *model.OtherCost) error {
	if cost == nil {
		return fmt.Errorf("%w: cost", ErrNilParameter)
	}
	if err := validateString(cost.WorkshopID, "workshopID"); err != nil {
		return err
	}
	if strings.TrimSpace(cost.Label) == "" {
		return fmt.Errorf("%w: label cannot be empty", ErrInvalidOtherCost)
	}
	return validateAmount(cost.Amount, "amount")
}

func validateSnapshot(snapshot *model.FinancialSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParameter)
	}
	if err := validateString(snapshot.WorkshopID, "workshopID"); err != nil {
		return err
	}
	for name, v := range map[string]float64{
		"revenue":           snapshot.Revenue,
		"meta_spend":        snapshot.MetaSpend,
		"other_costs_total": snapshot.OtherCostsTotal,
		"profit":            snapshot.Profit,
		"profit_margin":     snapshot.ProfitMargin,
	} {
		if err := validateAmount(v, name); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
	}
	return nil
}
