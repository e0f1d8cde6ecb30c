package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/workshop-ledger/internal/common"
	"github.com/Veraticus/workshop-ledger/internal/model"
)

// CreateOtherCost adds a cost line to a workshop.
func (s *SQLiteStorage) CreateOtherCost(ctx context.Context, cost *model.OtherCost) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOtherCost(cost); err != nil {
		return err
	}

	cost.ID = newID()
	cost.Label = strings.TrimSpace(cost.Label)
	cost.CreatedAt = s.now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO other_costs (id, workshop_id, label, amount, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, cost.ID, cost.WorkshopID, cost.Label, cost.Amount, cost.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create cost: %w", err)
	}
	return nil
}

// GetOtherCosts returns a workshop's cost lines in the order they were added.
func (s *SQLiteStorage) GetOtherCosts(ctx context.Context, workshopID string) ([]model.OtherCost, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(workshopID, "workshopID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, workshop_id, label, amount, created_at
		FROM other_costs
		WHERE workshop_id = ?
		ORDER BY created_at, rowid
	`, workshopID)
	if err != nil {
		return nil, fmt.Errorf("failed to query costs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var costs []model.OtherCost
	for rows.Next() {
		var c model.OtherCost
		if err := rows.Scan(&c.ID, &c.WorkshopID, &c.Label, &c.Amount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cost: %w", err)
		}
		costs = append(costs, c)
	}

	return costs, rows.Err()
}

// UpdateOtherCost changes the label and amount of a cost line.
func (s *SQLiteStorage) UpdateOtherCost(ctx context.Context, id, label string, amount float64) (*model.OtherCost, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	if err := validateString(label, "label"); err != nil {
		return nil, err
	}
	if err := validateAmount(amount, "amount"); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE other_costs SET label = ?, amount = ? WHERE id = ?`,
		strings.TrimSpace(label), amount, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update cost: %w", err)
	}
	if err := requireAffected(result, "cost", id); err != nil {
		return nil, err
	}

	var c model.OtherCost
	err = s.db.QueryRowContext(ctx, `
		SELECT id, workshop_id, label, amount, created_at FROM other_costs WHERE id = ?
	`, id).Scan(&c.ID, &c.WorkshopID, &c.Label, &c.Amount, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cost %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cost: %w", err)
	}
	return &c, nil
}

// DeleteOtherCost removes a cost line.
func (s *SQLiteStorage) DeleteOtherCost(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM other_costs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cost: %w", err)
	}
	return requireAffected(result, "cost", id)
}
