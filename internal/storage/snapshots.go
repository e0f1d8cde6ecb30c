package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/workshop-ledger/internal/model"
)

// CreateFinancialSnapshot records a workshop's computed finances.
func (s *SQLiteStorage) CreateFinancialSnapshot(ctx context.Context, snapshot *model.FinancialSnapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSnapshot(snapshot); err != nil {
		return err
	}

	snapshot.ID = newID()
	snapshot.CreatedAt = s.now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO financial_snapshots (
			id, workshop_id, revenue, meta_spend, other_costs_total, profit, profit_margin, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, snapshot.ID, snapshot.WorkshopID, snapshot.Revenue, snapshot.MetaSpend,
		snapshot.OtherCostsTotal, snapshot.Profit, snapshot.ProfitMargin, snapshot.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create financial snapshot: %w", err)
	}
	return nil
}

// GetFinancialSnapshots returns a workshop's snapshots, newest first.
func (s *SQLiteStorage) GetFinancialSnapshots(ctx context.Context, workshopID string) ([]model.FinancialSnapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(workshopID, "workshopID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, workshop_id, revenue, meta_spend, other_costs_total, profit, profit_margin, created_at
		FROM financial_snapshots
		WHERE workshop_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, workshopID)
	if err != nil {
		return nil, fmt.Errorf("failed to query financial snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []model.FinancialSnapshot
	for rows.Next() {
		var fs model.FinancialSnapshot
		if err := rows.Scan(&fs.ID, &fs.WorkshopID, &fs.Revenue, &fs.MetaSpend,
			&fs.OtherCostsTotal, &fs.Profit, &fs.ProfitMargin, &fs.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan financial snapshot: %w", err)
		}
		snapshots = append(snapshots, fs)
	}

	return snapshots, rows.Err()
}
