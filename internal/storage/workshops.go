package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/workshop-ledger/internal/common"
	"github.com/Veraticus/workshop-ledger/internal/model"
)

const workshopColumns = `id, title, date, ticket_price, sheet_url, status, last_synced_at, created_at`

// CreateWorkshop inserts a new workshop, assigning its ID and creation time.
func (s *SQLiteStorage) CreateWorkshop(ctx context.Context, workshop *model.Workshop) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWorkshop(workshop); err != nil {
		return err
	}

	if workshop.ID == "" {
		workshop.ID = newID()
	}
	if workshop.Status == "" {
		workshop.Status = model.WorkshopUpcoming
	}
	workshop.CreatedAt = s.now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workshops (id, title, date, ticket_price, sheet_url, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, workshop.ID, workshop.Title, workshop.Date, workshop.TicketPrice,
		sql.NullString{String: workshop.SheetURL, Valid: workshop.SheetURL != ""},
		string(workshop.Status), workshop.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create workshop: %w", err)
	}

	return nil
}

// GetWorkshop retrieves a workshop by ID.
func (s *SQLiteStorage) GetWorkshop(ctx context.Context, id string) (*model.Workshop, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+workshopColumns+` FROM workshops WHERE id = ?`, id)
	workshop, err := scanWorkshop(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workshop %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workshop: %w", err)
	}
	return workshop, nil
}

// GetWorkshops returns all workshops, most recent date first.
func (s *SQLiteStorage) GetWorkshops(ctx context.Context) ([]model.Workshop, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+workshopColumns+` FROM workshops ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query workshops: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var workshops []model.Workshop
	for rows.Next() {
		workshop, scanErr := scanWorkshop(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan workshop: %w", scanErr)
		}
		workshops = append(workshops, *workshop)
	}

	return workshops, rows.Err()
}

// UpdateWorkshop saves the editable fields of an existing workshop.
func (s *SQLiteStorage) UpdateWorkshop(ctx context.Context, workshop *model.Workshop) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWorkshop(workshop); err != nil {
		return err
	}
	if err := validateString(workshop.ID, "id"); err != nil {
		return err
	}

	status := workshop.Status
	if status == "" {
		status = model.WorkshopUpcoming
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE workshops
		SET title = ?, date = ?, ticket_price = ?, sheet_url = ?, status = ?
		WHERE id = ?
	`, workshop.Title, workshop.Date, workshop.TicketPrice,
		sql.NullString{String: workshop.SheetURL, Valid: workshop.SheetURL != ""},
		string(status), workshop.ID)
	if err != nil {
		return fmt.Errorf("failed to update workshop: %w", err)
	}

	return requireAffected(result, "workshop", workshop.ID)
}

// MarkWorkshopSynced records when the workshop's sheet was last fully synced.
func (s *SQLiteStorage) MarkWorkshopSynced(ctx context.Context, id string, at time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE workshops SET last_synced_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark workshop synced: %w", err)
	}

	return requireAffected(result, "workshop", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkshop(row rowScanner) (*model.Workshop, error) {
	var (
		w          model.Workshop
		sheetURL   sql.NullString
		status     string
		lastSynced sql.NullTime
	)

	if err := row.Scan(&w.ID, &w.Title, &w.Date, &w.TicketPrice, &sheetURL, &status, &lastSynced, &w.CreatedAt); err != nil {
		return nil, err
	}

	w.SheetURL = sheetURL.String
	w.Status = model.WorkshopStatus(status)
	if lastSynced.Valid {
		t := lastSynced.Time
		w.LastSyncedAt = &t
	}
	return &w, nil
}

func requireAffected(result sql.Result, kind, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, common.ErrNotFound)
	}
	return nil
}
