package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/workshop-ledger/internal/model"
)

const registrationColumns = `id, workshop_id, full_name, phone, email, notes, payment_confirmed,
	amount_rs, raw_row_index, created_at, updated_at`

// UpsertRegistration inserts or overwrites the registration stored for a
// sheet row. Calling it twice with the same key leaves one registration
// holding the latest fields; its ID and creation time are preserved.
func (s *SQLiteStorage) UpsertRegistration(ctx context.Context, workshopID string, rowIndex int, fields model.RegistrationFields) (*model.Registration, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateRegistrationKey(workshopID, rowIndex); err != nil {
		return nil, err
	}
	if err := validateAmount(fields.AmountRs, "amount_rs"); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO registrations (
			id, workshop_id, full_name, phone, email, notes, payment_confirmed,
			amount_rs, raw_row_index, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(workshop_id, raw_row_index) DO UPDATE SET
			full_name = excluded.full_name,
			phone = excluded.phone,
			email = excluded.email,
			notes = excluded.notes,
			payment_confirmed = excluded.payment_confirmed,
			amount_rs = excluded.amount_rs,
			updated_at = excluded.updated_at
	`, newID(), workshopID,
		nullString(fields.FullName), nullString(fields.Phone), nullString(fields.Email),
		nullString(fields.Notes), nullString(fields.PaymentConfirmed),
		fields.AmountRs, rowIndex, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert registration: %w", err)
	}

	row := tx.QueryRowContext(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE workshop_id = ? AND raw_row_index = ?
	`, workshopID, rowIndex)
	registration, err := scanRegistration(row)
	if err != nil {
		return nil, fmt.Errorf("failed to read upserted registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	return registration, nil
}

// GetRegistrations returns a workshop's registrations in sheet row order.
func (s *SQLiteStorage) GetRegistrations(ctx context.Context, workshopID string) ([]model.Registration, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(workshopID, "workshopID"); err != nil {
		return nil, err
	}

	return s.getRegistrationsTx(ctx, s.db, workshopID)
}

func (s *SQLiteStorage) getRegistrationsTx(ctx context.Context, q queryable, workshopID string) ([]model.Registration, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE workshop_id = ?
		ORDER BY raw_row_index
	`, workshopID)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var registrations []model.Registration
	for rows.Next() {
		registration, scanErr := scanRegistration(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", scanErr)
		}
		registrations = append(registrations, *registration)
	}

	return registrations, rows.Err()
}

// DeleteRegistrationsByWorkshop removes every registration of a workshop and
// returns how many were deleted.
func (s *SQLiteStorage) DeleteRegistrationsByWorkshop(ctx context.Context, workshopID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(workshopID, "workshopID"); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM registrations WHERE workshop_id = ?`, workshopID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete registrations: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return int(deleted), nil
}

func scanRegistration(row rowScanner) (*model.Registration, error) {
	var (
		r                                         model.Registration
		fullName, phone, email, notes, paymentCol sql.NullString
		updatedAt                                 sql.NullTime
	)

	if err := row.Scan(&r.ID, &r.WorkshopID, &fullName, &phone, &email, &notes, &paymentCol,
		&r.AmountRs, &r.RawRowIndex, &r.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}

	r.FullName = stringPtr(fullName)
	r.Phone = stringPtr(phone)
	r.Email = stringPtr(email)
	r.Notes = stringPtr(notes)
	r.PaymentConfirmed = stringPtr(paymentCol)
	r.UpdatedAt = r.CreatedAt
	if updatedAt.Valid {
		r.UpdatedAt = updatedAt.Time
	}
	return &r, nil
}
