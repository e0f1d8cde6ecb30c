package model

import "time"

// RegistrationFields holds the values a sheet row contributes to a registration.
// Nil pointers mean the cell was empty.
type RegistrationFields struct {
	FullName         *string
	Phone            *string
	Email            *string
	Notes            *string
	PaymentConfirmed *string // "paid", "unpaid", or the raw unclassified text
	AmountRs         float64
}

// ParsedRegistration is one normalized sheet row, ready to be stored.
type ParsedRegistration struct {
	RegistrationFields
	RowIndex int // 1-based sheet row, header included
}

// Registration is a stored registration for a workshop.
type Registration struct {
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ID         string
	WorkshopID string
	RegistrationFields
	RawRowIndex int
}
