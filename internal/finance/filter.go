package finance

import (
	"fmt"
	"strings"

	"github.com/Veraticus/workshop-ledger/internal/model"
)

// StatusFilter selects registrations by payment status.
type StatusFilter string

// Unpaid matches anything not paid. Declined matches labels classified unpaid
// or a legacy "no"; Other matches the remaining unpaid ones.
const (
	StatusAll      StatusFilter = "all"
	StatusPaid     StatusFilter = "paid"
	StatusUnpaid   StatusFilter = "unpaid"
	StatusPending  StatusFilter = "pending"
	StatusDeclined StatusFilter = "declined"
	StatusOther    StatusFilter = "other"
)

// StatusFilters lists the accepted filter names.
var StatusFilters = []StatusFilter{StatusAll, StatusPaid, StatusUnpaid, StatusPending, StatusDeclined, StatusOther}

// ParseStatusFilter accepts a filter name case-insensitively; empty means all.
func ParseStatusFilter(value string) (StatusFilter, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return StatusAll, nil
	}
	for _, f := range StatusFilters {
		if string(f) == value {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid status filter %q", value)
}

// Matches reports whether a registration's payment label passes the filter.
func (f StatusFilter) Matches(label *string) bool {
	switch f {
	case StatusPaid:
		return IsPaid(label)
	case StatusUnpaid:
		return !IsPaid(label)
	case StatusPending:
		return labelIs(label, labelPending)
	case StatusDeclined:
		return isDeclined(label)
	case StatusOther:
		return !IsPaid(label) && !labelIs(label, labelPending) && !isDeclined(label)
	default:
		return true
	}
}

// Filter narrows a registration list by payment status and by a
// case-insensitive search over name and phone.
type Filter struct {
	Search string
	Status StatusFilter
}

// Apply returns the matching registrations in input order.
func (f Filter) Apply(registrations []model.Registration) []model.Registration {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var matched []model.Registration
	for _, r := range registrations {
		if !f.Status.Matches(r.PaymentConfirmed) {
			continue
		}
		if search != "" && !contains(r.FullName, search) && !contains(r.Phone, search) {
			continue
		}
		matched = append(matched, r)
	}
	return matched
}

func contains(field *string, lowered string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), lowered)
}
