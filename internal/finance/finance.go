// Package finance computes revenue and margin for a workshop from its
// stored registrations and costs.
package finance

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/workshop-ledger/internal/classification"
	"github.com/Veraticus/workshop-ledger/internal/model"
)

// Health buckets a profit margin.
type Health string

const (
	HealthGreen  Health = "green"
	HealthYellow Health = "yellow"
	HealthRed    Health = "red"
)

const (
	healthyMargin = 50.0
	okayMargin    = 20.0
)

// Summary is the money side of a workshop.
type Summary struct {
	Revenue         float64
	MetaSpend       float64
	OtherCostsTotal float64
	TotalCosts      float64
	Profit          float64
	ProfitMargin    float64 // Percent of revenue; 0 without revenue
	PaidPercent     float64 // Share of registrants who paid, rounded to a whole percent
	AvgPayment      float64 // Revenue per paid registrant, rounded to the rupee
	PaidCount       int
	UnpaidCount     int
	PendingCount    int
}

// IsPaid reports whether a stored payment label counts as paid. Registrations
// synced before classification stored the raw "yes".
func IsPaid(label *string) bool {
	if label == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(*label)) {
	case string(classification.StatePaid), "yes":
		return true
	default:
		return false
	}
}

const (
	labelPending = "pending"
	labelNo      = "no"
)

func labelIs(label *string, want string) bool {
	return label != nil && strings.EqualFold(strings.TrimSpace(*label), want)
}

// isDeclined reports whether a label says outright that no payment was made:
// the classifier's "unpaid" or a legacy "no".
func isDeclined(label *string) bool {
	return labelIs(label, string(classification.StateUnpaid)) || labelIs(label, labelNo)
}

// Compute totals paid revenue against ad spend and other costs.
func Compute(registrations []model.Registration, metaSpend float64, costs []model.OtherCost) Summary {
	s := Summary{MetaSpend: finite(metaSpend)}

	for _, r := range registrations {
		if IsPaid(r.PaymentConfirmed) {
			s.PaidCount++
			s.Revenue += finite(r.AmountRs)
		} else {
			s.UnpaidCount++
		}
		if labelIs(r.PaymentConfirmed, labelPending) {
			s.PendingCount++
		}
	}
	if total := len(registrations); total > 0 {
		s.PaidPercent = math.Round(float64(s.PaidCount) / float64(total) * 100)
	}
	if s.PaidCount > 0 {
		s.AvgPayment = math.Round(s.Revenue / float64(s.PaidCount))
	}
	for _, c := range costs {
		s.OtherCostsTotal += finite(c.Amount)
	}

	s.TotalCosts = s.MetaSpend + s.OtherCostsTotal
	s.Profit = s.Revenue - s.TotalCosts
	if s.Revenue > 0 {
		s.ProfitMargin = s.Profit / s.Revenue * 100
	}
	return s
}

// FollowUps groups the registrations that still owe payment.
type FollowUps struct {
	Registrations []model.Registration // Unpaid registrations in input order
	Pending       int                  // Labelled "pending"
	Declined      int                  // Classified unpaid, or a legacy "no"
	Other         int                  // Unrecognized text or no status at all
}

// FollowUpsFor collects the unpaid registrations and counts them by status.
// Synced rows carry "unpaid" for pending payments too, so Pending only counts
// labels stored verbatim.
func FollowUpsFor(registrations []model.Registration) FollowUps {
	var f FollowUps
	for _, r := range registrations {
		if IsPaid(r.PaymentConfirmed) {
			continue
		}
		f.Registrations = append(f.Registrations, r)
		switch {
		case labelIs(r.PaymentConfirmed, labelPending):
			f.Pending++
		case isDeclined(r.PaymentConfirmed):
			f.Declined++
		default:
			f.Other++
		}
	}
	return f
}

// Snapshot converts a summary into a snapshot for workshopID.
func (s Summary) Snapshot(workshopID string) *model.FinancialSnapshot {
	return &model.FinancialSnapshot{
		WorkshopID:      workshopID,
		Revenue:         s.Revenue,
		MetaSpend:       s.MetaSpend,
		OtherCostsTotal: s.OtherCostsTotal,
		Profit:          s.Profit,
		ProfitMargin:    s.ProfitMargin,
	}
}

// Health buckets the summary's margin.
func (s Summary) Health() Health {
	return HealthFor(s.ProfitMargin)
}

// HealthFor buckets a profit margin: 50% and up is green, 20% and up yellow.
func HealthFor(margin float64) Health {
	switch {
	case margin >= healthyMargin:
		return HealthGreen
	case margin >= okayMargin:
		return HealthYellow
	default:
		return HealthRed
	}
}

// LatestMetaSpend returns the ad spend of the newest snapshot, or 0.
// Snapshots are expected newest first.
func LatestMetaSpend(snapshots []model.FinancialSnapshot) float64 {
	if len(snapshots) == 0 {
		return 0
	}
	return snapshots[0].MetaSpend
}

// Overview is one line of the all-workshops view.
type Overview struct {
	Date         time.Time
	WorkshopID   string
	Title        string
	ProfitMargin float64
	Registered   int
	Health       Health
}

// NewOverview describes a workshop from its registration count and latest snapshot.
func NewOverview(w model.Workshop, registered int, snapshots []model.FinancialSnapshot) Overview {
	var margin float64
	if len(snapshots) > 0 {
		margin = snapshots[0].ProfitMargin
	}
	return Overview{
		WorkshopID:   w.ID,
		Title:        w.Title,
		Date:         w.Date,
		Registered:   registered,
		ProfitMargin: margin,
		Health:       HealthFor(margin),
	}
}

// FormatRupees renders an amount with Indian digit grouping, rounded to the
// rupee: 123456 becomes "Rs 1,23,456".
func FormatRupees(amount float64) string {
	amount = math.Round(finite(amount))
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatFloat(amount, 'f', 0, 64)
	if len(digits) <= 3 {
		return sign + "Rs " + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	return sign + "Rs " + strings.Join(groups, ",") + "," + tail
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
