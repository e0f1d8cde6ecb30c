package model

import "time"

// OtherCost is a labelled expense line attached to a workshop.
type OtherCost struct {
	CreatedAt  time.Time
	ID         string
	WorkshopID string
	Label      string
	Amount     float64
}

// FinancialSnapshot records a workshop's margin at a point in time.
type FinancialSnapshot struct {
	CreatedAt       time.Time
	ID              string
	WorkshopID      string
	Revenue         float64
	MetaSpend       float64
	OtherCostsTotal float64
	Profit          float64
	ProfitMargin    float64 // Percentage of revenue
}
