package ingest

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/Veraticus/workshop-ledger/internal/classification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "empty", in: "", want: nil},
		{name: "whitespace", in: " \t\n", want: nil},
		{name: "trimmed", in: "  Asha  ", want: ptr("Asha")},
		{name: "float", in: 9990001111.0, want: ptr("9990001111")},
		{name: "json number", in: json.Number("1500.50"), want: ptr("1500.50")},
		{name: "int", in: 42, want: ptr("42")},
		{name: "bool", in: true, want: ptr("true")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestNormalizePaymentStatus(t *testing.T) {
	c := classification.MustDefault()

	empty := NormalizePaymentStatus(nil, c)
	assert.Nil(t, empty.Label)
	assert.False(t, empty.Paid)

	blank := NormalizePaymentStatus("   ", c)
	assert.Nil(t, blank.Label)
	assert.False(t, blank.Paid)

	paid := NormalizePaymentStatus(" Yes ", c)
	require.NotNil(t, paid.Label)
	assert.Equal(t, "paid", *paid.Label)
	assert.True(t, paid.Paid)

	numeric := NormalizePaymentStatus(json.Number("1"), c)
	require.NotNil(t, numeric.Label)
	assert.Equal(t, "paid", *numeric.Label)

	passthrough := NormalizePaymentStatus("  Will pay at venue ", c)
	require.NotNil(t, passthrough.Label)
	assert.Equal(t, "Will pay at venue", *passthrough.Label)
	assert.False(t, passthrough.Paid)
}

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{in: "₹ 2,500.00", want: 2500},
		{in: "Rs. 500", want: 500},
		{in: "abc", want: 0},
		{in: "", want: 0},
		{in: nil, want: 0},
		{in: "1500", want: 1500},
		{in: json.Number("1499.5"), want: 1499.5},
		{in: 750.0, want: 750},
		{in: "-200", want: -200},
		{in: "1,00,000", want: 100000},
		{in: "Rs.1200/-", want: 1200},
		{in: "-", want: 0},
		{in: ".", want: 0},
		{in: ".75", want: 0.75},
		{in: "12.5.3", want: 12.5},
		{in: json.Number("1e3"), want: 1000},
		{in: json.Number("2.5E+3"), want: 2500},
		{in: json.Number("-1.2e2"), want: -120},
		{in: json.Number("1e999"), want: 0},
		{in: 1500, want: 1500},
		{in: int64(2000), want: 2000},
		{in: math.NaN(), want: 0},
		{in: math.Inf(1), want: 0},
	}

	for _, tt := range tests {
		got := CoerceAmount(tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "input %v", tt.in)
	}
}

func TestCoerceAmount_Overflow(t *testing.T) {
	huge := make([]byte, 400)
	for i := range huge {
		huge[i] = '9'
	}
	got := CoerceAmount(string(huge))
	assert.Equal(t, 0.0, got)
	assert.False(t, math.IsInf(got, 0))
}

func ptr(s string) *string { return &s }
