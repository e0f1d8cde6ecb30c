package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentClassifier(t *testing.T) {
	tests := []struct {
		name     string
		errMsg   string
		patterns []Pattern
		wantErr  bool
	}{
		{
			name:     "default patterns",
			patterns: DefaultPaymentPatterns(),
		},
		{
			name:     "empty patterns",
			patterns: []Pattern{},
		},
		{
			name: "invalid regex",
			patterns: []Pattern{
				{Name: "Bad Pattern", State: StatePaid, Regex: `[invalid regex`},
			},
			wantErr: true,
			errMsg:  "failed to compile pattern",
		},
		{
			name: "invalid state",
			patterns: []Pattern{
				{Name: "Maybe", State: "maybe", Regex: `maybe`},
			},
			wantErr: true,
			errMsg:  "invalid state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewPaymentClassifier(tt.patterns)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Len(t, c.patterns, len(tt.patterns))
		})
	}
}

func TestPaymentClassifier_PriorityOrder(t *testing.T) {
	c, err := NewPaymentClassifier([]Pattern{
		{Name: "Low", State: StatePaid, Regex: `x`, Priority: 1},
		{Name: "High", State: StateUnpaid, Regex: `x`, Priority: 10},
	})
	require.NoError(t, err)

	state, ok := c.Match("x")
	require.True(t, ok)
	assert.Equal(t, StateUnpaid, state)
}

func TestPaymentClassifier_Classify(t *testing.T) {
	c := MustDefault()

	tests := []struct {
		input     string
		wantLabel string
		wantPaid  bool
	}{
		{input: "Yes", wantLabel: "paid", wantPaid: true},
		{input: "PAID", wantLabel: "paid", wantPaid: true},
		{input: "y", wantLabel: "paid", wantPaid: true},
		{input: "1", wantLabel: "paid", wantPaid: true},
		{input: "true", wantLabel: "paid", wantPaid: true},
		{input: "paid on 5th", wantLabel: "paid", wantPaid: true},
		{input: "Payment Recieved", wantLabel: "paid", wantPaid: true},
		{input: "Completed via UPI", wantLabel: "paid", wantPaid: true},
		{input: "settled", wantLabel: "paid", wantPaid: true},
		{input: "No", wantLabel: "unpaid", wantPaid: false},
		{input: "Pending", wantLabel: "unpaid", wantPaid: false},
		{input: "not paid", wantLabel: "unpaid", wantPaid: false},
		{input: "notpaid", wantLabel: "unpaid", wantPaid: false},
		{input: "0", wantLabel: "unpaid", wantPaid: false},
		{input: "UNPAID", wantLabel: "unpaid", wantPaid: false},
		{input: "no answer!!", wantLabel: "unpaid", wantPaid: false},
		{input: "Postponed to June", wantLabel: "unpaid", wantPaid: false},
		{input: "balance due", wantLabel: "unpaid", wantPaid: false},
		{input: "False", wantLabel: "unpaid", wantPaid: false},
		{input: "Not yet", wantLabel: "Not yet", wantPaid: false},
		{input: "will transfer tomorrow", wantLabel: "will transfer tomorrow", wantPaid: false},
		{input: "today", wantLabel: "today", wantPaid: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := c.Classify(tt.input)
			require.NotNil(t, got.Label)
			assert.Equal(t, tt.wantLabel, *got.Label)
			assert.Equal(t, tt.wantPaid, got.Paid)
		})
	}
}

func TestPaymentClassifier_Deterministic(t *testing.T) {
	c := MustDefault()
	for _, input := range []string{"Yes", "maybe later", "no", "₹500 received"} {
		first := c.Classify(input)
		for i := 0; i < 5; i++ {
			again := c.Classify(input)
			assert.Equal(t, *first.Label, *again.Label)
			assert.Equal(t, first.Paid, again.Paid)
		}
	}
}
