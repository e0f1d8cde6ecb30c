package ingest

import (
	"encoding/json"
	"testing"

	"github.com/Veraticus/workshop-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, table model.RawTable) []model.ParsedRegistration {
	t.Helper()
	p := NewParser(nil, nil, nil)
	_, seq := p.Parse(table)

	var out []model.ParsedRegistration
	for reg := range seq {
		out = append(out, reg)
	}
	return out
}

func TestParser_EndToEndTable(t *testing.T) {
	table := model.RawTable{
		{"Name", "Phone", "Payment Status", "Amount"},
		{"Asha", "9990001111", "Yes", "1500"},
		{"Ravi", "9990002222", "pending", "0"},
		{"", "", "", ""},
	}

	regs := collect(t, table)
	require.Len(t, regs, 2)

	asha := regs[0]
	assert.Equal(t, 2, asha.RowIndex)
	assert.Equal(t, "Asha", *asha.FullName)
	assert.Equal(t, "9990001111", *asha.Phone)
	assert.Equal(t, "paid", *asha.PaymentConfirmed)
	assert.Equal(t, 1500.0, asha.AmountRs)
	require.NotNil(t, asha.Email)
	assert.Equal(t, "1500", *asha.Email, "email falls back to the template's fourth column")
	assert.Nil(t, asha.Notes, "notes fallback lies past the end of a 4-column sheet")

	ravi := regs[1]
	assert.Equal(t, 3, ravi.RowIndex)
	assert.Equal(t, "Ravi", *ravi.FullName)
	assert.Equal(t, "unpaid", *ravi.PaymentConfirmed)
	assert.Equal(t, 0.0, ravi.AmountRs)
}

func TestParser_BlankRowsKeepPositions(t *testing.T) {
	table := model.RawTable{
		{"Name", "Phone", "Amount"},
		{"Asha", "111", "100"},
		{"", "", ""},
		{"Ravi", "222", "200"},
	}

	regs := collect(t, table)
	require.Len(t, regs, 2)
	assert.Equal(t, 2, regs[0].RowIndex)
	assert.Equal(t, 4, regs[1].RowIndex, "row indexes are not compacted past blank rows")
}

func TestParser_SkipsEmptyAndNilRows(t *testing.T) {
	table := model.RawTable{
		{"Name", "Amount"},
		nil,
		{},
		{nil, "   "},
		{"Meera", json.Number("900")},
	}

	regs := collect(t, table)
	require.Len(t, regs, 1)
	assert.Equal(t, 5, regs[0].RowIndex)
	assert.Equal(t, 900.0, regs[0].AmountRs)
}

func TestParser_ShortRowsYieldNils(t *testing.T) {
	table := model.RawTable{
		{"Name", "Phone", "Email", "Notes", "Payment Status", "Amount"},
		{"Asha"},
	}

	regs := collect(t, table)
	require.Len(t, regs, 1)
	reg := regs[0]
	assert.Equal(t, "Asha", *reg.FullName)
	assert.Nil(t, reg.Phone)
	assert.Nil(t, reg.Email)
	assert.Nil(t, reg.Notes)
	assert.Nil(t, reg.PaymentConfirmed)
	assert.Equal(t, 0.0, reg.AmountRs)
}

func TestParser_Restartable(t *testing.T) {
	table := model.RawTable{
		{"Name", "Amount"},
		{"Asha", "100"},
		{"Ravi", "200"},
	}

	_, seq := NewParser(nil, nil, nil).Parse(table)

	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	assert.Equal(t, 2, first)
	assert.Equal(t, first, second)
}

func TestParser_StopsEarly(t *testing.T) {
	table := model.RawTable{
		{"Name"},
		{"a"}, {"b"}, {"c"},
	}

	_, seq := NewParser(nil, nil, nil).Parse(table)
	var seen []string
	for reg := range seq {
		seen = append(seen, *reg.FullName)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestIsBlankRow(t *testing.T) {
	assert.True(t, IsBlankRow(nil))
	assert.True(t, IsBlankRow([]any{"", nil, "  "}))
	assert.False(t, IsBlankRow([]any{"", 0.0}))
}
