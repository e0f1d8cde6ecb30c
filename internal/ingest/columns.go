// Package ingest turns raw registration sheets into normalized registrations.
//
// Sheets are hand-edited, so headers drift: columns get renamed, reordered or
// suffixed with colons. Columns are matched by normalized header name first and
// by the known template position second.
package ingest

import (
	"log/slog"
	"regexp"
	"strings"
)

// Field is a semantic column of a registration sheet.
type Field string

const (
	FieldName          Field = "name"
	FieldPhone         Field = "phone"
	FieldEmail         Field = "email"
	FieldNotes         Field = "notes"
	FieldPaymentStatus Field = "paymentStatus"
	FieldAmount        Field = "amount"
)

// Fields lists every field in resolution order.
var Fields = []Field{FieldName, FieldPhone, FieldEmail, FieldNotes, FieldPaymentStatus, FieldAmount}

const (
	// Unresolved marks a field with no usable column.
	Unresolved = -1
	// FallbackLastColumn resolves a field to the header row's last column.
	FallbackLastColumn = -2
)

// FieldRule describes how to locate one field.
type FieldRule struct {
	Variants []string // Acceptable header names, highest priority first
	Fallback int      // Column index used when no variant matches
}

// ColumnLayout maps each field to its lookup rule.
type ColumnLayout map[Field]FieldRule

// DefaultLayout returns the layout of the registration form sheet organizers use.
// Fallback positions are that template's columns: C name, D email, E phone,
// J notes, K payment received, and the amount column appended last.
func DefaultLayout() ColumnLayout {
	return ColumnLayout{
		FieldName: {
			Variants: []string{"name", "name:", "your name", "participant name", "full name"},
			Fallback: 2,
		},
		FieldPhone: {
			Variants: []string{"phone number", "phone", "mobile", "contact", "whatsapp"},
			Fallback: 4,
		},
		FieldEmail: {
			Variants: []string{"email", "email:", "email address", "email id"},
			Fallback: 3,
		},
		FieldNotes: {
			Variants: []string{"notes"},
			Fallback: 9,
		},
		FieldPaymentStatus: {
			Variants: []string{
				"payment recieved?",
				"payment received?",
				"payment recieved",
				"payment received",
				"payment status",
				"paid",
			},
			Fallback: 10,
		},
		FieldAmount: {
			Variants: []string{
				"payment recieved in numbers",
				"payment received in numbers",
				"amount in rs",
				"amount",
				"payment amount",
				"paid amount",
				"amount paid",
				"total",
				"total amount",
			},
			Fallback: FallbackLastColumn,
		},
	}
}

// ColumnMap records the column index resolved for each field. It is built once
// per table and never modified.
type ColumnMap struct {
	indexes map[Field]int
}

// Index returns the column for f, or Unresolved.
func (m ColumnMap) Index(f Field) int {
	idx, ok := m.indexes[f]
	if !ok {
		return Unresolved
	}
	return idx
}

// LogValue implements slog.LogValuer.
func (m ColumnMap) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(Fields))
	for _, f := range Fields {
		attrs = append(attrs, slog.Int(string(f), m.Index(f)))
	}
	return slog.GroupValue(attrs...)
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeHeader lowercases a header cell and collapses every run of
// non-alphanumeric characters into a single space.
func NormalizeHeader(cell any) string {
	if cell == nil {
		return ""
	}
	lower := strings.ToLower(formatCell(cell))
	return strings.TrimSpace(nonAlphanumeric.ReplaceAllString(lower, " "))
}

// NormalizeHeaders normalizes a whole header row.
func NormalizeHeaders(header []any) []string {
	out := make([]string, len(header))
	for i, cell := range header {
		out[i] = NormalizeHeader(cell)
	}
	return out
}

// ResolveColumns maps the header row onto fields using layout.
func ResolveColumns(header []any, layout ColumnLayout) ColumnMap {
	headers := NormalizeHeaders(header)
	indexes := make(map[Field]int, len(Fields))

	for _, field := range Fields {
		rule, ok := layout[field]
		if !ok {
			indexes[field] = Unresolved
			continue
		}
		indexes[field] = resolveField(headers, rule)
	}

	return ColumnMap{indexes: indexes}
}

func resolveField(headers []string, rule FieldRule) int {
	for _, variant := range rule.Variants {
		target := NormalizeHeader(variant)
		if target == "" {
			continue
		}
		for i, h := range headers {
			if h == target {
				return i
			}
		}
	}

	switch {
	case rule.Fallback == FallbackLastColumn:
		if len(headers) == 0 {
			return Unresolved
		}
		return len(headers) - 1
	case rule.Fallback >= 0 && rule.Fallback < len(headers):
		return rule.Fallback
	default:
		return Unresolved
	}
}
