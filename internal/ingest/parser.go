package ingest

import (
	"iter"
	"log/slog"

	"github.com/Veraticus/workshop-ledger/internal/classification"
	"github.com/Veraticus/workshop-ledger/internal/model"
)

// Parser turns raw tables into normalized registrations.
type Parser struct {
	classifier *classification.PaymentClassifier
	logger     *slog.Logger
	layout     ColumnLayout
}

// NewParser creates a parser. A nil classifier uses the default payment patterns.
func NewParser(layout ColumnLayout, classifier *classification.PaymentClassifier, logger *slog.Logger) *Parser {
	if layout == nil {
		layout = DefaultLayout()
	}
	if classifier == nil {
		classifier = classification.MustDefault()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		layout:     layout,
		classifier: classifier,
		logger:     logger,
	}
}

// Parse resolves the table's columns and returns its registrations.
func (p *Parser) Parse(table model.RawTable) (ColumnMap, iter.Seq[model.ParsedRegistration]) {
	cols := ResolveColumns(table.Header(), p.layout)

	p.logger.Debug("resolved sheet columns",
		"headers", NormalizeHeaders(table.Header()),
		"columns", cols,
		"data_rows", len(table.DataRows()))

	return cols, ParseRows(table, cols, p.classifier)
}

// ParseRows yields one registration per non-blank data row, in table order.
// The sequence re-reads the table on every iteration.
func ParseRows(table model.RawTable, cols ColumnMap, classifier *classification.PaymentClassifier) iter.Seq[model.ParsedRegistration] {
	return func(yield func(model.ParsedRegistration) bool) {
		for i := 1; i < len(table); i++ {
			row := table[i]
			if IsBlankRow(row) {
				continue
			}
			if !yield(parseRow(row, i+1, cols, classifier)) {
				return
			}
		}
	}
}

// IsBlankRow reports whether every cell in row is empty.
func IsBlankRow(row []any) bool {
	for _, cell := range row {
		if NormalizeText(cell) != nil {
			return false
		}
	}
	return true
}

func parseRow(row []any, rowIndex int, cols ColumnMap, classifier *classification.PaymentClassifier) model.ParsedRegistration {
	cell := func(f Field) any {
		idx := cols.Index(f)
		if idx < 0 || idx >= len(row) {
			return nil
		}
		return row[idx]
	}

	status := NormalizePaymentStatus(cell(FieldPaymentStatus), classifier)

	return model.ParsedRegistration{
		RowIndex: rowIndex,
		RegistrationFields: model.RegistrationFields{
			FullName:         NormalizeText(cell(FieldName)),
			Phone:            NormalizeText(cell(FieldPhone)),
			Email:            NormalizeText(cell(FieldEmail)),
			Notes:            NormalizeText(cell(FieldNotes)),
			PaymentConfirmed: status.Label,
			AmountRs:         CoerceAmount(cell(FieldAmount)),
		},
	}
}
