package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/workshop-ledger/internal/model"
)

// FileFetcher reads a local .xlsx or .csv export of a registration sheet.
type FileFetcher struct {
	sheet string
}

// NewFileFetcher creates a file fetcher. For workbooks, sheet names the
// worksheet to read; empty reads the first one.
func NewFileFetcher(sheet string) *FileFetcher {
	return &FileFetcher{sheet: sheet}
}

// Fetch reads the file at path.
func (f *FileFetcher) Fetch(ctx context.Context, path string) (model.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = f.readWorkbook(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported sheet file type: %s", path)
	}
	if err != nil {
		return nil, err
	}

	table := make(model.RawTable, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		table[i] = cells
	}

	if len(table) < 2 {
		return nil, &EmptyOrInvalidSheetError{Rows: len(table)}
	}
	return table, nil
}

func (f *FileFetcher) readWorkbook(path string) ([][]string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = wb.Close() }()

	sheet := f.sheet
	if sheet == "" {
		sheet = wb.GetSheetName(0)
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer func() { _ = file.Close() }()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}
