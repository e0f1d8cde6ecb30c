package model

// RawTable is tabular data as returned by a sheet source. Row 0 is the header row;
// cells are opaque strings, numbers or nil.
type RawTable [][]any

// Header returns the header row, or nil for an empty table.
func (t RawTable) Header() []any {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// DataRows returns every row after the header.
func (t RawTable) DataRows() [][]any {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}
