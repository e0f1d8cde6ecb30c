package sheets

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/Veraticus/workshop-ledger/internal/model"
)

// Kind classifies a decoded response body.
type Kind int

const (
	// KindValid is an array of rows with a header and at least one data row.
	KindValid Kind = iota
	// KindEmptyOrInvalid is valid JSON that is not a usable table.
	KindEmptyOrInvalid
	// KindMalformed is a body that is not JSON at all.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindValid:
		return "valid"
	case KindEmptyOrInvalid:
		return "empty_or_invalid"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Decoded is the validated shape of a sheet response. Only KindValid carries a table.
type Decoded struct {
	Table model.RawTable
	Body  []byte
	Kind  Kind
}

// Err converts a non-valid result into the matching error, or nil.
func (d Decoded) Err() error {
	switch d.Kind {
	case KindValid:
		return nil
	case KindEmptyOrInvalid:
		return &EmptyOrInvalidSheetError{Rows: len(d.Table)}
	default:
		return newMalformedError(d.Body)
	}
}

// Decode validates a JSON array-of-arrays body. Cells keep their JSON types,
// with numbers as json.Number. A data row that is not an array reads as an
// empty row.
func Decode(body []byte) Decoded {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return Decoded{Kind: KindMalformed, Body: body}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Decoded{Kind: KindMalformed, Body: body}
	}

	rows, ok := parsed.([]any)
	if !ok {
		return Decoded{Kind: KindEmptyOrInvalid, Body: body}
	}

	table := make(model.RawTable, len(rows))
	for i, row := range rows {
		cells, isRow := row.([]any)
		if !isRow {
			if i == 0 {
				return Decoded{Kind: KindEmptyOrInvalid, Body: body}
			}
			continue
		}
		table[i] = cells
	}

	if len(table) < 2 {
		return Decoded{Kind: KindEmptyOrInvalid, Table: table, Body: body}
	}

	return Decoded{Kind: KindValid, Table: table, Body: body}
}
