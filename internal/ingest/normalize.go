package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Veraticus/workshop-ledger/internal/classification"
)

// NormalizeText trims a cell to text. Missing and blank cells become nil.
func NormalizeText(cell any) *string {
	if cell == nil {
		return nil
	}
	trimmed := strings.TrimSpace(formatCell(cell))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// formatCell renders a cell the way it reads in the sheet.
func formatCell(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// NormalizePaymentStatus classifies a payment status cell. Empty cells yield a
// nil label and Paid false.
func NormalizePaymentStatus(cell any, classifier *classification.PaymentClassifier) classification.PaymentStatus {
	text := NormalizeText(cell)
	if text == nil {
		return classification.PaymentStatus{}
	}
	return classifier.Classify(*text)
}

var numericPrefix = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)`)

// CoerceAmount reads a currency-like cell as a number. Numeric cells are used
// as they are. In text cells currency symbols, thousands separators and words
// are dropped; anything unparseable is 0.
func CoerceAmount(cell any) float64 {
	if amount, ok := numericCell(cell); ok {
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			return 0
		}
		return amount
	}

	text := NormalizeText(cell)
	if text == nil {
		return 0
	}

	runes := []rune(*text)
	var b strings.Builder
	for i, r := range runes {
		switch {
		case r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '.':
			// "Rs. 500" and "Rs.500" use the dot as an abbreviation, not a decimal point.
			nextIsDigit := i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9'
			prevIsLetter := i > 0 && unicode.IsLetter(runes[i-1])
			if nextIsDigit && !prevIsLetter {
				b.WriteRune(r)
			}
		}
	}

	match := numericPrefix.FindString(b.String())
	if match == "" {
		return 0
	}

	amount, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	return amount
}

// numericCell returns the value of cells that already hold a number, such as
// json.Number values from the proxy or float64 values from the Sheets API.
func numericCell(cell any) (float64, bool) {
	switch v := cell.(type) {
	case json.Number:
		f, err := v.Float64()
		if errors.Is(err, strconv.ErrRange) {
			return 0, true
		}
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
