// Package classification provides pattern-based classification of free-text
// payment status cells.
package classification

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// PaymentState is the outcome a pattern assigns to a payment status.
type PaymentState string

const (
	// StatePaid marks a registration whose payment was received.
	StatePaid PaymentState = "paid"
	// StateUnpaid marks a registration that still owes payment.
	StateUnpaid PaymentState = "unpaid"
)

// Pattern represents a payment status pattern.
type Pattern struct {
	Name     string
	State    PaymentState
	Regex    string
	Priority int // Higher priority patterns are checked first
}

type compiledPattern struct {
	compiledRegex *regexp.Regexp
	Pattern
}

// PaymentStatus is the classification of a single status cell.
type PaymentStatus struct {
	Label *string // nil when the cell was empty
	Paid  bool
}

// PaymentClassifier classifies payment status text. It is safe for concurrent use.
type PaymentClassifier struct {
	patterns []compiledPattern
}

var nonPlain = regexp.MustCompile(`[^a-z0-9 ]+`)

// NewPaymentClassifier compiles the given patterns.
func NewPaymentClassifier(patterns []Pattern) (*PaymentClassifier, error) {
	compiled := make([]compiledPattern, 0, len(patterns))

	for _, p := range patterns {
		if p.State != StatePaid && p.State != StateUnpaid {
			return nil, fmt.Errorf("pattern %s has invalid state %q", p.Name, p.State)
		}

		regexStr := p.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr
		}

		regex, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %s: %w", p.Name, err)
		}

		compiled = append(compiled, compiledPattern{
			Pattern:       p,
			compiledRegex: regex,
		})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})

	return &PaymentClassifier{patterns: compiled}, nil
}

// MustDefault returns a classifier built from DefaultPaymentPatterns.
func MustDefault() *PaymentClassifier {
	c, err := NewPaymentClassifier(DefaultPaymentPatterns())
	if err != nil {
		panic(err)
	}
	return c
}

// Classify classifies trimmed, non-empty status text. Text that no pattern
// recognizes is passed through as the label with Paid false.
func (c *PaymentClassifier) Classify(text string) PaymentStatus {
	plain := nonPlain.ReplaceAllString(strings.ToLower(text), " ")

	if state, ok := c.Match(plain); ok {
		label := string(state)
		return PaymentStatus{Label: &label, Paid: state == StatePaid}
	}

	label := text
	return PaymentStatus{Label: &label}
}

// Match returns the state of the highest-priority pattern matching plain.
func (c *PaymentClassifier) Match(plain string) (PaymentState, bool) {
	for _, pattern := range c.patterns {
		if pattern.compiledRegex.MatchString(plain) {
			return pattern.State, true
		}
	}
	return "", false
}
