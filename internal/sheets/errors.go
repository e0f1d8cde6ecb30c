package sheets

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

const (
	statusSnippetLimit = 120
	responseTextLimit  = 200
)

// FetchError reports a transport failure or a non-success status from the
// sheet source.
type FetchError struct {
	Err        error
	Snippet    string // Start of the response body, for diagnostics
	StatusCode int    // 0 when no response was received
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("failed to connect: %v", e.Err)
	}
	if e.Snippet == "" {
		return fmt.Sprintf("failed to connect (%d)", e.StatusCode)
	}
	return fmt.Sprintf("failed to connect (%d) %s", e.StatusCode, e.Snippet)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the failure looks transient.
func (e *FetchError) IsRetryable() bool {
	return e.StatusCode == 0 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

func newStatusError(status int, body []byte) *FetchError {
	return &FetchError{
		StatusCode: status,
		Snippet:    truncate(string(body), statusSnippetLimit),
	}
}

// MalformedResponseError reports a body that is not JSON, typically an HTML
// error page served by the proxy in place of sheet data.
type MalformedResponseError struct {
	Text string // Body with markup removed, truncated
}

func (e *MalformedResponseError) Error() string {
	return "unexpected response from sheet helper: " + e.Text
}

// IsRetryable always reports false; a broken script will not fix itself.
func (e *MalformedResponseError) IsRetryable() bool {
	return false
}

func newMalformedError(body []byte) *MalformedResponseError {
	return &MalformedResponseError{Text: truncate(StripMarkup(string(body)), responseTextLimit)}
}

// EmptyOrInvalidSheetError reports a sheet with no data rows or a body that
// is not an array of rows.
type EmptyOrInvalidSheetError struct {
	Rows int
}

func (e *EmptyOrInvalidSheetError) Error() string {
	return "sheet appears to be empty or has no data rows"
}

// IsRetryable always reports false.
func (e *EmptyOrInvalidSheetError) IsRetryable() bool {
	return false
}

var (
	markupTag  = regexp.MustCompile(`<[^>]+>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// StripMarkup removes tags from an HTML fragment and collapses whitespace.
func StripMarkup(body string) string {
	text := markupTag.ReplaceAllString(body, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
