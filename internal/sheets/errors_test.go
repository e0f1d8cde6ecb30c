package sheets

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchErrorMessage(t *testing.T) {
	assert.Equal(t, "failed to connect (502) Bad Gateway", (&FetchError{StatusCode: 502, Snippet: "Bad Gateway"}).Error())
	assert.Equal(t, "failed to connect (404)", (&FetchError{StatusCode: 404}).Error())

	cause := errors.New("connection refused")
	err := &FetchError{Err: cause}
	assert.Equal(t, "failed to connect: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestFetchErrorRetryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{status: 0, want: true},
		{status: 429, want: true},
		{status: 500, want: true},
		{status: 502, want: true},
		{status: 400, want: false},
		{status: 403, want: false},
		{status: 404, want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, (&FetchError{StatusCode: tt.status}).IsRetryable(), "status %d", tt.status)
	}

	assert.False(t, (&MalformedResponseError{}).IsRetryable())
	assert.False(t, (&EmptyOrInvalidSheetError{}).IsRetryable())
}

func TestNewStatusErrorTruncatesSnippet(t *testing.T) {
	err := newStatusError(502, []byte(strings.Repeat("é", 500)))
	assert.Equal(t, 502, err.StatusCode)
	assert.Len(t, []rune(err.Snippet), statusSnippetLimit)
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "<b>Error</b>", want: "Error"},
		{in: "<div>\n  Script\tfailed  </div><span>now</span>", want: "Script failed now"},
		{in: "plain text", want: "plain text"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StripMarkup(tt.in))
	}
}
