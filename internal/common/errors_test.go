package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type classifiedErr struct {
	retryable bool
}

func (e classifiedErr) Error() string     { return "classified" }
func (e classifiedErr) IsRetryable() bool { return e.retryable }

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: fmt.Errorf("fetch: %w", context.DeadlineExceeded), want: true},
		{name: "rate limit", err: ErrRateLimit, want: true},
		{name: "classified retryable", err: fmt.Errorf("wrapped: %w", classifiedErr{retryable: true}), want: true},
		{name: "classified permanent", err: classifiedErr{retryable: false}, want: false},
		{name: "retryable wrapper", err: &RetryableError{Err: errors.New("x"), Retryable: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewUserError("Could not save workshop", cause)

	assert.Equal(t, "Could not save workshop: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	var userErr *UserError
	assert.ErrorAs(t, err, &userErr)
	assert.Equal(t, "Could not save workshop", (&UserError{UserMessage: "Could not save workshop"}).Error())
}
