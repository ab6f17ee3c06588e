package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeNetErr satisfies net.Error for classification tests.
type fakeNetErr struct {
	timeout bool
}

func (e *fakeNetErr) Error() string   { return "fake network error" }
func (e *fakeNetErr) Timeout() bool   { return e.timeout }
func (e *fakeNetErr) Temporary() bool { return false }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, ""},
		{"sentinel connection", fmt.Errorf("dial: %w", ErrConnection), CategoryConnection},
		{"sentinel timeout", fmt.Errorf("slow: %w", ErrTimeout), CategoryTimeout},
		{"sentinel value", fmt.Errorf("bad arg: %w", ErrInvalidValue), CategoryValue},
		{"sentinel key", fmt.Errorf("lookup: %w", ErrMissingKey), CategoryKey},
		{"sentinel type", fmt.Errorf("coerce: %w", ErrWrongType), CategoryType},
		{"context deadline", context.DeadlineExceeded, CategoryTimeout},
		{"net timeout", &fakeNetErr{timeout: true}, CategoryTimeout},
		{"net failure", &fakeNetErr{}, CategoryConnection},
		{"plain error", errors.New("something else"), CategoryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
