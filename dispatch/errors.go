package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"strconv"
)

// Category labels a tool execution failure for the diagnostic fed back to
// the model. The taxonomy is small and fixed; anything unrecognized is
// GENERAL.
type Category string

const (
	CategoryConnection Category = "CONNECTION"
	CategoryTimeout    Category = "TIMEOUT"
	CategoryValue      Category = "VALUE"
	CategoryKey        Category = "KEY"
	CategoryType       Category = "TYPE"
	CategoryGeneral    Category = "GENERAL"
)

// Sentinel errors executors wrap so Classify can recognize the failure mode.
var (
	// ErrConnection indicates the tool backend could not be reached.
	ErrConnection = errors.New("connection failure")

	// ErrTimeout indicates the call exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrInvalidValue indicates an argument value the tool rejected.
	ErrInvalidValue = errors.New("invalid value")

	// ErrMissingKey indicates a lookup that found nothing, such as a tool
	// with no registered handler.
	ErrMissingKey = errors.New("missing key")

	// ErrWrongType indicates an argument or result of the wrong type.
	ErrWrongType = errors.New("wrong type")
)

// Classify maps an executor error onto the failure taxonomy using the
// error's identity: sentinel wrapping first, then the standard library's
// network, deadline, and decoding error types.
func Classify(err error) Category {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, os.ErrDeadlineExceeded):
		return CategoryTimeout
	case errors.Is(err, ErrConnection):
		return CategoryConnection
	case errors.Is(err, ErrInvalidValue):
		return CategoryValue
	case errors.Is(err, ErrMissingKey):
		return CategoryKey
	case errors.Is(err, ErrWrongType):
		return CategoryType
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return CategoryTimeout
		}
		return CategoryConnection
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return CategoryType
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return CategoryValue
	}

	return CategoryGeneral
}
