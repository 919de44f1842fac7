package tidy

import (
	"errors"
	"fmt"
)

// ErrorCode classifies engine errors.
type ErrorCode string

const (
	ErrNotFound           ErrorCode = "NOT_FOUND"           // plan or item missing
	ErrBlockedOperation   ErrorCode = "BLOCKED_OPERATION"   // safety validator rejection
	ErrSourceMissing      ErrorCode = "SOURCE_MISSING"      // file vanished between scan and execution
	ErrIOFailure          ErrorCode = "IO_FAILURE"          // move or mkdir failure
	ErrClassifierDegraded ErrorCode = "CLASSIFIER_DEGRADED" // remote classification fell back; not fatal
)

// OpError is a structured error with a machine-readable code.
type OpError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewPlanNotFound creates a NOT_FOUND error for a missing plan.
func NewPlanNotFound(planID string) *OpError {
	return &OpError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("plan not found: %s", planID),
	}
}

// NewBlockedOperation creates a BLOCKED_OPERATION error.
func NewBlockedOperation(msg string) *OpError {
	return &OpError{
		Code:    ErrBlockedOperation,
		Message: msg,
	}
}

// NewSourceMissing creates a SOURCE_MISSING error. The message is the exact
// string recorded on the item, so it stays stable across retries.
func NewSourceMissing() *OpError {
	return &OpError{
		Code:    ErrSourceMissing,
		Message: "source not found",
	}
}

// IsCode reports whether err is (or wraps) an OpError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Code == code
}
