package services

import (
	"errors"
	"fmt"
	"time"

	"bridebuddy.app/configs/configslog"

	"go.uber.org/zap"
)

// ServiceError is a failure kind callers can match with errors.Is.
type ServiceError string

func (e ServiceError) Error() string { return string(e) }

const (
	ErrInvalidInput        ServiceError = "invalid input"
	ErrUnauthenticated     ServiceError = "authentication required"
	ErrNotAuthorized       ServiceError = "not authorized"
	ErrNotFound            ServiceError = "not found"
	ErrExpired             ServiceError = "invite has expired"
	ErrAlreadyUsed         ServiceError = "invite has already been used"
	ErrAlreadyMember       ServiceError = "user already belongs to a wedding"
	ErrCardinalityExceeded ServiceError = "role limit reached"
	ErrStorageFailure      ServiceError = "storage temporarily unavailable"
)

var kinds = []ServiceError{
	ErrInvalidInput, ErrUnauthenticated, ErrNotAuthorized, ErrNotFound, ErrExpired,
	ErrAlreadyUsed, ErrAlreadyMember, ErrCardinalityExceeded, ErrStorageFailure,
}

var defaultReasons = map[ServiceError]string{
	ErrInvalidInput:        "invalid_input",
	ErrUnauthenticated:     "unauthenticated",
	ErrNotAuthorized:       "not_authorized",
	ErrNotFound:            "not_found",
	ErrExpired:             "expired",
	ErrAlreadyUsed:         "already_used",
	ErrAlreadyMember:       "already_member",
	ErrCardinalityExceeded: "limit_reached",
	ErrStorageFailure:      "storage_failure",
}

// reasonError narrows a kind with a more specific machine-readable reason.
type reasonError struct {
	kind   ServiceError
	reason string
	msg    string
}

func (e *reasonError) Error() string { return e.msg }
func (e *reasonError) Unwrap() error { return e.kind }

func withReason(kind ServiceError, reason, msg string) error {
	return &reasonError{kind: kind, reason: reason, msg: fmt.Sprintf("%s: %s", kind, msg)}
}

// KindOf returns the failure kind of err.
func KindOf(err error) (ServiceError, bool) {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k, true
		}
	}
	return "", false
}

// Reason returns the stable reason code for err, or "" for unknown errors.
func Reason(err error) string {
	var re *reasonError
	if errors.As(err, &re) {
		return re.reason
	}
	if k, ok := KindOf(err); ok {
		return defaultReasons[k]
	}
	return ""
}

// storageFailure logs the underlying error and returns the retryable kind.
func storageFailure(op string, err error) error {
	configslog.Log.Error("storage failure", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s", ErrStorageFailure, op)
}

// passThrough keeps service errors and turns anything else into a storage failure.
func passThrough(op string, err error) error {
	if _, ok := KindOf(err); ok {
		return err
	}
	return storageFailure(op, err)
}

// Clock returns the current time. Services default to UTC wall time.
type Clock func() time.Time

func (c Clock) orDefault() Clock {
	if c == nil {
		return func() time.Time { return time.Now().UTC() }
	}
	return c
}
