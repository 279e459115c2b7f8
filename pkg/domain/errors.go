package domain

import "errors"

// Common domain errors
var (
	// ErrInvalidIDFormat is returned when an operation identifier cannot be
	// normalized to a positive integer key.
	ErrInvalidIDFormat = errors.New("invalid operation id format")
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAuditWriteFailed is returned when the audit mirror insert fails.
	// The canonical row must never be deleted after this error.
	ErrAuditWriteFailed = errors.New("audit write failed")
	// ErrCanonicalDeleteFailed is returned when the canonical row removal fails
	// after the audit row was written. Recoverable by retrying the delete.
	ErrCanonicalDeleteFailed = errors.New("canonical delete failed")
	// ErrRestoreFailed is returned when re-inserting a restored operation fails.
	// Non-fatal for the enclosing transfer deletion.
	ErrRestoreFailed = errors.New("restore failed")
	// ErrFetchTimeout is returned when a timeline fetch exceeds the watchdog timeout.
	ErrFetchTimeout = errors.New("fetch timed out")
	// ErrUnauthorized is returned when a user is not authorized to perform an action
	ErrUnauthorized = errors.New("unauthorized")
)
