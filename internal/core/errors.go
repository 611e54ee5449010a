package core

import "errors"

// Failure categories. The transport layer maps these to response classes:
// invalid input is a client mistake, everything else is an upstream problem.
var (
	// ErrInvalidInput marks precondition violations detected before any
	// backend call. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBackendTimeout marks timeout-class failures from the
	// text-generation backend. Transient: eligible for retry.
	ErrBackendTimeout = errors.New("backend timeout")

	// ErrBackend marks non-timeout failures from the text-generation
	// backend (authentication, malformed request). Fatal: never retried.
	ErrBackend = errors.New("backend error")

	// ErrSynthesis marks any speech backend failure. Fatal: never retried.
	ErrSynthesis = errors.New("synthesis failed")
)
