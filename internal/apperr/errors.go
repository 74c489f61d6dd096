// Package apperr defines the sentinel errors shared across the application.
package apperr

import "errors"

var (
	// ErrNotConnected is returned by analytic accessors called before Connect.
	ErrNotConnected = errors.New("vault not connected")
	// ErrNotGathered is returned by text accessors called before Gather.
	ErrNotGathered = errors.New("vault not gathered")
	// ErrNotFound is returned when a queried name is absent from the relevant index.
	ErrNotFound = errors.New("not found")
	// ErrAttachmentsDisabled is returned by queries that require attachments mode.
	ErrAttachmentsDisabled = errors.New("attachments disabled")
)
