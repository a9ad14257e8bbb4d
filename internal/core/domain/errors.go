package domain

import "errors"

// Pipeline errors. Adapters wrap these with context using %w so callers
// can match them with errors.Is.
var (
	// ErrArchiveOpen indicates the document container could not be opened
	// (missing file, unreadable, or not a zip archive).
	ErrArchiveOpen = errors.New("cannot open archive")

	// ErrEntryNotFound indicates the requested part is absent from the archive.
	ErrEntryNotFound = errors.New("archive entry not found")

	// ErrMalformedMarkup indicates the markup part could not be parsed
	// (unbalanced tags, invalid encoding, empty document).
	ErrMalformedMarkup = errors.New("malformed markup")

	// ErrNormalization indicates the canonical text no longer parsed after
	// volatile substrings were removed. A pattern over-matched.
	ErrNormalization = errors.New("normalization corrupted canonical form")

	// ErrStorageIO indicates a snapshot could not be read or written for a
	// reason other than it not existing.
	ErrStorageIO = errors.New("snapshot storage failure")
)

// General errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSnapshotMismatch indicates content differs from its baseline.
	// Comparison itself reports mismatches as results; this error is for
	// callers that need a failing exit status.
	ErrSnapshotMismatch = errors.New("snapshot mismatch")

	// ErrHistoryDisabled indicates comparison history is turned off.
	ErrHistoryDisabled = errors.New("comparison history is disabled")
)
