// Package errs defines the sentinel errors returned by scalarsdr packages.
//
// Callers should test for them with errors.Is, since most call sites wrap the
// sentinel with additional context:
//
//	if errors.Is(err, errs.ErrInvalidConfiguration) {
//	    // construction aborted
//	}
package errs

import "errors"

// Configuration errors.
var (
	// ErrInvalidConfiguration is returned when an encoder is constructed with
	// options that cannot produce a valid encoding (periodic requested, n omitted,
	// n <= w, inverted bounds, ...).
	ErrInvalidConfiguration = errors.New("invalid encoder configuration")
)

// Input errors.
var (
	// ErrInvalidInput is returned when an input cannot be interpreted, such as a
	// string that does not parse as a number or an empty bucket list.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidBufferSize is returned when a caller-provided pattern buffer does
	// not have the encoder's total width.
	ErrInvalidBufferSize = errors.New("invalid buffer size")

	// ErrOutOfRange is returned by a non-clipping scalar encoder for inputs
	// outside [minVal, maxVal].
	ErrOutOfRange = errors.New("input out of range")
)

// Batch codec errors.
var (
	ErrInvalidHeader          = errors.New("invalid batch header")
	ErrInvalidBatch           = errors.New("invalid batch payload")
	ErrChecksumMismatch       = errors.New("batch checksum mismatch")
	ErrUnsupportedCompression = errors.New("unsupported compression type")
	ErrUnsupportedLayout      = errors.New("unsupported pattern layout")
	ErrBatchFinished          = errors.New("batch writer already finished")
)
