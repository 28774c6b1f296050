package common

import "errors"

// Shared failure categories. Packages wrap these with fmt.Errorf("...: %w")
// so callers can classify any failure with errors.Is.
var (
	// ErrConfiguration marks invalid configuration values, rejected before
	// any numeric work starts.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrShapeMismatch marks operands whose dimensions disagree, e.g. feature
	// matrices with different coefficient counts or a filter that does not
	// match the spectrum length.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrDegenerateSignal marks a zero-energy frame whose cosine distance is
	// undefined.
	ErrDegenerateSignal = errors.New("degenerate signal")

	// ErrExternalProcess marks a helper binary that could not be started or
	// exited with a non-zero status.
	ErrExternalProcess = errors.New("external process failed")
)
