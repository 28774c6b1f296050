package dtw

import (
	"errors"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
)

var (
	// ErrEmptyInput is returned when either feature matrix has no frames
	ErrEmptyInput = errors.New("empty feature matrix")

	// ErrBandTooNarrow is returned when the band cannot reach the terminal
	// cell or leaves consecutive rows disconnected
	ErrBandTooNarrow = errors.New("band too narrow")

	// ErrShapeMismatch is returned when the matrices disagree on the
	// coefficient dimension
	ErrShapeMismatch = common.ErrShapeMismatch

	// ErrDegenerateSignal is returned for zero-energy frames when silent
	// frames are rejected
	ErrDegenerateSignal = common.ErrDegenerateSignal

	// ErrConfiguration is returned for a band width below one
	ErrConfiguration = common.ErrConfiguration
)
