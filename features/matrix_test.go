package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-align/algorithms/common"
)

func TestFromRowsAndFrames(t *testing.T) {
	rows := [][]float64{
		{1, 2, 3},
		{4, 5, 6},
	}
	frames := [][]float64{
		{1, 4},
		{2, 5},
		{3, 6},
	}

	a, err := FromRows(rows)
	require.NoError(t, err)
	b, err := FromFrames(frames)
	require.NoError(t, err)

	r, c := a.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, a.RawMatrix().Data, b.RawMatrix().Data)
	assert.Equal(t, frames, ToFrames(a))
}

func TestFromRowsRagged(t *testing.T) {
	_, err := FromRows([][]float64{{1, 2}, {3}})
	assert.True(t, errors.Is(err, common.ErrShapeMismatch))

	_, err = FromFrames([][]float64{{1, 2}, {3}})
	assert.True(t, errors.Is(err, common.ErrShapeMismatch))

	_, err = FromRows(nil)
	assert.True(t, errors.Is(err, ErrEmptySignal))
}
