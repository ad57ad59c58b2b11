package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_RememberAndLookup(t *testing.T) {
	c := NewCache()

	require.NoError(t, c.Remember(0, 2, 4))
	require.NoError(t, c.Remember(1, 6, 4))
	require.NoError(t, c.Remember(2, 10, 258))

	assert.Equal(t, 3, c.Len())

	span, ok := c.LengthOf(1)
	require.True(t, ok)
	assert.Equal(t, int64(4), span)

	visit, ok := c.VisitOrderAt(10)
	require.True(t, ok)
	assert.Equal(t, 2, visit)

	_, ok = c.LengthOf(3)
	assert.False(t, ok)
	_, ok = c.LengthOf(-1)
	assert.False(t, ok)
	_, ok = c.VisitOrderAt(7)
	assert.False(t, ok)
}

func TestCache_RememberIsIdempotent(t *testing.T) {
	c := NewCache()

	require.NoError(t, c.Remember(0, 2, 4))
	require.NoError(t, c.Remember(0, 2, 4))

	assert.Equal(t, 1, c.Len())
}

func TestCache_RejectsGaps(t *testing.T) {
	c := NewCache()

	assert.ErrorIs(t, c.Remember(1, 6, 4), ErrGap)
	assert.ErrorIs(t, c.Remember(-1, 0, 4), ErrGap)
	assert.Equal(t, 0, c.Len())
}

func TestCache_RejectsConflicts(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Remember(0, 2, 4))

	assert.ErrorIs(t, c.Remember(0, 2, 6), ErrConflict)
	assert.ErrorIs(t, c.Remember(0, 4, 4), ErrConflict)
	assert.ErrorIs(t, c.Remember(1, 2, 4), ErrConflict)

	assert.Equal(t, 1, c.Len())
}
