package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceIterator(t *testing.T) {
	it := NewSliceIterator([]int{1, 2})

	_, err := it.Value()
	require.ErrorIs(t, err, ErrOutOfRange)

	require.True(t, it.Next())

	v, err := it.Value()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.True(t, it.Next())
	require.False(t, it.Next())
	require.False(t, it.Next())

	_, err = it.Value()
	require.ErrorIs(t, err, ErrOutOfRange)

	require.NoError(t, it.Close())

	_, err = it.Value()
	require.ErrorIs(t, err, ErrClosed)
	assert.False(t, it.Next())
}

func TestSyncAdapter(t *testing.T) {
	ctx := context.Background()
	e := NewSyncAdapter[string](NewSliceIterator([]string{"a", "b"}))

	// zero value before the first step
	assert.Equal(t, "", e.Current())

	var got []string

	for {
		ok, err := e.MoveNext(ctx)
		require.NoError(t, err)

		if !ok {
			break
		}

		got = append(got, e.Current())
	}

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, "", e.Current())

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	ok, err := e.MoveNext(ctx)
	require.ErrorIs(t, err, ErrClosed)
	assert.False(t, ok)
}

func TestSyncAdapter_Cancelled(t *testing.T) {
	e := NewSyncAdapter[int](NewSliceIterator([]int{1, 2, 3}))
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())

	ok, err := e.MoveNext(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	cancel()

	ok, err = e.MoveNext(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)

	// a refused step leaves the position unchanged
	assert.Equal(t, 1, e.Current())
}
