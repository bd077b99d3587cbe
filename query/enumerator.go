package query

import "context"

// Iterator iterates over a realized sequence.
// It follows the Cursor pattern: Next advances, Value retrieves.
type Iterator[T any] interface {
	Next() bool
	Value() (T, error)
	Close() error
}

// AsyncEnumerator iterates over a sequence asynchronously. Callers must Close it.
type AsyncEnumerator[T any] interface {
	// MoveNext advances to the next element and reports whether there is one.
	MoveNext(ctx context.Context) (bool, error)
	// Current returns the element at the current position.
	Current() T
	Close() error
}

// SliceIterator iterates over a slice.
type SliceIterator[T any] struct {
	items  []T
	pos    int
	closed bool
}

// NewSliceIterator creates an iterator positioned before the first item.
func NewSliceIterator[T any](items []T) *SliceIterator[T] {
	return &SliceIterator[T]{items: items, pos: -1}
}

func (it *SliceIterator[T]) Next() bool {
	if it.closed || it.pos >= len(it.items) {
		return false
	}

	it.pos++

	return it.pos < len(it.items)
}

func (it *SliceIterator[T]) Value() (T, error) {
	var zero T

	if it.closed {
		return zero, ErrClosed
	}

	if it.pos < 0 || it.pos >= len(it.items) {
		return zero, ErrOutOfRange
	}

	return it.items[it.pos], nil
}

func (it *SliceIterator[T]) Close() error {
	it.closed = true
	it.items = nil

	return nil
}

// SyncAdapter exposes a synchronous Iterator as an AsyncEnumerator.
// Every step runs synchronously on the caller's goroutine.
type SyncAdapter[T any] struct {
	inner  Iterator[T]
	closed bool
}

var _ AsyncEnumerator[int] = (*SyncAdapter[int])(nil)

// NewSyncAdapter wraps inner. The adapter owns inner and closes it.
func NewSyncAdapter[T any](inner Iterator[T]) *SyncAdapter[T] {
	return &SyncAdapter[T]{inner: inner}
}

// MoveNext checks ctx and advances the wrapped iterator.
func (a *SyncAdapter[T]) MoveNext(ctx context.Context) (bool, error) {
	if a.closed {
		return false, ErrClosed
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}

	return a.inner.Next(), nil
}

// Current returns the current element, or the zero value when the
// enumerator is not positioned on one.
func (a *SyncAdapter[T]) Current() T {
	v, err := a.inner.Value()
	if err != nil {
		var zero T

		return zero
	}

	return v
}

// Close releases the wrapped iterator. It is safe to call more than once.
func (a *SyncAdapter[T]) Close() error {
	if a.closed {
		return nil
	}

	a.closed = true

	return a.inner.Close()
}
