package query

import "context"

// Future is the result of an asynchronous operation.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Completed returns a future that already holds its result.
func Completed[T any](value T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: value, err: err}
	close(f.done)

	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// IsCompleted reports whether the result is available.
func (f *Future[T]) IsCompleted() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await waits for the result or for ctx to be done. A completed result is
// returned even if ctx is already cancelled.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T

		return zero, ctx.Err()
	}
}
