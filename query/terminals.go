package query

import (
	"context"
	"fmt"
)

// ToList enumerates q asynchronously into a slice. The enumerator is
// always closed.
func ToList[T any](ctx context.Context, q Queryable[T]) (list []T, err error) {
	e, err := q.AsyncEnumerator(ctx)
	if err != nil {
		return nil, err
	}

	defer func() {
		if cerr := e.Close(); err == nil {
			err = cerr
		}
	}()

	list = make([]T, 0)

	for {
		ok, err := e.MoveNext(ctx)
		if err != nil {
			return nil, err
		}

		if !ok {
			return list, nil
		}

		list = append(list, e.Current())
	}
}

// ForEach calls fn for every element of q, stopping at the first error.
func ForEach[T any](ctx context.Context, q Queryable[T], fn func(T) error) (err error) {
	e, err := q.AsyncEnumerator(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := e.Close(); err == nil {
			err = cerr
		}
	}()

	for {
		ok, err := e.MoveNext(ctx)
		if err != nil || !ok {
			return err
		}

		if err := fn(e.Current()); err != nil {
			return err
		}
	}
}

// First returns the first element of q, or ErrNoElements.
func First[T any](ctx context.Context, q Queryable[T]) (T, error) {
	return execute[T](ctx, q, q.Expression().First())
}

// FirstOrDefault returns the first element of q, or the zero value.
func FirstOrDefault[T any](ctx context.Context, q Queryable[T]) (T, error) {
	return execute[T](ctx, q, q.Expression().FirstOrDefault())
}

// Count returns the number of elements of q.
func Count[T any](ctx context.Context, q Queryable[T]) (int, error) {
	return execute[int](ctx, q, q.Expression().Count())
}

// Any reports whether q has at least one element.
func Any[T any](ctx context.Context, q Queryable[T]) (bool, error) {
	return execute[bool](ctx, q, q.Expression().Any())
}

// execute runs a scalar node through the asynchronous provider of q.
func execute[R any](ctx context.Context, q Query, expr *Expression) (R, error) {
	p, ok := q.Provider().(AsyncQueryProvider)
	if !ok {
		var zero R

		return zero, fmt.Errorf("%w: %T", ErrNotAsync, q.Provider())
	}

	return ExecuteAsyncOf[R](ctx, p, expr).Await(ctx)
}
