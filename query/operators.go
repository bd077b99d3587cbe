package query

import (
	"fmt"
	"reflect"
)

// Where filters q with predicate.
func Where[T any](q Queryable[T], predicate func(T) bool) (Queryable[T], error) {
	expr := q.Expression().Where(func(v any) (bool, error) {
		t, err := resultOf[T](v)
		if err != nil {
			return false, err
		}

		return predicate(t), nil
	})

	return createQuery[T](q, expr)
}

// Select projects each element of q with projection.
func Select[T, U any](q Queryable[T], projection func(T) U) (Queryable[U], error) {
	return SelectErr(q, func(t T) (U, error) { return projection(t), nil })
}

// SelectErr projects each element of q with a projection that may fail.
func SelectErr[T, U any](q Queryable[T], projection func(T) (U, error)) (Queryable[U], error) {
	expr := q.Expression().Select(reflect.TypeFor[U](), func(v any) (any, error) {
		t, err := resultOf[T](v)
		if err != nil {
			return nil, err
		}

		return projection(t)
	})

	return createQuery[U](q, expr)
}

// Skip bypasses the first n elements of q.
func Skip[T any](q Queryable[T], n int) (Queryable[T], error) {
	return createQuery[T](q, q.Expression().Skip(n))
}

// Take keeps at most n elements of q.
func Take[T any](q Queryable[T], n int) (Queryable[T], error) {
	return createQuery[T](q, q.Expression().Take(n))
}

// OrderBy sorts q stably with less.
func OrderBy[T any](q Queryable[T], less func(a, b T) bool) (Queryable[T], error) {
	expr := q.Expression().OrderBy(func(a, b any) (bool, error) {
		ta, err := resultOf[T](a)
		if err != nil {
			return false, err
		}

		tb, err := resultOf[T](b)
		if err != nil {
			return false, err
		}

		return less(ta, tb), nil
	})

	return createQuery[T](q, expr)
}

// createQuery asks the provider of q for a query of U over expr.
func createQuery[U any](q Query, expr *Expression) (Queryable[U], error) {
	switch p := q.Provider().(type) {
	case *AsyncProvider:
		return CreateQueryOf[U](p, expr)
	case nil:
		return nil, fmt.Errorf("%w: query has no provider", ErrNotAsync)
	default:
		created, err := p.CreateQuery(expr)
		if err != nil {
			return nil, err
		}

		return AsQueryable[U](created)
	}
}
