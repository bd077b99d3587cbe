package query

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Queryable is a typed query that can be enumerated asynchronously.
type Queryable[T any] interface {
	Query
	AsyncEnumerator(ctx context.Context) (AsyncEnumerator[T], error)
}

// AsyncSequence is an untyped in-memory sequence over an expression whose
// provider supports asynchronous execution.
type AsyncSequence struct {
	expr *Expression
	elem reflect.Type
}

var _ Query = (*AsyncSequence)(nil)

// NewAsyncSequence creates a sequence over expr with element type elem.
func NewAsyncSequence(expr *Expression, elem reflect.Type) *AsyncSequence {
	return &AsyncSequence{expr: expr, elem: elem}
}

func (s *AsyncSequence) Expression() *Expression { return s.expr }

func (s *AsyncSequence) ElementType() reflect.Type { return s.elem }

// Provider returns a new AsyncProvider over the sequence on every call.
func (s *AsyncSequence) Provider() Provider {
	return NewAsyncProvider(NewEnumerableQuery(s.expr), s.elem)
}

// Items evaluates the sequence synchronously.
func (s *AsyncSequence) Items() ([]any, error) {
	v, err := NewEnumerableQuery(s.expr).Execute(s.expr)
	if err != nil {
		return nil, err
	}

	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a sequence", ErrMalformedExpression, s.expr.kind)
	}

	return items, nil
}

// Sequence is the typed view of an AsyncSequence.
type Sequence[T any] struct {
	*AsyncSequence
}

var _ Queryable[int] = (*Sequence[int])(nil)

// FromSlice creates a sequence over items.
func FromSlice[T any](items []T) *Sequence[T] {
	return FromExpression[T](SourceOf(items))
}

// FromExpression creates a sequence of T over expr.
func FromExpression[T any](expr *Expression) *Sequence[T] {
	return &Sequence[T]{AsyncSequence: NewAsyncSequence(expr, reflect.TypeFor[T]())}
}

// AsyncEnumerator realizes the sequence and returns an enumerator over it.
func (s *Sequence[T]) AsyncEnumerator(ctx context.Context) (AsyncEnumerator[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items, err := s.Items()
	if err != nil {
		return nil, err
	}

	typed := make([]T, len(items))
	for i, item := range items {
		if typed[i], err = resultOf[T](item); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}

	Logger().Debug("enumerate", zap.Stringer("expression", s.expr), zap.Int("count", len(typed)))

	return NewSyncAdapter[T](NewSliceIterator(typed)), nil
}

// AsQueryable returns a typed view of q. It fails with ErrElementType when
// q yields another element type and with ErrNotAsync when q cannot be
// enumerated asynchronously.
func AsQueryable[T any](q Query) (Queryable[T], error) {
	if want := reflect.TypeFor[T](); q.ElementType() != want {
		return nil, fmt.Errorf("%w: query yields %v, want %s", ErrElementType, q.ElementType(), want)
	}

	switch typed := q.(type) {
	case Queryable[T]:
		return typed, nil
	case *AsyncSequence:
		return &Sequence[T]{AsyncSequence: typed}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotAsync, q)
	}
}
