package query

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// AsyncQueryProvider is a Provider that can execute expressions asynchronously.
type AsyncQueryProvider interface {
	Provider
	ExecuteAsync(ctx context.Context, expr *Expression) *Future[any]
}

// AsyncProvider wraps a synchronous provider so that the queries it creates
// can be enumerated and executed through the asynchronous API.
type AsyncProvider struct {
	inner Provider
	elem  reflect.Type
}

var _ AsyncQueryProvider = (*AsyncProvider)(nil)

// NewAsyncProvider wraps inner. elem is the element type used for queries
// created over non-call expressions.
func NewAsyncProvider(inner Provider, elem reflect.Type) *AsyncProvider {
	return &AsyncProvider{inner: inner, elem: elem}
}

// CreateQuery creates a sequence over expr. For a call node the element type
// is taken from the node, otherwise the provider's element type is used.
func (p *AsyncProvider) CreateQuery(expr *Expression) (Query, error) {
	if expr == nil {
		return nil, fmt.Errorf("%w: nil expression", ErrMalformedExpression)
	}

	elem := p.elem

	if expr.IsCall() {
		if expr.kind.IsScalar() {
			return nil, fmt.Errorf("%w: %s does not produce a sequence", ErrMalformedExpression, expr.kind)
		}

		elem = expr.ElementType()
		if elem == nil {
			return nil, fmt.Errorf("%w: %s node has no element type", ErrMalformedExpression, expr.kind)
		}
	}

	Logger().Debug("create query",
		zap.Stringer("expression", expr),
		zap.Stringer("element", elem))

	return NewAsyncSequence(expr, elem), nil
}

// CreateQueryOf creates a sequence of T over expr without inspecting the
// expression.
func CreateQueryOf[T any](p *AsyncProvider, expr *Expression) (Queryable[T], error) {
	if expr == nil {
		return nil, fmt.Errorf("%w: nil expression", ErrMalformedExpression)
	}

	Logger().Debug("create typed query",
		zap.Stringer("expression", expr),
		zap.Stringer("element", reflect.TypeFor[T]()))

	return FromExpression[T](expr), nil
}

// Execute delegates to the wrapped provider.
func (p *AsyncProvider) Execute(expr *Expression) (any, error) {
	Logger().Debug("execute", zap.Stringer("expression", expr))

	return p.inner.Execute(expr)
}

// ExecuteOf executes expr and asserts the result type.
func ExecuteOf[T any](p Provider, expr *Expression) (T, error) {
	v, err := p.Execute(expr)
	if err != nil {
		var zero T

		return zero, err
	}

	return resultOf[T](v)
}

// ExecuteAsync executes expr synchronously and returns a completed future.
// A done ctx yields a future carrying ctx.Err() without executing.
func (p *AsyncProvider) ExecuteAsync(ctx context.Context, expr *Expression) *Future[any] {
	if err := ctx.Err(); err != nil {
		return Completed[any](nil, err)
	}

	v, err := p.Execute(expr)

	return Completed(v, err)
}

// ExecuteAsyncOf is the typed form of ExecuteAsync.
func ExecuteAsyncOf[T any](ctx context.Context, p AsyncQueryProvider, expr *Expression) *Future[T] {
	v, err := p.ExecuteAsync(ctx, expr).Await(ctx)
	if err != nil {
		var zero T

		return Completed(zero, err)
	}

	typed, err := resultOf[T](v)

	return Completed(typed, err)
}

// resultOf asserts v to T. A nil v yields the zero value.
func resultOf[T any](v any) (T, error) {
	var zero T

	if v == nil {
		return zero, nil
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %s", ErrElementType, v, reflect.TypeFor[T]())
	}

	return typed, nil
}
