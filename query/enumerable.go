package query

import (
	"fmt"
	"reflect"
	"sort"
)

// Query is an untyped query: an expression chain with its element type and
// the provider that created it.
type Query interface {
	Expression() *Expression
	ElementType() reflect.Type
	Provider() Provider
}

// Provider creates and executes queries.
type Provider interface {
	// CreateQuery builds a query over expr.
	CreateQuery(expr *Expression) (Query, error)
	// Execute evaluates expr. Sequence nodes yield []any, scalar nodes their value.
	Execute(expr *Expression) (any, error)
}

// EnumerableQuery is the in-memory query and provider. It interprets
// expression chains synchronously.
type EnumerableQuery struct {
	expr *Expression
}

var (
	_ Query    = (*EnumerableQuery)(nil)
	_ Provider = (*EnumerableQuery)(nil)
)

// NewEnumerableQuery creates an in-memory query over expr.
func NewEnumerableQuery(expr *Expression) *EnumerableQuery {
	return &EnumerableQuery{expr: expr}
}

func (q *EnumerableQuery) Expression() *Expression { return q.expr }

func (q *EnumerableQuery) ElementType() reflect.Type { return q.expr.ElementType() }

// Provider returns q itself.
func (q *EnumerableQuery) Provider() Provider { return q }

// CreateQuery returns a new in-memory query over expr.
func (q *EnumerableQuery) CreateQuery(expr *Expression) (Query, error) {
	if expr == nil {
		return nil, fmt.Errorf("%w: nil expression", ErrMalformedExpression)
	}

	return NewEnumerableQuery(expr), nil
}

// Execute evaluates expr over the in-memory items of its Source node.
func (q *EnumerableQuery) Execute(expr *Expression) (any, error) {
	if expr == nil {
		return nil, fmt.Errorf("%w: nil expression", ErrMalformedExpression)
	}

	if !expr.kind.IsScalar() {
		return evaluate(expr)
	}

	items, err := evaluate(expr.parent)
	if err != nil {
		return nil, err
	}

	switch expr.kind {
	case NodeFirst:
		if len(items) == 0 {
			return nil, ErrNoElements
		}

		return items[0], nil
	case NodeFirstOrDefault:
		if len(items) > 0 {
			return items[0], nil
		}

		if expr.elem == nil {
			return nil, nil
		}

		return reflect.Zero(expr.elem).Interface(), nil
	case NodeCount:
		return len(items), nil
	default:
		return len(items) > 0, nil
	}
}

// evaluate realizes a sequence node. The returned slice is never shared
// with the Source node.
func evaluate(expr *Expression) ([]any, error) {
	if expr == nil {
		return nil, fmt.Errorf("%w: chain has no source", ErrMalformedExpression)
	}

	if expr.kind == NodeSource {
		return append([]any(nil), expr.items...), nil
	}

	if expr.kind.IsScalar() {
		return nil, fmt.Errorf("%w: %s is not a sequence", ErrMalformedExpression, expr.kind)
	}

	items, err := evaluate(expr.parent)
	if err != nil {
		return nil, err
	}

	switch expr.kind {
	case NodeWhere:
		out := items[:0]

		for _, item := range items {
			ok, err := expr.predicate(item)
			if err != nil {
				return nil, fmt.Errorf("where: %w", err)
			}

			if ok {
				out = append(out, item)
			}
		}

		return out, nil

	case NodeSelect:
		for i, item := range items {
			projected, err := expr.projection(item)
			if err != nil {
				return nil, fmt.Errorf("select: %w", err)
			}

			items[i] = projected
		}

		return items, nil

	case NodeSkip:
		return items[min(max(expr.n, 0), len(items)):], nil

	case NodeTake:
		return items[:min(max(expr.n, 0), len(items))], nil

	case NodeOrderBy:
		var cmpErr error

		sort.SliceStable(items, func(i, j int) bool {
			if cmpErr != nil {
				return false
			}

			less, err := expr.comparator(items[i], items[j])
			if err != nil {
				cmpErr = err
			}

			return less
		})

		if cmpErr != nil {
			return nil, fmt.Errorf("order by: %w", cmpErr)
		}

		return items, nil
	}

	return nil, fmt.Errorf("%w: unknown node %s", ErrMalformedExpression, expr.kind)
}
