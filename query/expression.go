package query

import (
	"fmt"
	"reflect"
	"strings"
)

// NodeKind identifies the operation of an expression node.
type NodeKind int

const (
	NodeSource NodeKind = iota
	NodeWhere
	NodeSelect
	NodeSkip
	NodeTake
	NodeOrderBy
	NodeFirst
	NodeFirstOrDefault
	NodeCount
	NodeAny
)

func (k NodeKind) String() string {
	switch k {
	case NodeSource:
		return "Source"
	case NodeWhere:
		return "Where"
	case NodeSelect:
		return "Select"
	case NodeSkip:
		return "Skip"
	case NodeTake:
		return "Take"
	case NodeOrderBy:
		return "OrderBy"
	case NodeFirst:
		return "First"
	case NodeFirstOrDefault:
		return "FirstOrDefault"
	case NodeCount:
		return "Count"
	case NodeAny:
		return "Any"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// IsScalar reports whether the node produces a single value instead of a sequence.
func (k NodeKind) IsScalar() bool {
	switch k {
	case NodeFirst, NodeFirstOrDefault, NodeCount, NodeAny:
		return true
	default:
		return false
	}
}

type (
	// Predicate filters elements for Where nodes.
	Predicate func(v any) (bool, error)
	// Projection maps elements for Select nodes.
	Projection func(v any) (any, error)
	// Comparator orders elements for OrderBy nodes.
	Comparator func(a, b any) (bool, error)
)

var (
	intType  = reflect.TypeFor[int]()
	boolType = reflect.TypeFor[bool]()
)

// Expression is an immutable node of a query chain. Every node other than
// a Source node is a call node applied to its parent.
type Expression struct {
	kind   NodeKind
	parent *Expression
	elem   reflect.Type

	items      []any
	predicate  Predicate
	projection Projection
	comparator Comparator
	n          int
}

// NewSource creates the root node over items whose elements are of type elem.
func NewSource(items []any, elem reflect.Type) *Expression {
	return &Expression{kind: NodeSource, elem: elem, items: items}
}

// SourceOf creates the root node over a typed slice.
func SourceOf[T any](items []T) *Expression {
	values := make([]any, len(items))
	for i, item := range items {
		values[i] = item
	}

	return NewSource(values, reflect.TypeFor[T]())
}

func (e *Expression) call(kind NodeKind, elem reflect.Type) *Expression {
	return &Expression{kind: kind, parent: e, elem: elem}
}

// Where appends a filter node.
func (e *Expression) Where(predicate Predicate) *Expression {
	node := e.call(NodeWhere, e.elem)
	node.predicate = predicate

	return node
}

// Select appends a projection node yielding elements of type elem.
func (e *Expression) Select(elem reflect.Type, projection Projection) *Expression {
	node := e.call(NodeSelect, elem)
	node.projection = projection

	return node
}

// Skip appends a node bypassing the first n elements.
func (e *Expression) Skip(n int) *Expression {
	node := e.call(NodeSkip, e.elem)
	node.n = n

	return node
}

// Take appends a node keeping at most n elements.
func (e *Expression) Take(n int) *Expression {
	node := e.call(NodeTake, e.elem)
	node.n = n

	return node
}

// OrderBy appends a stable sort node.
func (e *Expression) OrderBy(less Comparator) *Expression {
	node := e.call(NodeOrderBy, e.elem)
	node.comparator = less

	return node
}

// First appends a node returning the first element.
func (e *Expression) First() *Expression {
	return e.call(NodeFirst, e.elem)
}

// FirstOrDefault appends a node returning the first element or the zero value.
func (e *Expression) FirstOrDefault() *Expression {
	return e.call(NodeFirstOrDefault, e.elem)
}

// Count appends a node returning the number of elements as int.
func (e *Expression) Count() *Expression {
	return e.call(NodeCount, intType)
}

// Any appends a node reporting whether there is at least one element.
func (e *Expression) Any() *Expression {
	return e.call(NodeAny, boolType)
}

// Kind returns the node kind.
func (e *Expression) Kind() NodeKind { return e.kind }

// Parent returns the node the call applies to, nil for a Source node.
func (e *Expression) Parent() *Expression { return e.parent }

// ElementType is the element type of the yielded sequence, or the result
// type of a scalar node. It is nil when the node was built without one.
func (e *Expression) ElementType() reflect.Type { return e.elem }

// IsCall reports whether the node is an operation applied to a parent.
func (e *Expression) IsCall() bool { return e.kind != NodeSource }

// String renders the chain, e.g. "Source[sample.Record].Where().Select(sample.RecordDTO)".
func (e *Expression) String() string {
	var nodes []*Expression
	for n := e; n != nil; n = n.parent {
		nodes = append(nodes, n)
	}

	var sb strings.Builder

	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]

		switch n.kind {
		case NodeSource:
			fmt.Fprintf(&sb, "Source[%s]", typeName(n.elem))
		case NodeSelect:
			fmt.Fprintf(&sb, ".Select(%s)", typeName(n.elem))
		case NodeSkip, NodeTake:
			fmt.Fprintf(&sb, ".%s(%d)", n.kind, n.n)
		default:
			fmt.Fprintf(&sb, ".%s()", n.kind)
		}
	}

	return sb.String()
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "?"
	}

	return t.String()
}
