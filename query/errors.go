package query

import "errors"

var (
	// ErrMalformedExpression is returned when a call node cannot produce a query.
	ErrMalformedExpression = errors.New("malformed query expression")
	// ErrNoElements is returned by First on an empty sequence.
	ErrNoElements = errors.New("sequence contains no elements")
	// ErrNotAsync is returned when a query or provider has no asynchronous support.
	ErrNotAsync = errors.New("query provider does not support asynchronous operations")
	// ErrElementType is returned when a query yields elements of another type.
	ErrElementType = errors.New("unexpected query element type")
	// ErrOutOfRange is returned by Iterator.Value when the iterator is not positioned on an element.
	ErrOutOfRange = errors.New("iterator out of range")
	// ErrClosed is returned when using a closed iterator or enumerator.
	ErrClosed = errors.New("iterator is closed")
)
