package mapper

import (
	"errors"
	"fmt"
	"reflect"

	"caster-projection/query"
)

var errNilSource = errors.New("cannot map a nil value")

// Map maps src to a new D with the map configured for S -> D.
func Map[D, S any](c *Configuration, src S) (D, error) {
	var zero D

	out, err := c.mapValue(reflect.ValueOf(&src).Elem(), reflect.TypeFor[D]())
	if err != nil {
		return zero, err
	}

	return out.Interface().(D), nil
}

// MapValue maps src to a new value of type dst. Pointer sources are
// dereferenced and pointer destinations allocated when only the map between
// the element types exists.
func (c *Configuration) MapValue(src any, dst reflect.Type) (any, error) {
	v := reflect.ValueOf(src)
	if !v.IsValid() {
		return nil, fmt.Errorf("%w to %s", errNilSource, dst)
	}

	out, err := c.mapValue(v, dst)
	if err != nil {
		return nil, err
	}

	return out.Interface(), nil
}

func (c *Configuration) mapValue(v reflect.Value, dst reflect.Type) (reflect.Value, error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w to %s", errNilSource, dst)
		}

		v = v.Elem()
	}

	if tm := c.lookup(v.Type(), dst); tm != nil {
		return tm.apply(v)
	}

	switch {
	case v.Kind() == reflect.Ptr:
		if v.IsNil() {
			return reflect.Zero(dst), nil
		}

		return c.mapValue(v.Elem(), dst)

	case dst.Kind() == reflect.Ptr:
		out, err := c.mapValue(v, dst.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		ptr := reflect.New(dst.Elem())
		ptr.Elem().Set(out)

		return ptr, nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %s -> %s", ErrNotConfigured, v.Type(), dst)
}

// ProjectTo appends a projection of every element of q through the map
// configured for S -> D. Pointer elements use the map of their element type
// when S -> D itself is not configured; nil elements project to the zero D.
// The query is created by the provider of q.
func ProjectTo[D, S any](q query.Queryable[S], c *Configuration) (query.Queryable[D], error) {
	srcType, dstType := reflect.TypeFor[S](), reflect.TypeFor[D]()

	tm, deref := c.lookup(srcType, dstType), false
	if tm == nil && srcType.Kind() == reflect.Ptr {
		tm, deref = c.lookup(srcType.Elem(), dstType), true
	}

	if tm == nil {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNotConfigured, srcType, dstType)
	}

	zero := reflect.Zero(dstType).Interface()

	expr := q.Expression().Select(dstType, func(v any) (any, error) {
		rv := reflect.ValueOf(v)

		if deref {
			if !rv.IsValid() || rv.IsNil() {
				return zero, nil
			}

			rv = rv.Elem()
		}

		out, err := tm.apply(rv)
		if err != nil {
			return nil, err
		}

		return out.Interface(), nil
	})

	created, err := q.Provider().CreateQuery(expr)
	if err != nil {
		return nil, fmt.Errorf("project to %s: %w", dstType, err)
	}

	return query.AsQueryable[D](created)
}
