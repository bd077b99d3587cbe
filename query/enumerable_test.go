package query

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtures = []item{{3, "c"}, {1, "a"}, {2, "b"}, {4, "d"}}

func TestEnumerableQuery_Execute(t *testing.T) {
	source := SourceOf(fixtures)
	q := NewEnumerableQuery(source)

	assert.Same(t, q, q.Provider())
	assert.Equal(t, reflect.TypeFor[item](), q.ElementType())

	chain := source.
		Where(func(v any) (bool, error) { return v.(item).ID != 4, nil }).
		OrderBy(func(a, b any) (bool, error) { return a.(item).ID < b.(item).ID, nil }).
		Skip(1).
		Take(5).
		Select(reflect.TypeFor[string](), func(v any) (any, error) { return v.(item).Name, nil })

	v, err := q.Execute(chain)
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "c"}, v)

	first, err := q.Execute(chain.First())
	require.NoError(t, err)
	assert.Equal(t, "b", first)

	count, err := q.Execute(chain.Count())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	anyLeft, err := q.Execute(chain.Take(0).Any())
	require.NoError(t, err)
	assert.Equal(t, false, anyLeft)

	// the source is never reordered or filtered in place
	assert.Equal(t, []any{fixtures[0], fixtures[1], fixtures[2], fixtures[3]}, source.items)
}

func TestEnumerableQuery_Empty(t *testing.T) {
	source := SourceOf(fixtures).Where(func(any) (bool, error) { return false, nil })
	q := NewEnumerableQuery(source)

	_, err := q.Execute(source.First())
	require.ErrorIs(t, err, ErrNoElements)

	v, err := q.Execute(source.FirstOrDefault())
	require.NoError(t, err)
	assert.Equal(t, item{}, v)

	v, err = q.Execute(source.Skip(10))
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestEnumerableQuery_Errors(t *testing.T) {
	boom := errors.New("boom")
	source := SourceOf(fixtures)
	q := NewEnumerableQuery(source)

	_, err := q.Execute(source.Where(func(any) (bool, error) { return false, boom }))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "where: ")

	_, err = q.Execute(source.Select(reflect.TypeFor[int](), func(any) (any, error) { return nil, boom }))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "select: ")

	_, err = q.Execute(source.OrderBy(func(any, any) (bool, error) { return false, boom }))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "order by: ")

	_, err = q.Execute(nil)
	require.ErrorIs(t, err, ErrMalformedExpression)

	_, err = q.Execute(source.Count().First())
	require.ErrorIs(t, err, ErrMalformedExpression)

	_, err = q.CreateQuery(nil)
	require.ErrorIs(t, err, ErrMalformedExpression)

	created, err := q.CreateQuery(source.Take(1))
	require.NoError(t, err)
	assert.Equal(t, NodeTake, created.Expression().Kind())
}
