package query

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	ID   int
	Name string
}

func TestExpression_Chain(t *testing.T) {
	source := SourceOf([]item{{1, "a"}})
	assert.Equal(t, NodeSource, source.Kind())
	assert.False(t, source.IsCall())
	assert.Nil(t, source.Parent())
	assert.Equal(t, reflect.TypeFor[item](), source.ElementType())

	where := source.Where(func(any) (bool, error) { return true, nil })
	assert.True(t, where.IsCall())
	assert.Same(t, source, where.Parent())
	assert.Equal(t, source.ElementType(), where.ElementType())

	selected := where.Select(reflect.TypeFor[string](), func(v any) (any, error) { return v.(item).Name, nil })
	assert.Equal(t, reflect.TypeFor[string](), selected.ElementType())

	assert.Equal(t, reflect.TypeFor[int](), selected.Count().ElementType())
	assert.Equal(t, reflect.TypeFor[bool](), selected.Any().ElementType())
	assert.Equal(t, reflect.TypeFor[string](), selected.First().ElementType())

	assert.Equal(t, "Source[query.item].Where().Select(string).Take(2).First()", selected.Take(2).First().String())
	assert.Equal(t, "Source[?].Select(?)", NewSource(nil, nil).Select(nil, nil).String())
}

func TestNodeKind(t *testing.T) {
	assert.Equal(t, "FirstOrDefault", NodeFirstOrDefault.String())
	assert.Equal(t, "NodeKind(42)", NodeKind(42).String())
	assert.True(t, NodeCount.IsScalar())
	assert.False(t, NodeOrderBy.IsScalar())
}
