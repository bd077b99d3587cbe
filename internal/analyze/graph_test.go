package analyze_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster-projection/internal/analyze"
)

type audit struct {
	CreatedBy string
	CreatedAt time.Time
}

type node struct {
	audit

	ID       int    `json:"id"`
	Label    string `json:"label,omitempty"`
	Next     *node
	Children []node
	Attrs    map[string]string
	hidden   bool
}

func TestTypeGraph_Struct(t *testing.T) {
	g := analyze.NewTypeGraph()

	info, err := g.Struct(reflect.TypeOf(node{}))
	require.NoError(t, err)

	assert.Equal(t, analyze.TypeKindStruct, info.Kind)
	assert.Equal(t, "node", info.ID.Name)
	assert.True(t, info.IsNamed())

	names := make([]string, 0, len(info.Fields))
	for _, f := range info.Fields {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"ID", "Label", "Next", "Children", "Attrs", "CreatedBy", "CreatedAt"}, names)

	createdAt := info.Field("CreatedAt")
	require.NotNil(t, createdAt)
	assert.True(t, createdAt.Embedded)
	assert.Equal(t, []int{0, 1}, createdAt.Index)
	assert.Equal(t, analyze.TypeKindBasic, createdAt.Type.Kind)

	assert.Nil(t, info.Field("hidden"))
}

func TestTypeGraph_Recursive(t *testing.T) {
	g := analyze.NewTypeGraph()
	info := g.Inspect(reflect.TypeOf(node{}))

	next := info.Field("Next")
	require.NotNil(t, next)
	assert.Equal(t, analyze.TypeKindPointer, next.Type.Kind)
	assert.Same(t, info, next.Type.ElemType)
	assert.Same(t, info, next.Type.Deref())

	children := info.Field("Children")
	require.NotNil(t, children)
	assert.Equal(t, analyze.TypeKindSlice, children.Type.Kind)
	assert.Same(t, info, children.Type.ElemType)

	attrs := info.Field("Attrs")
	require.NotNil(t, attrs)
	assert.Equal(t, analyze.TypeKindMap, attrs.Type.Kind)
	assert.Equal(t, analyze.TypeKindBasic, attrs.Type.KeyType.Kind)

	assert.Same(t, info, g.GetType(info.ID))
}

func TestTypeGraph_NotAStruct(t *testing.T) {
	g := analyze.NewTypeGraph()

	_, err := g.Struct(reflect.TypeOf(0))
	require.ErrorIs(t, err, analyze.ErrNotAStruct)

	_, err = g.Struct(reflect.TypeOf(time.Time{}))
	require.ErrorIs(t, err, analyze.ErrNotAStruct)

	fn := g.Inspect(reflect.TypeOf(func() {}))
	assert.Equal(t, analyze.TypeKindExternal, fn.Kind)
	assert.False(t, fn.IsNamed())
}

func TestFieldInfo_Tags(t *testing.T) {
	info := analyze.NewTypeGraph().Inspect(reflect.TypeOf(node{}))

	label := info.Field("Label")
	require.NotNil(t, label)
	assert.Equal(t, "label", label.JSONName())
	assert.True(t, label.HasTag("json"))
	assert.Equal(t, "label,omitempty", label.GetTag("json"))

	next := info.Field("Next")
	assert.Equal(t, "Next", next.JSONName())
	assert.False(t, next.HasTag("json"))
}

func TestTypeIDOf(t *testing.T) {
	assert.Equal(t, "time.Time", analyze.TypeIDOf(reflect.TypeOf(time.Time{})).String())
	assert.Equal(t, "[]string", analyze.TypeIDOf(reflect.TypeOf([]string{})).String())
	assert.Equal(t, "int", analyze.TypeIDOf(reflect.TypeOf(0)).String())
}
