package analyze

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"caster-projection/primitive"
)

var ErrNotAStruct = errors.New("type is not a struct")

// TypeGraph caches TypeInfo values by reflect type. It is safe for
// concurrent use.
type TypeGraph struct {
	mu    sync.Mutex
	types map[reflect.Type]*TypeInfo
	byID  map[TypeID]*TypeInfo
}

// NewTypeGraph creates an empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		types: make(map[reflect.Type]*TypeInfo),
		byID:  make(map[TypeID]*TypeInfo),
	}
}

// Inspect returns the TypeInfo for t, analyzing it on first use.
func (g *TypeGraph) Inspect(t reflect.Type) *TypeInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.analyzeType(t)
}

// Struct inspects t and checks that it is a struct.
func (g *TypeGraph) Struct(t reflect.Type) (*TypeInfo, error) {
	info := g.Inspect(t)
	if info.Kind != TypeKindStruct {
		return nil, fmt.Errorf("%w: %s (kind: %s)", ErrNotAStruct, info.ID, info.Kind)
	}

	return info, nil
}

// GetType returns a previously inspected type by its ID, or nil.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.byID[id]
}

// analyzeType recursively analyzes t. Callers hold g.mu.
func (g *TypeGraph) analyzeType(t reflect.Type) *TypeInfo {
	if cached, ok := g.types[t]; ok {
		return cached
	}

	info := &TypeInfo{
		ID:   TypeIDOf(t),
		Type: t,
	}

	// registered before descending so recursive types terminate
	g.types[t] = info
	if info.IsNamed() {
		g.byID[info.ID] = info
	}

	if primitive.FromReflectType(t) != 0 {
		info.Kind = TypeKindBasic

		return info
	}

	switch t.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128, reflect.String:
		info.Kind = TypeKindBasic

	case reflect.Ptr:
		info.Kind = TypeKindPointer
		info.ElemType = g.analyzeType(t.Elem())

	case reflect.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = g.analyzeType(t.Elem())

	case reflect.Array:
		info.Kind = TypeKindArray
		info.ElemType = g.analyzeType(t.Elem())

	case reflect.Map:
		info.Kind = TypeKindMap
		info.KeyType = g.analyzeType(t.Key())
		info.ElemType = g.analyzeType(t.Elem())

	case reflect.Struct:
		info.Kind = TypeKindStruct
		g.analyzeStructFields(t, info)

	default:
		// interfaces, funcs and channels are opaque
		info.Kind = TypeKindExternal
	}

	return info
}

// analyzeStructFields extracts exported fields. Fields promoted from embedded
// structs are flattened after the direct fields, skipping names the outer
// struct already declares.
func (g *TypeGraph) analyzeStructFields(t reflect.Type, info *TypeInfo) {
	seen := make(map[string]bool)

	var embedded []reflect.StructField

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct && primitive.FromReflectType(field.Type) == 0 {
			embedded = append(embedded, field)

			continue
		}

		if !field.IsExported() {
			continue
		}

		seen[field.Name] = true
		info.Fields = append(info.Fields, FieldInfo{
			Name:     field.Name,
			Exported: true,
			Type:     g.analyzeType(field.Type),
			Tag:      field.Tag,
			Embedded: field.Anonymous,
			Index:    field.Index,
		})
	}

	for _, emb := range embedded {
		for i := range emb.Type.NumField() {
			inner := emb.Type.Field(i)
			if !inner.IsExported() || inner.Anonymous || seen[inner.Name] {
				continue
			}

			seen[inner.Name] = true
			info.Fields = append(info.Fields, FieldInfo{
				Name:     inner.Name,
				Exported: true,
				Type:     g.analyzeType(inner.Type),
				Tag:      inner.Tag,
				Embedded: true,
				Index:    append([]int{emb.Index[0]}, inner.Index...),
			})
		}
	}
}

// Types returns every named type inspected so far, ordered by TypeID.
func (g *TypeGraph) Types() []*TypeInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]*TypeInfo, 0, len(g.byID))
	for _, info := range g.byID {
		out = append(out, info)
	}

	slices.SortFunc(out, func(a, b *TypeInfo) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	return out
}
