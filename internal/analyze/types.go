package analyze

import (
	"reflect"
	"strings"

	"caster-projection/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "caster-projection/internal/sample"
	Name    string // e.g., "Record"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeIDOf returns the TypeID of a reflect type. Unnamed types use their
// literal representation as name and an empty package path.
func TypeIDOf(t reflect.Type) TypeID {
	if t.Name() == "" {
		return TypeID{Name: t.String()}
	}

	return TypeID{PkgPath: t.PkgPath(), Name: t.Name()}
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown  TypeKind = iota
	TypeKindBasic             // int, string, bool, etc.
	TypeKindStruct            // struct type
	TypeKindPointer           // pointer to another type
	TypeKindSlice             // slice of another type
	TypeKindArray             // array of another type
	TypeKindMap               // map type
	TypeKindExternal          // external/opaque type (e.g., time.Time, interfaces, funcs)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID       TypeID       // Unique identifier
	Kind     TypeKind     // Kind of type
	ElemType *TypeInfo    // For pointers, slices, arrays and maps, the element type
	KeyType  *TypeInfo    // For maps, the key type
	Fields   []FieldInfo  // For structs, the list of fields
	Type     reflect.Type // The inspected reflect type
}

// IsNamed returns true if this type has a package-qualified name.
func (t *TypeInfo) IsNamed() bool {
	return t.ID.PkgPath != ""
}

// Field returns the field with the given name, or nil.
func (t *TypeInfo) Field(name string) *FieldInfo {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}

	return nil
}

// Deref follows pointer element types down to the first non-pointer type.
func (t *TypeInfo) Deref() *TypeInfo {
	for t != nil && t.Kind == TypeKindPointer {
		t = t.ElemType
	}

	return t
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    []int             // Index path usable with reflect.Value.FieldByIndex
}

// JSONName returns the JSON tag name if present, otherwise the field name.
func (f *FieldInfo) JSONName() string {
	if tag := f.Tag.Get("json"); tag != "" && tag != "-" {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}

	return f.Name
}

// HasTag returns true if the field has the specified tag.
func (f *FieldInfo) HasTag(key string) bool {
	return f.Tag.Get(key) != ""
}

// GetTag returns the value of the specified tag.
func (f *FieldInfo) GetTag(key string) string {
	return f.Tag.Get(key)
}
