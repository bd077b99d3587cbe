package mapping

import (
	"reflect"
	"strings"

	"caster-projection/internal/analyze"
)

// basicTypes maps builtin type names usable in transform definitions.
var basicTypes = map[string]reflect.Type{
	"bool":    reflect.TypeFor[bool](),
	"string":  reflect.TypeFor[string](),
	"int":     reflect.TypeFor[int](),
	"int8":    reflect.TypeFor[int8](),
	"int16":   reflect.TypeFor[int16](),
	"int32":   reflect.TypeFor[int32](),
	"int64":   reflect.TypeFor[int64](),
	"uint":    reflect.TypeFor[uint](),
	"uint8":   reflect.TypeFor[uint8](),
	"uint16":  reflect.TypeFor[uint16](),
	"uint32":  reflect.TypeFor[uint32](),
	"uint64":  reflect.TypeFor[uint64](),
	"byte":    reflect.TypeFor[byte](),
	"rune":    reflect.TypeFor[rune](),
	"float32": reflect.TypeFor[float32](),
	"float64": reflect.TypeFor[float64](),
}

// IsBasicTypeName returns true if the name refers to a Go basic type.
func IsBasicTypeName(name string) bool {
	_, ok := basicTypes[name]

	return ok
}

// ResolveTypeID resolves a type ID string against the types inspected so far:
//   - "sample.Record" (short)
//   - "caster-projection/internal/sample.Record" (full)
//   - "Record" (name only).
func ResolveTypeID(typeIDStr string, graph *analyze.TypeGraph) *analyze.TypeInfo {
	if graph == nil || typeIDStr == "" {
		return nil
	}

	if t, ok := basicTypes[typeIDStr]; ok {
		return graph.Inspect(t)
	}

	pkg, name := splitTypeID(typeIDStr)
	if name == "" {
		return nil
	}

	if t := graph.GetType(analyze.TypeID{PkgPath: pkg, Name: name}); t != nil {
		return t
	}

	for _, t := range graph.Types() {
		if typeIDMatches(typeIDStr, t.ID.String()) {
			return t
		}
	}

	return nil
}

// TypeNameMatches reports whether a written type ID refers to t.
func TypeNameMatches(typeIDStr string, t reflect.Type) bool {
	if basic, ok := basicTypes[typeIDStr]; ok {
		return basic == t
	}

	return typeIDMatches(typeIDStr, analyze.TypeIDOf(t).String())
}

func splitTypeID(s string) (pkg, name string) {
	lastDot := strings.LastIndex(s, ".")
	if lastDot < 0 {
		return "", s
	}

	return s[:lastDot], s[lastDot+1:]
}

// typeIDMatches compares two written type IDs where either side may use the
// short package form or omit the package.
func typeIDMatches(a, b string) bool {
	if a == b {
		return true
	}

	pkgA, nameA := splitTypeID(a)
	pkgB, nameB := splitTypeID(b)

	if nameA != nameB || nameA == "" {
		return false
	}

	switch {
	case pkgA == "" || pkgB == "":
		return true
	case pkgA == pkgB:
		return true
	default:
		return strings.HasSuffix(pkgA, "/"+pkgB) || strings.HasSuffix(pkgB, "/"+pkgA)
	}
}
