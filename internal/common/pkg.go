package common

import (
	"path"
	"reflect"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// ShortTypeName renders t as "alias.Name" for named types and falls back to
// t.String() for unnamed ones.
func ShortTypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}

	return PkgAlias(t.PkgPath()) + "." + t.Name()
}
