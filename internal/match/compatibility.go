package match

import (
	"reflect"

	"caster-projection/internal/common"
	"caster-projection/primitive"
)

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means the types cannot be converted.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means conversion requires pointer handling, an
	// element-wise or nested mapping, a scalar conversion or a custom transform.
	TypeNeedsTransform
	// TypeConvertible means a Go conversion T(v) is valid and meaningful.
	TypeConvertible
	// TypeAssignable means the source can be directly assigned to the target.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return common.UnknownStr
	}
}

// typeScore normalizes the level to [0, 1] for candidate ranking.
func (c TypeCompatibility) typeScore() float64 {
	switch c {
	case TypeIdentical:
		return 1.0
	case TypeAssignable:
		return 0.9
	case TypeConvertible:
		return 0.7
	case TypeNeedsTransform:
		return 0.4
	default:
		return 0
	}
}

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string // Human-readable explanation
	SourceType    string
	TargetType    string
}

func result(c TypeCompatibility, reason string, source, target reflect.Type) TypeCompatibilityResult {
	return TypeCompatibilityResult{
		Compatibility: c,
		Reason:        reason,
		SourceType:    common.ShortTypeName(source),
		TargetType:    common.ShortTypeName(target),
	}
}

// ScoreTypeCompatibility determines the compatibility between a source and
// target type, including pointer lifting and dereferencing.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	if source == nil || target == nil {
		return result(TypeIncompatible, "type information unavailable", source, target)
	}

	switch {
	case source == target:
		return result(TypeIdentical, "types are identical", source, target)
	case source.AssignableTo(target):
		return result(TypeAssignable, "source is assignable to target", source, target)
	case isConvertible(source, target):
		return result(TypeConvertible, "source is convertible to target", source, target)
	}

	if reason := needsTransform(source, target); reason != "" {
		return result(TypeNeedsTransform, reason, source, target)
	}

	return result(TypeIncompatible, "types are not compatible", source, target)
}

// isConvertible excludes conversions that compile but lose meaning, such as
// int -> string producing a rune.
func isConvertible(source, target reflect.Type) bool {
	if !source.ConvertibleTo(target) {
		return false
	}

	if target.Kind() == reflect.String && source.Kind() != reflect.String {
		return false
	}

	if source.Kind() == reflect.String && target.Kind() != reflect.String {
		return false
	}

	return true
}

func needsTransform(source, target reflect.Type) string {
	sourceIsPtr := source.Kind() == reflect.Ptr
	targetIsPtr := target.Kind() == reflect.Ptr

	switch {
	case sourceIsPtr && targetIsPtr:
		if ScoreTypeCompatibility(source.Elem(), target.Elem()).Compatibility >= TypeNeedsTransform {
			return "requires pointer element mapping"
		}
	case sourceIsPtr:
		if ScoreTypeCompatibility(source.Elem(), target).Compatibility >= TypeNeedsTransform {
			return "requires pointer dereference"
		}
	case targetIsPtr:
		if ScoreTypeCompatibility(source, target.Elem()).Compatibility >= TypeNeedsTransform {
			return "requires taking address"
		}
	}

	if isList(source) && isList(target) &&
		ScoreTypeCompatibility(source.Elem(), target.Elem()).Compatibility >= TypeNeedsTransform {
		return "requires element-wise mapping"
	}

	if source.Kind() == reflect.Struct && target.Kind() == reflect.Struct {
		return "requires nested struct mapping"
	}

	if isScalar(source) && isScalar(target) {
		return "requires scalar conversion"
	}

	return ""
}

func isList(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

// isScalar reports basic kinds and the struct-backed primitives such as time.Time.
func isScalar(t reflect.Type) bool {
	if primitive.FromReflectType(t) != 0 {
		return true
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// IsNumericType returns true if the type is a numeric kind.
func IsNumericType(t reflect.Type) bool {
	return isScalar(t) && t.Kind() != reflect.Bool && t.Kind() != reflect.String
}

// IsStringType returns true if the type's kind is string.
func IsStringType(t reflect.Type) bool {
	return t.Kind() == reflect.String
}
