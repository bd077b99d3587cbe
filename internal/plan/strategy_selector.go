package plan

import (
	"fmt"

	"caster-projection/internal/analyze"
	"caster-projection/internal/mapping"
	"caster-projection/internal/match"
	"caster-projection/primitive"
)

// Strategy explanation constants.
const (
	explSliceMap          = "slice map"
	explNestedStruct      = "nested struct"
	explPointerNestedCast = "pointer nested cast"
	explPointerDeref      = "pointer deref"
	explPointerWrap       = "pointer wrap"
	explNeedsTransform    = "needs transform"
)

// StrategyFor chooses how a value of source type becomes a value of target
// type. StrategyTransform means no built-in conversion exists.
func (r *Resolver) StrategyFor(source, target *analyze.TypeInfo) (ConversionStrategy, string) {
	if source == nil || target == nil {
		return StrategyTransform, "type info unavailable"
	}

	compat := match.ScoreTypeCompatibility(source.Type, target.Type)

	switch compat.Compatibility {
	case match.TypeIdentical:
		return StrategyDirectAssign, match.VerdictIdentical
	case match.TypeAssignable:
		return StrategyDirectAssign, match.VerdictAssignable
	case match.TypeConvertible:
		return StrategyConvert, match.VerdictConvertible
	default:
		return r.structuralStrategy(source, target)
	}
}

// structuralStrategy handles pairs that need more than a Go conversion.
func (r *Resolver) structuralStrategy(source, target *analyze.TypeInfo) (ConversionStrategy, string) {
	srcPtr := source.Kind == analyze.TypeKindPointer
	dstPtr := target.Kind == analyze.TypeKindPointer

	switch {
	case srcPtr && dstPtr:
		if r.convertible(source.ElemType, target.ElemType) {
			return StrategyPointerNestedCast, explPointerNestedCast
		}

	case srcPtr:
		if r.convertible(source.ElemType, target) {
			return StrategyPointerDeref, explPointerDeref
		}

	case dstPtr:
		if r.convertible(source, target.ElemType) {
			return StrategyPointerWrap, explPointerWrap
		}

	case isList(source) && isList(target):
		if r.convertible(source.ElemType, target.ElemType) {
			return StrategySliceMap, explSliceMap
		}

	case source.Kind == analyze.TypeKindStruct && target.Kind == analyze.TypeKindStruct:
		return StrategyNestedCast, explNestedStruct

	default:
		if category := r.scalarCategory(source, target); category != primitive.CategoryNone {
			return StrategyConvert, fmt.Sprintf("scalar conversion (%s)", category)
		}
	}

	return StrategyTransform, explNeedsTransform
}

func (r *Resolver) convertible(source, target *analyze.TypeInfo) bool {
	strategy, _ := r.StrategyFor(source, target)

	return strategy != StrategyTransform
}

// scalarCategory returns the allowed category converting source to target,
// or CategoryNone.
func (r *Resolver) scalarCategory(source, target *analyze.TypeInfo) primitive.CategoryEnum {
	from := primitive.FromReflectType(source.Type)
	to := primitive.FromReflectType(target.Type)

	if from == 0 || to == 0 {
		return primitive.CategoryNone
	}

	return primitive.CategoryOf(primitive.ConversionPair{From: from, To: to}, r.config.Categories)
}

func isList(t *analyze.TypeInfo) bool {
	return t.Kind == analyze.TypeKindSlice || t.Kind == analyze.TypeKindArray
}

// fieldStrategy determines the strategy between two field paths.
func (r *Resolver) fieldStrategy(
	sourcePath, targetPath mapping.FieldPath,
	sourceType, targetType *analyze.TypeInfo,
) (ConversionStrategy, string) {
	sourceFieldType, err := mapping.ResolvePath(sourcePath.String(), sourceType)
	if err != nil {
		return StrategyTransform, err.Error()
	}

	targetFieldType, err := mapping.ResolvePath(targetPath.String(), targetType)
	if err != nil {
		return StrategyTransform, err.Error()
	}

	return r.StrategyFor(sourceFieldType, targetFieldType)
}
