package plan

import (
	"caster-projection/internal/analyze"
	"caster-projection/internal/common"
	"caster-projection/internal/diagnostic"
	"caster-projection/internal/mapping"
	"caster-projection/internal/match"
)

// ResolvedMappingPlan is the output of resolving every pair of a mapping file.
type ResolvedMappingPlan struct {
	// TypePairs is the list of resolved type pair mappings.
	TypePairs []*ResolvedTypePair
	// Diagnostics contains all warnings and errors from resolution.
	Diagnostics diagnostic.Diagnostics
}

// ResolvedTypePair represents a fully resolved mapping between two struct types.
type ResolvedTypePair struct {
	// Source type being converted from.
	SourceType *analyze.TypeInfo
	// Target type being converted to.
	TargetType *analyze.TypeInfo
	// Mappings is the list of resolved field mappings.
	Mappings []ResolvedFieldMapping
	// UnmappedTargets are target fields that could not be mapped.
	UnmappedTargets []UnmappedField
	// NestedPairs tracks nested struct conversions needed.
	NestedPairs []NestedConversion
}

// Key identifies the pair as "source->target".
func (p *ResolvedTypePair) Key() string {
	return PairKey(p.SourceType, p.TargetType)
}

// PairKey builds the cache key of a type pair.
func PairKey(source, target *analyze.TypeInfo) string {
	return source.ID.String() + "->" + target.ID.String()
}

// Nested returns the resolved nested pair for source->target, or nil.
func (p *ResolvedTypePair) Nested(source, target *analyze.TypeInfo) *ResolvedTypePair {
	key := PairKey(source, target)
	if key == p.Key() {
		return p
	}

	for i := range p.NestedPairs {
		if nc := &p.NestedPairs[i]; PairKey(nc.SourceType, nc.TargetType) == key {
			return nc.ResolvedPair
		}
	}

	return nil
}

// ResolvedFieldMapping represents a single resolved field mapping.
type ResolvedFieldMapping struct {
	// Target field(s) to populate.
	TargetPaths []mapping.FieldPath
	// Source field(s) to read from.
	SourcePaths []mapping.FieldPath
	// Source specifies the origin of this mapping rule.
	Source MappingSource
	// Cardinality of the mapping (1:1, 1:N, N:1, N:M).
	Cardinality mapping.Cardinality
	// Strategy describes how the conversion should be performed.
	Strategy ConversionStrategy
	// Transform is the name of the transform function (if needed).
	Transform string
	// Default value to use if source is empty.
	Default *string
	// Confidence score for auto-matched mappings (0-1).
	Confidence float64
	// Explanation describes why this mapping was chosen.
	Explanation string
}

// MappingSource indicates where a mapping rule originated.
type MappingSource int

const (
	// MappingSourceYAML121 - from 121 shorthand (highest priority).
	MappingSourceYAML121 MappingSource = iota
	// MappingSourceYAMLFields - from explicit fields.
	MappingSourceYAMLFields
	// MappingSourceYAMLIgnore - from the ignore list.
	MappingSourceYAMLIgnore
	// MappingSourceYAMLAuto - from the auto section.
	MappingSourceYAMLAuto
	// MappingSourceAutoMatched - auto-matched by best-effort algorithm.
	MappingSourceAutoMatched
)

// String returns a human-readable source name.
func (s MappingSource) String() string {
	switch s {
	case MappingSourceYAML121:
		return "yaml:121"
	case MappingSourceYAMLFields:
		return "yaml:fields"
	case MappingSourceYAMLIgnore:
		return "yaml:ignore"
	case MappingSourceYAMLAuto:
		return "yaml:auto"
	case MappingSourceAutoMatched:
		return "auto"
	default:
		return common.UnknownStr
	}
}

// ConversionStrategy describes how to perform the field conversion.
type ConversionStrategy int

const (
	// StrategyDirectAssign - direct assignment (identical or assignable types).
	StrategyDirectAssign ConversionStrategy = iota
	// StrategyConvert - Go conversion or a scalar conversion from the allowed categories.
	StrategyConvert
	// StrategyPointerDeref - dereference pointer, nil leaves the zero value.
	StrategyPointerDeref
	// StrategyPointerWrap - take address to create pointer.
	StrategyPointerWrap
	// StrategySliceMap - map over slice or array elements.
	StrategySliceMap
	// StrategyPointerNestedCast - convert the pointed-to value, nil stays nil.
	StrategyPointerNestedCast
	// StrategyNestedCast - map a nested struct with its own resolved pair.
	StrategyNestedCast
	// StrategyTransform - call a registered transform function.
	StrategyTransform
	// StrategyDefault - set default value.
	StrategyDefault
	// StrategyIgnore - explicitly ignored field.
	StrategyIgnore
)

// String returns a human-readable strategy name.
func (s ConversionStrategy) String() string {
	switch s {
	case StrategyDirectAssign:
		return "direct_assign"
	case StrategyConvert:
		return "convert"
	case StrategyPointerDeref:
		return "pointer_deref"
	case StrategyPointerWrap:
		return "pointer_wrap"
	case StrategySliceMap:
		return "slice_map"
	case StrategyPointerNestedCast:
		return "pointer_nested_cast"
	case StrategyNestedCast:
		return "nested_cast"
	case StrategyTransform:
		return "transform"
	case StrategyDefault:
		return "default"
	case StrategyIgnore:
		return "ignore"
	default:
		return common.UnknownStr
	}
}

// UnmappedField represents a target field that couldn't be mapped.
type UnmappedField struct {
	// TargetField is the unmapped field.
	TargetField *analyze.FieldInfo
	// TargetPath is the full path to the field.
	TargetPath mapping.FieldPath
	// Candidates are the ranked potential matches (for suggestions).
	Candidates match.CandidateList
	// Reason explains why it wasn't mapped.
	Reason string
}

// NestedConversion tracks a required nested struct conversion.
type NestedConversion struct {
	// SourceType is the nested source struct type.
	SourceType *analyze.TypeInfo
	// TargetType is the nested target struct type.
	TargetType *analyze.TypeInfo
	// ReferencedBy tracks which field mappings need this conversion.
	ReferencedBy []mapping.FieldPath
	// IsSliceElement indicates this conversion is for slice elements.
	IsSliceElement bool
	// ResolvedPair contains the recursively resolved mapping for this pair.
	// Nil if the recursion limit was reached.
	ResolvedPair *ResolvedTypePair
}

// IncompleteMappingInfo describes a mapping that has no way to produce a value.
type IncompleteMappingInfo struct {
	TypePair    string
	SourcePath  string
	TargetPath  string
	Source      MappingSource
	Explanation string
}

// FindIncompleteMappings returns mappings with StrategyTransform but no
// transform name, across the pair and all nested pairs.
func (p *ResolvedTypePair) FindIncompleteMappings() []IncompleteMappingInfo {
	var incomplete []IncompleteMappingInfo

	p.Walk(func(tp *ResolvedTypePair) {
		for _, m := range tp.Mappings {
			if m.Strategy != StrategyTransform || m.Transform != "" {
				continue
			}

			info := IncompleteMappingInfo{
				TypePair:    tp.Key(),
				Explanation: m.Explanation,
				Source:      m.Source,
			}

			if len(m.SourcePaths) > 0 {
				info.SourcePath = m.SourcePaths[0].String()
			}

			if len(m.TargetPaths) > 0 {
				info.TargetPath = m.TargetPaths[0].String()
			}

			incomplete = append(incomplete, info)
		}
	})

	return incomplete
}

// HasIncompleteMappings returns true if any mapping cannot produce a value.
func (p *ResolvedTypePair) HasIncompleteMappings() bool {
	return len(p.FindIncompleteMappings()) > 0
}

// Walk calls fn for the pair and every nested pair once.
func (p *ResolvedTypePair) Walk(fn func(*ResolvedTypePair)) {
	seen := make(map[*ResolvedTypePair]bool)

	var visit func(*ResolvedTypePair)
	visit = func(tp *ResolvedTypePair) {
		if tp == nil || seen[tp] {
			return
		}

		seen[tp] = true
		fn(tp)

		for i := range tp.NestedPairs {
			visit(tp.NestedPairs[i].ResolvedPair)
		}
	}

	visit(p)
}
