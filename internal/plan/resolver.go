package plan

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"caster-projection/internal/analyze"
	"caster-projection/internal/diagnostic"
	"caster-projection/internal/mapping"
	"caster-projection/internal/match"
	"caster-projection/primitive"
)

var ErrStrict = errors.New("strict mode: resolution failed with errors")

// ResolutionConfig holds configuration for the resolution process.
type ResolutionConfig struct {
	// MinConfidence is the minimum score for auto-accepting a match.
	MinConfidence float64
	// MinGap is the minimum score gap between top candidates for auto-accept.
	MinGap float64
	// AmbiguityThreshold marks pairs as ambiguous if within this difference.
	AmbiguityThreshold float64
	// StrictMode reports unresolved target fields as errors instead of warnings.
	StrictMode bool
	// MaxCandidates is the maximum number of candidates to include in suggestions.
	MaxCandidates int
	// MaxRecursionDepth limits nested pair resolution (0 = unlimited).
	MaxRecursionDepth int
	// Categories are the scalar conversions allowed without a transform.
	Categories primitive.CategoryEnum
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() ResolutionConfig {
	return ResolutionConfig{
		MinConfidence:      match.DefaultMinScore,
		MinGap:             match.DefaultMinGap,
		AmbiguityThreshold: match.DefaultAmbiguityThreshold,
		MaxCandidates:      5,
		MaxRecursionDepth:  10,
		Categories:         primitive.CategoryDefault,
	}
}

// Resolver performs the resolution pipeline. A Resolver caches resolved
// pairs and is not safe for concurrent use.
type Resolver struct {
	graph      *analyze.TypeGraph
	mappingDef *mapping.MappingFile
	registry   *mapping.TransformRegistry
	config     ResolutionConfig
	// resolvedPairs caches already-resolved type pairs to stop recursion
	resolvedPairs map[string]*ResolvedTypePair
}

// NewResolver creates a new Resolver. mappingDef and registry may be nil.
func NewResolver(
	graph *analyze.TypeGraph,
	mappingDef *mapping.MappingFile,
	registry *mapping.TransformRegistry,
	config ResolutionConfig,
) *Resolver {
	if mappingDef == nil {
		mappingDef = &mapping.MappingFile{}
	}

	if registry == nil {
		registry = mapping.NewTransformRegistry()
	}

	return &Resolver{
		graph:         graph,
		mappingDef:    mappingDef,
		registry:      registry,
		config:        config,
		resolvedPairs: make(map[string]*ResolvedTypePair),
	}
}

// Resolve resolves every type mapping of the mapping file.
func (r *Resolver) Resolve() (*ResolvedMappingPlan, error) {
	plan := &ResolvedMappingPlan{}

	for i := range r.mappingDef.TypeMappings {
		tm := &r.mappingDef.TypeMappings[i]

		sourceType := mapping.ResolveTypeID(tm.Source, r.graph)
		targetType := mapping.ResolveTypeID(tm.Target, r.graph)

		if sourceType == nil || targetType == nil {
			plan.Diagnostics.AddError("resolve_failed", "source or target type not found",
				tm.Source+"->"+tm.Target, "")

			continue
		}

		resolved, err := r.resolvePair(sourceType, targetType, &plan.Diagnostics, 0)
		if err != nil {
			plan.Diagnostics.AddError("resolve_failed", err.Error(), tm.Source+"->"+tm.Target, "")

			continue
		}

		plan.TypePairs = append(plan.TypePairs, resolved)
	}

	if r.config.StrictMode && plan.Diagnostics.HasErrors() {
		return plan, ErrStrict
	}

	return plan, nil
}

// ResolvePair resolves a single struct pair, applying the mapping file's
// rules for it when present.
func (r *Resolver) ResolvePair(source, target reflect.Type) (*ResolvedTypePair, diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	sourceType, err := r.graph.Struct(source)
	if err != nil {
		return nil, diags, fmt.Errorf("source: %w", err)
	}

	targetType, err := r.graph.Struct(target)
	if err != nil {
		return nil, diags, fmt.Errorf("target: %w", err)
	}

	resolved, err := r.resolvePair(sourceType, targetType, &diags, 0)
	if err != nil {
		return nil, diags, err
	}

	if r.config.StrictMode && diags.HasErrors() {
		return resolved, diags, ErrStrict
	}

	return resolved, diags, nil
}

// rulesFor finds the type mapping declared for the pair.
func (r *Resolver) rulesFor(sourceType, targetType *analyze.TypeInfo) *mapping.TypeMapping {
	for i := range r.mappingDef.TypeMappings {
		tm := &r.mappingDef.TypeMappings[i]

		if mapping.ResolveTypeID(tm.Source, r.graph) == sourceType &&
			mapping.ResolveTypeID(tm.Target, r.graph) == targetType {
			return tm
		}
	}

	return nil
}

func (r *Resolver) resolvePair(
	sourceType, targetType *analyze.TypeInfo,
	diags *diagnostic.Diagnostics,
	depth int,
) (*ResolvedTypePair, error) {
	if sourceType.Kind != analyze.TypeKindStruct || targetType.Kind != analyze.TypeKindStruct {
		return nil, fmt.Errorf("%s->%s: %w", sourceType.ID, targetType.ID, analyze.ErrNotAStruct)
	}

	key := PairKey(sourceType, targetType)
	if cached, ok := r.resolvedPairs[key]; ok {
		return cached, nil
	}

	result := &ResolvedTypePair{
		SourceType: sourceType,
		TargetType: targetType,
	}

	// pre-cached so cyclic types terminate
	r.resolvedPairs[key] = result

	mappedTargets := make(map[string]bool)

	if tm := r.rulesFor(sourceType, targetType); tm != nil {
		r.applyRules(result, tm, mappedTargets, diags)
	}

	r.autoMatchRemainingFields(result, mappedTargets, diags)
	r.reportIncomplete(result, diags)
	r.detectNestedConversions(result, diags, depth)
	sortMappings(result)

	return result, nil
}

// applyRules applies explicit rules in priority order: 121, fields, ignore, auto.
func (r *Resolver) applyRules(
	result *ResolvedTypePair,
	tm *mapping.TypeMapping,
	mappedTargets map[string]bool,
	diags *diagnostic.Diagnostics,
) {
	key := result.Key()

	groups := []struct {
		rules  []mapping.FieldMapping
		source MappingSource
		code   string
	}{
		{tm.ExpandOneToOne(), MappingSourceYAML121, "121_mapping_error"},
		{tm.Fields, MappingSourceYAMLFields, "field_mapping_error"},
	}

	for _, group := range groups {
		for i := range group.rules {
			resolved, err := r.resolveFieldMapping(&group.rules[i], result, group.source)
			if err != nil {
				diags.AddError(group.code, err.Error(), key, group.rules[i].Target.First())

				continue
			}

			r.claim(result, resolved, mappedTargets, diags, true)
		}
	}

	for _, ignorePath := range tm.Ignore {
		if mappedTargets[ignorePath] {
			continue
		}

		fp, err := mapping.ParsePath(ignorePath)
		if err != nil {
			diags.AddError("ignore_parse_error", err.Error(), key, ignorePath)

			continue
		}

		result.Mappings = append(result.Mappings, ResolvedFieldMapping{
			TargetPaths: []mapping.FieldPath{fp},
			Source:      MappingSourceYAMLIgnore,
			Strategy:    StrategyIgnore,
			Confidence:  1.0,
			Explanation: "explicitly ignored",
		})
		mappedTargets[ignorePath] = true
	}

	for i := range tm.Auto {
		resolved, err := r.resolveFieldMapping(&tm.Auto[i], result, MappingSourceYAMLAuto)
		if err != nil {
			diags.AddWarning("auto_mapping_error", err.Error(), key, tm.Auto[i].Target.First())

			continue
		}

		r.claim(result, resolved, mappedTargets, diags, false)
	}
}

// claim records the mappings whose targets are still free. Lower priority
// rules lose silently unless warn is set.
func (r *Resolver) claim(
	result *ResolvedTypePair,
	resolved []ResolvedFieldMapping,
	mappedTargets map[string]bool,
	diags *diagnostic.Diagnostics,
	warn bool,
) {
	for _, m := range resolved {
		var free []mapping.FieldPath

		for _, tp := range m.TargetPaths {
			if mappedTargets[tp.String()] {
				if warn {
					diags.AddWarning("mapping_override",
						fmt.Sprintf("field %q already mapped by higher priority rule", tp.String()),
						result.Key(), tp.String())
				}

				continue
			}

			mappedTargets[tp.String()] = true
			free = append(free, tp)
		}

		if len(free) == 0 {
			continue
		}

		m.TargetPaths = free
		result.Mappings = append(result.Mappings, m)
	}
}

// resolveFieldMapping resolves one rule. Plain 1:N rules are split into one
// mapping per target so each target gets its own strategy.
func (r *Resolver) resolveFieldMapping(
	fm *mapping.FieldMapping,
	result *ResolvedTypePair,
	source MappingSource,
) ([]ResolvedFieldMapping, error) {
	targetPaths, err := r.parseRulePaths(fm.Target, result.TargetType)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	if len(targetPaths) == 0 {
		return nil, errors.New("field mapping must specify target")
	}

	if fm.Default != nil {
		if !fm.Source.IsEmpty() {
			return nil, errors.New("default cannot be combined with source")
		}

		for _, tp := range targetPaths {
			typ, _ := mapping.ResolvePath(tp.String(), result.TargetType)
			if _, err := primitive.ParseLiteral(*fm.Default, typ.Type); err != nil {
				return nil, fmt.Errorf("default %q for %s: %w", *fm.Default, tp, err)
			}
		}

		return []ResolvedFieldMapping{{
			TargetPaths: targetPaths,
			Source:      source,
			Cardinality: mapping.CardinalityOneToOne,
			Strategy:    StrategyDefault,
			Default:     fm.Default,
			Confidence:  1.0,
			Explanation: "default value: " + *fm.Default,
		}}, nil
	}

	sourcePaths, err := r.parseRulePaths(fm.Source, result.SourceType)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	if len(sourcePaths) == 0 {
		return nil, errors.New("field mapping must specify source (or default)")
	}

	cardinality := fm.GetCardinality()

	if fm.Transform != "" {
		if err := r.checkTransform(fm.Transform, len(sourcePaths)); err != nil {
			return nil, err
		}

		return []ResolvedFieldMapping{{
			SourcePaths: sourcePaths,
			TargetPaths: targetPaths,
			Source:      source,
			Cardinality: cardinality,
			Strategy:    StrategyTransform,
			Transform:   fm.Transform,
			Confidence:  1.0,
			Explanation: fmt.Sprintf("field mapping: %s (transform %s)", cardinality, fm.Transform),
		}}, nil
	}

	if fm.NeedsTransform() {
		return nil, fmt.Errorf("%s mapping requires transform", cardinality)
	}

	out := make([]ResolvedFieldMapping, 0, len(targetPaths))
	for _, tp := range targetPaths {
		strategy, expl := r.fieldStrategy(sourcePaths[0], tp, result.SourceType, result.TargetType)

		out = append(out, ResolvedFieldMapping{
			SourcePaths: sourcePaths,
			TargetPaths: []mapping.FieldPath{tp},
			Source:      source,
			Cardinality: mapping.CardinalityOneToOne,
			Strategy:    strategy,
			Confidence:  1.0,
			Explanation: fmt.Sprintf("field mapping: %s -> %s (%s)", sourcePaths[0], tp, expl),
		})
	}

	return out, nil
}

// parseRulePaths parses and checks rule paths against typeInfo. Slice
// element paths are not executable and are rejected.
func (r *Resolver) parseRulePaths(paths mapping.StringOrArray, typeInfo *analyze.TypeInfo) ([]mapping.FieldPath, error) {
	parsed, err := mapping.ParsePaths(paths)
	if err != nil {
		return nil, err
	}

	for _, fp := range parsed {
		if fp.HasSlice() {
			return nil, fmt.Errorf("path %q: slice element paths are not supported, map the element type instead", fp)
		}

		if _, err := mapping.ResolvePath(fp.String(), typeInfo); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

func (r *Resolver) checkTransform(name string, arity int) error {
	t := r.registry.Get(name)
	if t == nil {
		return fmt.Errorf("transform %q is not registered", name)
	}

	if t.Caster.Arity() != arity {
		return fmt.Errorf("transform %q takes %d arguments, mapping provides %d", name, t.Caster.Arity(), arity)
	}

	return nil
}

// reportIncomplete turns explicit rules that have no conversion into errors.
func (r *Resolver) reportIncomplete(result *ResolvedTypePair, diags *diagnostic.Diagnostics) {
	for _, m := range result.Mappings {
		if m.Strategy == StrategyTransform && m.Transform == "" {
			diags.AddError("missing_conversion",
				"no conversion available, add a transform: "+m.Explanation,
				result.Key(), m.TargetPaths[0].String())
		}
	}
}

// detectNestedConversions identifies nested struct pairs and resolves them.
func (r *Resolver) detectNestedConversions(result *ResolvedTypePair, diags *diagnostic.Diagnostics, depth int) {
	nestedMap := make(map[string]*NestedConversion)

	var keys []string

	for _, m := range result.Mappings {
		if len(m.SourcePaths) == 0 || m.Strategy == StrategyTransform || m.Strategy == StrategyIgnore {
			continue
		}

		sourceFieldType, err := mapping.ResolvePath(m.SourcePaths[0].String(), result.SourceType)
		if err != nil {
			continue
		}

		for _, tp := range m.TargetPaths {
			targetFieldType, err := mapping.ResolvePath(tp.String(), result.TargetType)
			if err != nil {
				continue
			}

			src, dst, inSlice := structPair(sourceFieldType, targetFieldType)
			if src == nil {
				continue
			}

			key := PairKey(src, dst)
			if existing, ok := nestedMap[key]; ok {
				existing.ReferencedBy = append(existing.ReferencedBy, tp)

				continue
			}

			nestedMap[key] = &NestedConversion{
				SourceType:     src,
				TargetType:     dst,
				ReferencedBy:   []mapping.FieldPath{tp},
				IsSliceElement: inSlice,
			}
			keys = append(keys, key)
		}
	}

	for _, key := range keys {
		nc := nestedMap[key]

		switch {
		case r.config.MaxRecursionDepth > 0 && depth >= r.config.MaxRecursionDepth:
			diags.AddWarning("max_recursion_depth", "max recursion depth reached for "+key, key, "")
		default:
			nested, err := r.resolvePair(nc.SourceType, nc.TargetType, diags, depth+1)
			if err != nil {
				diags.AddError("nested_resolve_error", err.Error(), key, "")
			}

			nc.ResolvedPair = nested
		}

		result.NestedPairs = append(result.NestedPairs, *nc)
	}
}

// structPair peels matching pointer and list layers off both types and
// returns the struct pair underneath, if any.
func structPair(source, target *analyze.TypeInfo) (src, dst *analyze.TypeInfo, inSlice bool) {
	for source != nil && target != nil {
		switch {
		case source.Kind == analyze.TypeKindPointer:
			source = source.ElemType
		case target.Kind == analyze.TypeKindPointer:
			target = target.ElemType
		case isList(source) && isList(target):
			source, target, inSlice = source.ElemType, target.ElemType, true
		case source.Kind == analyze.TypeKindStruct && target.Kind == analyze.TypeKindStruct:
			if source.Type.ConvertibleTo(target.Type) {
				return nil, nil, false
			}

			return source, target, inSlice
		default:
			return nil, nil, false
		}
	}

	return nil, nil, false
}

// sortMappings sorts mappings for deterministic output.
func sortMappings(result *ResolvedTypePair) {
	sort.SliceStable(result.Mappings, func(i, j int) bool {
		a, b := result.Mappings[i], result.Mappings[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}

		return a.TargetPaths[0].String() < b.TargetPaths[0].String()
	})

	sort.Slice(result.UnmappedTargets, func(i, j int) bool {
		return result.UnmappedTargets[i].TargetPath.String() < result.UnmappedTargets[j].TargetPath.String()
	})

	sort.Slice(result.NestedPairs, func(i, j int) bool {
		return PairKey(result.NestedPairs[i].SourceType, result.NestedPairs[i].TargetType) <
			PairKey(result.NestedPairs[j].SourceType, result.NestedPairs[j].TargetType)
	})
}
