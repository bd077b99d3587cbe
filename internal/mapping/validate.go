package mapping

import (
	"fmt"

	"caster-projection/internal/analyze"
	"caster-projection/internal/diagnostic"
	"caster-projection/primitive"
)

// Validate checks a mapping file against the types inspected by graph:
// type identifiers resolve, paths exist and are exported, N:1 mappings
// name a transform and defaults parse into their target field type.
// Transforms referenced but absent from the file's transforms section are
// reported as warnings, since they may be registered in code.
func Validate(mf *MappingFile, graph *analyze.TypeGraph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")

		return res
	}

	if graph == nil {
		res.AddError("graph_is_nil", "type graph is nil", "", "")

		return res
	}

	declared := make(map[string]bool, len(mf.Transforms))
	for i := range mf.Transforms {
		name := mf.Transforms[i].Name
		if name == "" {
			res.AddError("empty_transform_name", "transform definition has no name", "", "")

			continue
		}

		if declared[name] {
			res.AddError("duplicate_transform", fmt.Sprintf("duplicate transform %q", name), "", name)
		}

		declared[name] = true
	}

	for i := range mf.TypeMappings {
		validateTypeMapping(res, &mf.TypeMappings[i], graph, declared)
	}

	return res
}

func validateTypeMapping(
	res *diagnostic.Diagnostics,
	tm *TypeMapping,
	graph *analyze.TypeGraph,
	declared map[string]bool,
) {
	pair := tm.Source + "->" + tm.Target

	srcT := ResolveTypeID(tm.Source, graph)
	if srcT == nil {
		res.AddError("source_type_not_found", fmt.Sprintf("source type %q not found", tm.Source), pair, "")

		return
	}

	dstT := ResolveTypeID(tm.Target, graph)
	if dstT == nil {
		res.AddError("target_type_not_found", fmt.Sprintf("target type %q not found", tm.Target), pair, "")

		return
	}

	for _, fm := range tm.ExpandOneToOne() {
		if _, err := ResolvePath(fm.Source.First(), srcT); err != nil {
			res.AddError("invalid_source_path", fmt.Sprintf("invalid source path in 121: %v", err), pair, fm.Source.First())
		}

		if _, err := ResolvePath(fm.Target.First(), dstT); err != nil {
			res.AddError("invalid_target_path", fmt.Sprintf("invalid target path in 121: %v", err), pair, fm.Target.First())
		}
	}

	for _, group := range [][]FieldMapping{tm.Fields, tm.Auto} {
		for i := range group {
			validateFieldMapping(res, pair, srcT, dstT, &group[i], declared)
		}
	}

	for _, ig := range tm.Ignore {
		if _, err := ResolvePath(ig, dstT); err != nil {
			res.AddError("invalid_ignore_path", fmt.Sprintf("invalid ignore path: %v", err), pair, ig)
		}
	}
}

func validateFieldMapping(
	res *diagnostic.Diagnostics,
	pair string,
	srcT, dstT *analyze.TypeInfo,
	fm *FieldMapping,
	declared map[string]bool,
) {
	if fm.Target.IsEmpty() {
		res.AddError("missing_target_path", "field mapping must specify target", pair, "")
	}

	targets := make([]*analyze.TypeInfo, 0, len(fm.Target))

	for _, t := range fm.Target {
		typ, err := ResolvePath(t, dstT)
		if err != nil {
			res.AddError("invalid_target_path", fmt.Sprintf("invalid target path: %v", err), pair, t)

			continue
		}

		targets = append(targets, typ)
	}

	if fm.Default != nil {
		if !fm.Source.IsEmpty() {
			res.AddError("default_with_source", "default cannot be combined with source", pair, fm.Target.First())
		}

		for i, typ := range targets {
			if _, err := primitive.ParseLiteral(*fm.Default, typ.Type); err != nil {
				res.AddError("invalid_default", fmt.Sprintf("default %q: %v", *fm.Default, err), pair, fm.Target[i])
			}
		}

		return
	}

	if fm.Source.IsEmpty() {
		res.AddError("missing_source", "field mapping must specify source (or default)", pair, fm.Target.First())
	}

	for _, s := range fm.Source {
		if _, err := ResolvePath(s, srcT); err != nil {
			res.AddError("invalid_source_path", fmt.Sprintf("invalid source path: %v", err), pair, s)
		}
	}

	if fm.NeedsTransform() && fm.Transform == "" {
		res.AddError("missing_transform", fm.GetCardinality().String()+" mapping requires transform", pair, fm.Target.First())
	}

	if fm.Transform != "" && !declared[fm.Transform] {
		res.AddWarning("undeclared_transform",
			fmt.Sprintf("transform %q is not listed under transforms", fm.Transform), pair, fm.Target.First())
	}
}

// ResolvePath walks a field path through typeInfo, dereferencing pointers,
// and returns the type of the last segment.
func ResolvePath(pathStr string, typeInfo *analyze.TypeInfo) (*analyze.TypeInfo, error) {
	fp, err := ParsePath(pathStr)
	if err != nil {
		return nil, err
	}

	current := typeInfo
	for _, seg := range fp.Segments {
		current = current.Deref()
		if current == nil || current.Kind != analyze.TypeKindStruct {
			return nil, fmt.Errorf("cannot access field %q on non-struct type", seg.Name)
		}

		fld := current.Field(seg.Name)
		if fld == nil {
			return nil, fmt.Errorf("field %q not found in %s", seg.Name, current.ID)
		}

		current = fld.Type

		if seg.IsSlice {
			current = current.Deref()
			if current.Kind != analyze.TypeKindSlice && current.Kind != analyze.TypeKindArray {
				return nil, fmt.Errorf("segment %q uses [] but resolved field is %s", seg.Name, current.Kind)
			}

			current = current.ElemType
		}
	}

	return current, nil
}
