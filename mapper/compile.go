package mapper

import (
	"fmt"
	"reflect"
	"strings"

	"caster-projection/internal/analyze"
	"caster-projection/internal/mapping"
	"caster-projection/internal/match"
	"caster-projection/internal/plan"
	"caster-projection/primitive"
)

// converter turns a value into a value of a fixed target type.
type converter func(v reflect.Value) (reflect.Value, error)

// fieldOp populates one or more target fields of dst from src.
type fieldOp func(src, dst reflect.Value) error

// typeMap is a compiled struct map. It is immutable once compiled.
type typeMap struct {
	pair *plan.ResolvedTypePair
	src  reflect.Type
	dst  reflect.Type
	ops  []fieldOp
}

// apply maps a struct value of the source type.
func (tm *typeMap) apply(src reflect.Value) (reflect.Value, error) {
	if src.Type() != tm.src {
		return reflect.Value{}, fmt.Errorf("%w: %s -> %s", ErrNotConfigured, src.Type(), tm.dst)
	}

	dst := reflect.New(tm.dst).Elem()

	for _, op := range tm.ops {
		if err := op(src, dst); err != nil {
			return reflect.Value{}, fmt.Errorf("%s: %w", tm.pair.Key(), err)
		}
	}

	return dst, nil
}

// builder compiles resolved pairs into executable maps.
type builder struct {
	cfg      *Configuration
	resolver *plan.Resolver
	compiled map[*plan.ResolvedTypePair]*typeMap
}

func (b *builder) compile(pair *plan.ResolvedTypePair) (*typeMap, error) {
	if tm, ok := b.compiled[pair]; ok {
		return tm, nil
	}

	tm := &typeMap{pair: pair, src: pair.SourceType.Type, dst: pair.TargetType.Type}

	// registered before the fields so recursive pairs reuse it
	b.compiled[pair] = tm

	for i := range pair.Mappings {
		m := &pair.Mappings[i]

		op, err := b.fieldOp(pair, m)
		if err != nil {
			return nil, fmt.Errorf("%s: field %s: %w", pair.Key(), pathList(m.TargetPaths), err)
		}

		if op != nil {
			tm.ops = append(tm.ops, op)
		}
	}

	return tm, nil
}

func (b *builder) fieldOp(pair *plan.ResolvedTypePair, m *plan.ResolvedFieldMapping) (fieldOp, error) {
	if m.Strategy == plan.StrategyIgnore {
		return nil, nil
	}

	for _, tp := range m.TargetPaths {
		if err := checkExported(tp, pair.TargetType); err != nil {
			return nil, err
		}
	}

	for _, sp := range m.SourcePaths {
		if err := checkExported(sp, pair.SourceType); err != nil {
			return nil, err
		}
	}

	switch m.Strategy {
	case plan.StrategyDefault:
		return b.defaultOp(pair, m)
	case plan.StrategyTransform:
		return b.transformOp(pair, m)
	}

	if len(m.SourcePaths) != 1 {
		return nil, fmt.Errorf("%s mapping requires a transform", m.Cardinality)
	}

	sourcePath := m.SourcePaths[0]

	sourceType, err := mapping.ResolvePath(sourcePath.String(), pair.SourceType)
	if err != nil {
		return nil, err
	}

	setters, err := b.setters(pair, m.TargetPaths, sourceType)
	if err != nil {
		return nil, err
	}

	return func(src, dst reflect.Value) error {
		v, ok := getPath(src, sourcePath)
		if !ok {
			return nil
		}

		return setAll(dst, v, setters)
	}, nil
}

func (b *builder) defaultOp(pair *plan.ResolvedTypePair, m *plan.ResolvedFieldMapping) (fieldOp, error) {
	values := make([]reflect.Value, len(m.TargetPaths))

	for i, tp := range m.TargetPaths {
		targetType, err := mapping.ResolvePath(tp.String(), pair.TargetType)
		if err != nil {
			return nil, err
		}

		if values[i], err = primitive.ParseLiteral(*m.Default, targetType.Type); err != nil {
			return nil, err
		}
	}

	targets := m.TargetPaths

	return func(_, dst reflect.Value) error {
		for i, tp := range targets {
			setPath(dst, tp).Set(values[i])
		}

		return nil
	}, nil
}

func (b *builder) transformOp(pair *plan.ResolvedTypePair, m *plan.ResolvedFieldMapping) (fieldOp, error) {
	t := b.cfg.registry.Get(m.Transform)
	if t == nil {
		return nil, fmt.Errorf("%w: %q", ErrTransformNotFound, m.Transform)
	}

	setters, err := b.setters(pair, m.TargetPaths, b.cfg.graph.Inspect(t.Caster.Dst))
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", t.Name, err)
	}

	sources := m.SourcePaths

	return func(src, dst reflect.Value) error {
		args := make([]reflect.Value, len(sources))
		for i, sp := range sources {
			// an unreachable source is passed as the zero value
			args[i], _ = getPath(src, sp)
		}

		out, ok, err := t.Call(args...)
		if err != nil {
			return err
		}

		if !ok {
			return nil
		}

		return setAll(dst, out, setters)
	}, nil
}

// setter writes a value of a known type into one target path.
type setter struct {
	path    mapping.FieldPath
	convert converter
}

func (b *builder) setters(
	pair *plan.ResolvedTypePair,
	targets []mapping.FieldPath,
	valueType *analyze.TypeInfo,
) ([]setter, error) {
	out := make([]setter, 0, len(targets))

	for _, tp := range targets {
		targetType, err := mapping.ResolvePath(tp.String(), pair.TargetType)
		if err != nil {
			return nil, err
		}

		conv, err := b.converter(pair, valueType, targetType)
		if err != nil {
			return nil, err
		}

		out = append(out, setter{path: tp, convert: conv})
	}

	return out, nil
}

func setAll(dst, v reflect.Value, setters []setter) error {
	for _, s := range setters {
		out, err := s.convert(v)
		if err != nil {
			return fmt.Errorf("field %s: %w", s.path, err)
		}

		setPath(dst, s.path).Set(out)
	}

	return nil
}

// converter builds the conversion from source to target following the
// strategy the resolver picks for the pair of types.
func (b *builder) converter(owner *plan.ResolvedTypePair, source, target *analyze.TypeInfo) (converter, error) {
	strategy, expl := b.resolver.StrategyFor(source, target)

	switch strategy {
	case plan.StrategyDirectAssign:
		return func(v reflect.Value) (reflect.Value, error) { return v, nil }, nil

	case plan.StrategyConvert:
		dstType := target.Type

		if match.ScoreTypeCompatibility(source.Type, target.Type).Compatibility >= match.TypeConvertible {
			return func(v reflect.Value) (reflect.Value, error) { return v.Convert(dstType), nil }, nil
		}

		categories := b.cfg.resolution.Categories

		return func(v reflect.Value) (reflect.Value, error) {
			return primitive.Convert(v, dstType, categories)
		}, nil

	case plan.StrategyPointerDeref:
		inner, err := b.converter(owner, source.ElemType, target)
		if err != nil {
			return nil, err
		}

		zero := reflect.Zero(target.Type)

		return func(v reflect.Value) (reflect.Value, error) {
			if v.IsNil() {
				return zero, nil
			}

			return inner(v.Elem())
		}, nil

	case plan.StrategyPointerWrap:
		inner, err := b.converter(owner, source, target.ElemType)
		if err != nil {
			return nil, err
		}

		return wrap(inner, target.ElemType.Type), nil

	case plan.StrategyPointerNestedCast:
		inner, err := b.converter(owner, source.ElemType, target.ElemType)
		if err != nil {
			return nil, err
		}

		wrapped := wrap(inner, target.ElemType.Type)
		zero := reflect.Zero(target.Type)

		return func(v reflect.Value) (reflect.Value, error) {
			if v.IsNil() {
				return zero, nil
			}

			return wrapped(v.Elem())
		}, nil

	case plan.StrategySliceMap:
		inner, err := b.converter(owner, source.ElemType, target.ElemType)
		if err != nil {
			return nil, err
		}

		return sliceMap(inner, target.Type), nil

	case plan.StrategyNestedCast:
		return b.nestedConverter(owner, source, target)

	default:
		return nil, fmt.Errorf("no conversion from %s to %s: %s", source.ID, target.ID, expl)
	}
}

// nestedConverter maps nested structs with the map registered for the pair
// at call time, falling back to the pair resolved with the owner.
func (b *builder) nestedConverter(owner *plan.ResolvedTypePair, source, target *analyze.TypeInfo) (converter, error) {
	var fallback *typeMap

	if nested := owner.Nested(source, target); nested != nil {
		var err error
		if fallback, err = b.compile(nested); err != nil {
			return nil, err
		}
	}

	cfg := b.cfg
	dstType := target.Type

	return func(v reflect.Value) (reflect.Value, error) {
		tm := cfg.lookup(v.Type(), dstType)
		if tm == nil {
			tm = fallback
		}

		if tm == nil {
			return reflect.Value{}, fmt.Errorf("%w: %s -> %s", ErrNotConfigured, v.Type(), dstType)
		}

		return tm.apply(v)
	}, nil
}

func wrap(inner converter, elem reflect.Type) converter {
	return func(v reflect.Value) (reflect.Value, error) {
		out, err := inner(v)
		if err != nil {
			return reflect.Value{}, err
		}

		ptr := reflect.New(elem)
		ptr.Elem().Set(out)

		return ptr, nil
	}
}

// sliceMap converts slices and arrays element by element. A nil slice
// stays nil and arrays are truncated to the target length.
func sliceMap(inner converter, dstType reflect.Type) converter {
	return func(v reflect.Value) (reflect.Value, error) {
		if v.Kind() == reflect.Slice && v.IsNil() {
			return reflect.Zero(dstType), nil
		}

		var out reflect.Value

		n := v.Len()
		if dstType.Kind() == reflect.Array {
			out = reflect.New(dstType).Elem()
			n = min(n, dstType.Len())
		} else {
			out = reflect.MakeSlice(dstType, n, n)
		}

		for i := range n {
			elem, err := inner(v.Index(i))
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}

			out.Index(i).Set(elem)
		}

		return out, nil
	}
}

// getPath reads a field path. It reports false when a nil pointer is met
// on the way.
func getPath(v reflect.Value, path mapping.FieldPath) (reflect.Value, bool) {
	for _, seg := range path.Segments {
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}, false
			}

			v = v.Elem()
		}

		v = v.FieldByName(seg.Name)
	}

	return v, true
}

// setPath returns the settable field at path, allocating nil pointers on
// the way.
func setPath(v reflect.Value, path mapping.FieldPath) reflect.Value {
	for _, seg := range path.Segments {
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.FieldByName(seg.Name)
	}

	return v
}

// checkExported rejects paths through unexported fields, which reflection
// can neither read into other values nor set.
func checkExported(path mapping.FieldPath, typeInfo *analyze.TypeInfo) error {
	current := typeInfo

	for _, seg := range path.Segments {
		current = current.Deref()
		if current == nil {
			return fmt.Errorf("path %s: type information unavailable", path)
		}

		field := current.Field(seg.Name)
		if field == nil {
			return fmt.Errorf("path %s: field %q not found", path, seg.Name)
		}

		if !field.Exported {
			return fmt.Errorf("path %s: field %q is unexported", path, seg.Name)
		}

		current = field.Type
	}

	return nil
}

func pathList(paths []mapping.FieldPath) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = p.String()
	}

	return strings.Join(names, ", ")
}
