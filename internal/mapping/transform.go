package mapping

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"caster-projection/internal/diagnostic"
)

var ErrTransformSignature = errors.New("transform arguments do not match its signature")

// TransformRegistry holds registered transform functions by name.
type TransformRegistry struct {
	transforms map[string]*Transform
}

// Transform is a registered transform function with its parsed signature.
type Transform struct {
	Name   string
	Caster Caster
	Def    *TransformDef // documentation from a mapping file, may be nil
	fn     reflect.Value
}

// NewTransformRegistry creates a new empty transform registry.
func NewTransformRegistry() *TransformRegistry {
	return &TransformRegistry{
		transforms: make(map[string]*Transform),
	}
}

// Register validates fn with ParseCaster and stores it under name,
// replacing any previous registration.
func (r *TransformRegistry) Register(name string, fn any) error {
	if name == "" {
		return errors.New("transform name is empty")
	}

	caster, err := ParseCaster(fn)
	if err != nil {
		return fmt.Errorf("transform %q: %w", name, err)
	}

	r.transforms[name] = &Transform{
		Name:   name,
		Caster: caster,
		fn:     reflect.ValueOf(fn),
	}

	return nil
}

// Declare attaches a mapping file definition to a registered transform.
// It returns false if nothing is registered under def.Name.
func (r *TransformRegistry) Declare(def *TransformDef) bool {
	t, ok := r.transforms[def.Name]
	if ok {
		t.Def = def
	}

	return ok
}

// Get returns a transform by name, or nil if not found.
func (r *TransformRegistry) Get(name string) *Transform {
	return r.transforms[name]
}

// Has returns true if a transform with the given name exists.
func (r *TransformRegistry) Has(name string) bool {
	_, exists := r.transforms[name]

	return exists
}

// Names returns all transform names, sorted.
func (r *TransformRegistry) Names() []string {
	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Check compares the transforms section of a mapping file with the
// registry: duplicate definitions and signature mismatches are errors,
// definitions without a registered function are warnings.
func (r *TransformRegistry) Check(mf *MappingFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	seen := make(map[string]bool)

	for i := range mf.Transforms {
		def := &mf.Transforms[i]

		if seen[def.Name] {
			res.AddError("duplicate_transform", fmt.Sprintf("duplicate transform %q", def.Name), "", def.Name)

			continue
		}

		seen[def.Name] = true

		t := r.Get(def.Name)
		if t == nil {
			res.AddWarning("transform_not_registered",
				fmt.Sprintf("transform %q is declared but no function is registered", def.Name), "", def.Name)

			continue
		}

		if def.SourceType != "" && t.Caster.Arity() == 1 && !TypeNameMatches(def.SourceType, t.Caster.Src()) {
			res.AddError("transform_signature_mismatch",
				fmt.Sprintf("transform %q takes %s, declared source_type %s", def.Name, t.Caster.Src(), def.SourceType),
				"", def.Name)
		}

		if def.TargetType != "" && !TypeNameMatches(def.TargetType, t.Caster.Dst) {
			res.AddError("transform_signature_mismatch",
				fmt.Sprintf("transform %q returns %s, declared target_type %s", def.Name, t.Caster.Dst, def.TargetType),
				"", def.Name)
		}
	}

	return res
}

// Call invokes the transform. ok is false when a (D, bool) transform
// reports that no value should be assigned.
func (t *Transform) Call(args ...reflect.Value) (out reflect.Value, ok bool, err error) {
	if len(args) != t.Caster.Arity() {
		return reflect.Value{}, false, fmt.Errorf("%w: %s takes %d arguments, got %d",
			ErrTransformSignature, t.Name, t.Caster.Arity(), len(args))
	}

	for i, arg := range args {
		want := t.Caster.Srcs[i]
		if !arg.IsValid() {
			args[i] = reflect.Zero(want)

			continue
		}

		switch {
		case arg.Type().AssignableTo(want):
		case arg.Type().ConvertibleTo(want) && arg.Kind() == want.Kind():
			args[i] = arg.Convert(want)
		default:
			return reflect.Value{}, false, fmt.Errorf("%w: %s argument %d is %s, want %s",
				ErrTransformSignature, t.Name, i, arg.Type(), want)
		}
	}

	results := t.fn.Call(args)
	out, ok = results[0], true

	if t.Caster.HasBool {
		ok = results[1].Bool()
	}

	if t.Caster.HasErr {
		if errVal := results[len(results)-1]; !errVal.IsNil() {
			return reflect.Value{}, false, fmt.Errorf("transform %s: %w", t.Name, errVal.Interface().(error))
		}
	}

	return out, ok, nil
}
