package mapping

import (
	"errors"
	"path"
	"reflect"
	"runtime"
	"strings"

	"caster-projection/internal/common"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
)

var errorType = reflect.TypeFor[error]()

// Caster describes the signature of a transform function.
type Caster struct {
	Srcs         []reflect.Type
	Dst          reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool
}

// Src returns the first input type.
func (c Caster) Src() reflect.Type {
	src, _ := common.First(c.Srcs)

	return src
}

// Arity returns the number of inputs.
func (c Caster) Arity() int {
	return len(c.Srcs)
}

// ParseCaster inspects fn and describes it if it is a valid caster.
//
// Supported shapes, with one or more inputs:
//   - func(src A) D
//   - func(src A) (D, bool)
//   - func(src A) (D, error)
//   - func(src A) (D, bool, error)
//   - func(a A, b B, ...) D and the same result variants
//
// Variadic functions are rejected.
func ParseCaster(fn any) (Caster, error) {
	if fn == nil {
		return Caster{}, ErrCasterIsNotAFunction
	}

	fnVal := reflect.ValueOf(fn)

	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return Caster{}, ErrCasterIsNotAFunction
	}

	if fnType.NumIn() == 0 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Caster{}, ErrIsNotACaster
	}

	srcs := make([]reflect.Type, fnType.NumIn())
	for i := range srcs {
		srcs[i] = fnType.In(i)
		if isDoublePointer(srcs[i]) {
			return Caster{}, ErrDoublePointer
		}
	}

	dst := fnType.Out(0)
	if isDoublePointer(dst) {
		return Caster{}, ErrDoublePointer
	}

	alias, name := funcName(fnVal)

	caster := Caster{
		Srcs:         srcs,
		Dst:          dst,
		Name:         name,
		PackageAlias: alias,
	}

	switch fnType.NumOut() {
	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case isError(last):
			caster.HasErr = true
		default:
			return Caster{}, ErrIsNotACaster
		}

		return caster, nil

	case 3:
		if fnType.Out(1).Kind() != reflect.Bool || !isError(fnType.Out(2)) {
			return Caster{}, ErrIsNotACaster
		}

		caster.HasBool = true
		caster.HasErr = true

		return caster, nil

	default:
		return Caster{}, ErrIsNotACaster
	}
}

// funcName splits the runtime name of fn into the last package path element
// and the function name.
func funcName(fnVal reflect.Value) (alias, name string) {
	fnPC := runtime.FuncForPC(fnVal.Pointer())
	if fnPC == nil {
		return "", ""
	}

	_, file := path.Split(fnPC.Name())

	return common.Unpack2(strings.SplitN(file, ".", 2))
}

func isDoublePointer(t reflect.Type) bool {
	return t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Ptr
}

func isError(t reflect.Type) bool {
	return t.Implements(errorType)
}
