package primitive

import (
	"reflect"
	"strconv"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies the scalar types the runtime converter understands.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named type over any integer number, boolean or string

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

type kindClass uint8

const (
	classSigned kindClass = 1 << iota
	classUnsigned
	classFloat
)

// kindInfo describes a predeclared scalar kind.
type kindInfo struct {
	rtype reflect.Type
	class kindClass
	bits  int
}

var kinds = [KindTotal]kindInfo{
	KindInt:      {reflect.TypeFor[int](), classSigned, strconv.IntSize},
	KindInt8:     {reflect.TypeFor[int8](), classSigned, 8},
	KindInt16:    {reflect.TypeFor[int16](), classSigned, 16},
	KindInt32:    {reflect.TypeFor[int32](), classSigned, 32},
	KindInt64:    {reflect.TypeFor[int64](), classSigned, 64},
	KindUint:     {reflect.TypeFor[uint](), classUnsigned, strconv.IntSize},
	KindUint8:    {reflect.TypeFor[uint8](), classUnsigned, 8},
	KindUint16:   {reflect.TypeFor[uint16](), classUnsigned, 16},
	KindUint32:   {reflect.TypeFor[uint32](), classUnsigned, 32},
	KindUint64:   {reflect.TypeFor[uint64](), classUnsigned, 64},
	KindFloat32:  {reflect.TypeFor[float32](), classFloat, 32},
	KindFloat64:  {reflect.TypeFor[float64](), classFloat, 64},
	KindBool:     {rtype: reflect.TypeFor[bool]()},
	KindString:   {rtype: reflect.TypeFor[string]()},
	KindTime:     {rtype: reflect.TypeFor[time.Time]()},
	KindDuration: {rtype: reflect.TypeFor[time.Duration]()},
}

var byType = func() map[reflect.Type]KindEnum {
	out := make(map[reflect.Type]KindEnum, len(kinds))
	for k, info := range kinds {
		if info.rtype != nil {
			out[info.rtype] = KindEnum(k)
		}
	}

	return out
}()

func (k KindEnum) info() kindInfo {
	if k <= 0 || int(k) >= KindTotal {
		return kindInfo{}
	}

	return kinds[k]
}

func (k KindEnum) IsNumber() bool { return k.info().class != 0 }

func (k KindEnum) IsInteger() bool { return k.info().class&(classSigned|classUnsigned) != 0 }

func (k KindEnum) IsFloat() bool { return k.info().class == classFloat }

func (k KindEnum) IsSigned() bool { return k.info().class == classSigned }

func (k KindEnum) IsUnsigned() bool { return k.info().class == classUnsigned }

// Bits reports the storage width of a numeric kind.
// It panics for non-numeric kinds.
func (k KindEnum) Bits() int {
	if !k.IsNumber() {
		panic("only numeric kinds have a meaningful bit width, but requested for: " + k.String())
	}

	return k.info().bits
}

// FromReflectType returns the kind of rtype. Named types over an integer,
// boolean or string that are not one of the known kinds report
// KindPrimitiveEnum; anything else reports 0.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	if k, ok := byType[rtype]; ok {
		return k
	}

	switch rtype.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Bool, reflect.String:
		return KindPrimitiveEnum
	default:
		return 0
	}
}
