package primitive

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var ErrNotConvertible = errors.New("value is not convertible")

var (
	stringerType = reflect.TypeOf((*interface{ String() string })(nil)).Elem()
	validType    = reflect.TypeOf((*interface{ IsValid() bool })(nil)).Elem()
)

// Convert converts v into a value of type dst using only conversions from the
// allowed categories. Named types sharing an underlying kind with dst always
// convert, subject to an IsValid check on the destination.
func Convert(v reflect.Value, dst reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	src := v.Type()
	if src == dst {
		return v, nil
	}

	srcKind := FromReflectType(src)
	dstKind := FromReflectType(dst)

	if srcKind == 0 || dstKind == 0 {
		if src.Kind() == dst.Kind() && src.ConvertibleTo(dst) {
			return checkValid(v.Convert(dst))
		}

		return reflect.Value{}, fmt.Errorf("%w: %s -> %s", ErrNotConvertible, src, dst)
	}

	pair := ConversionPair{srcKind, dstKind}
	if !Allowed(pair, allowed) {
		if src.Kind() == dst.Kind() && src.ConvertibleTo(dst) {
			return checkValid(v.Convert(dst))
		}

		return reflect.Value{}, fmt.Errorf("%w: %s -> %s is not in the allowed categories", ErrNotConvertible, src, dst)
	}

	out, err := convertPair(v, pair, dst)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("convert %s -> %s: %w", src, dst, err)
	}

	return checkValid(out)
}

// ParseLiteral parses a textual literal, such as a mapping default, into dst.
// Pointer destinations receive a pointer to the parsed value.
func ParseLiteral(s string, dst reflect.Type) (reflect.Value, error) {
	if dst.Kind() == reflect.Ptr {
		elem, err := ParseLiteral(s, dst.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		ptr := reflect.New(dst.Elem())
		ptr.Elem().Set(elem)

		return ptr, nil
	}

	return Convert(reflect.ValueOf(s), dst, CategoryAll)
}

func checkValid(v reflect.Value) (reflect.Value, error) {
	if v.Type().Implements(validType) && !v.Interface().(interface{ IsValid() bool }).IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %v is not a valid %s", ErrNotConvertible, v.Interface(), v.Type())
	}

	return v, nil
}

func convertPair(v reflect.Value, pair ConversionPair, dst reflect.Type) (reflect.Value, error) {
	from, to := pair.From, pair.To

	switch {
	case from.IsNumber() && to.IsNumber():
		return v.Convert(dst), nil

	case from.IsNumber() && to == KindString:
		return reflect.ValueOf(formatNumber(v, from)).Convert(dst), nil

	case from == KindString && to.IsNumber():
		return parseNumber(v.String(), to, dst)

	case from.IsInteger() && to == KindBool:
		return reflect.ValueOf(integer(v) != 0).Convert(dst), nil

	case from == KindBool && to.IsInteger():
		out := reflect.New(dst).Elem()
		if v.Bool() {
			setInteger(out, 1)
		}

		return out, nil

	case from == KindString && to == KindBool:
		b, err := parseTextualBool(v.String())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(b).Convert(dst), nil

	case from == KindBool && to == KindString:
		return reflect.ValueOf(strconv.FormatBool(v.Bool())).Convert(dst), nil

	case from == KindString && to == KindTime:
		t, err := time.Parse(time.RFC3339Nano, v.String())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(t), nil

	case from == KindTime && to == KindString:
		return reflect.ValueOf(v.Interface().(time.Time).Format(time.RFC3339Nano)).Convert(dst), nil

	case from.IsInteger() && to == KindTime:
		return reflect.ValueOf(time.Unix(integer(v), 0).UTC()), nil

	case from == KindTime && to.IsInteger():
		out := reflect.New(dst).Elem()
		setInteger(out, v.Interface().(time.Time).Unix())

		return out, nil

	case from == KindString && to == KindDuration:
		d, err := time.ParseDuration(v.String())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(d), nil

	case from == KindDuration && to == KindString:
		return reflect.ValueOf(time.Duration(v.Int()).String()).Convert(dst), nil

	case from.IsInteger() && to == KindDuration:
		return reflect.ValueOf(time.Duration(integer(v))), nil

	case from == KindDuration && to.IsInteger():
		out := reflect.New(dst).Elem()
		setInteger(out, v.Int())

		return out, nil

	case from.IsFloat() && to == KindDuration:
		return reflect.ValueOf(time.Duration(v.Float() * float64(time.Second))), nil

	case from == KindDuration && to.IsFloat():
		return reflect.ValueOf(time.Duration(v.Int()).Seconds()).Convert(dst), nil

	case from == KindPrimitiveEnum || to == KindPrimitiveEnum:
		return convertEnum(v, dst)
	}

	return reflect.Value{}, fmt.Errorf("%w: no conversion for %s -> %s", ErrNotConvertible, from, to)
}

func convertEnum(v reflect.Value, dst reflect.Type) (reflect.Value, error) {
	src := v.Type()

	// enum -> string prefers the String method, so integer enums render by name
	if dst.Kind() == reflect.String && src.Kind() != reflect.String && src.Implements(stringerType) {
		return reflect.ValueOf(v.Interface().(interface{ String() string }).String()).Convert(dst), nil
	}

	if src.ConvertibleTo(dst) && (src.Kind() == reflect.String) == (dst.Kind() == reflect.String) {
		return v.Convert(dst), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: enum %s -> %s", ErrNotConvertible, src, dst)
}

func formatNumber(v reflect.Value, kind KindEnum) string {
	switch {
	case kind.IsSigned():
		return strconv.FormatInt(v.Int(), 10)
	case kind.IsUnsigned():
		return strconv.FormatUint(v.Uint(), 10)
	default:
		return strconv.FormatFloat(v.Float(), 'g', -1, kind.Bits())
	}
}

func parseNumber(s string, kind KindEnum, dst reflect.Type) (reflect.Value, error) {
	out := reflect.New(dst).Elem()
	s = strings.TrimSpace(s)

	switch {
	case kind.IsSigned():
		n, err := strconv.ParseInt(s, 10, kind.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		out.SetInt(n)
	case kind.IsUnsigned():
		n, err := strconv.ParseUint(s, 10, kind.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		out.SetUint(n)
	default:
		f, err := strconv.ParseFloat(s, kind.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		out.SetFloat(f)
	}

	return out, nil
}

func parseTextualBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	}

	return false, fmt.Errorf("%w: %q is not a boolean", ErrNotConvertible, s)
}

// integer reads any signed or unsigned integer value as int64.
func integer(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int64(v.Uint())
	default:
		return v.Int()
	}
}

func setInteger(v reflect.Value, n int64) {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		v.SetUint(uint64(n))
	default:
		v.SetInt(n)
	}
}
