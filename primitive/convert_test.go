package primitive

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level int

func (l level) String() string {
	switch l {
	case 1:
		return "low"
	case 2:
		return "high"
	default:
		return "none"
	}
}

type color string

func (c color) IsValid() bool { return c == "red" || c == "green" }

func convert(t *testing.T, v any, dst any, allowed CategoryEnum) any {
	t.Helper()

	out, err := Convert(reflect.ValueOf(v), reflect.TypeOf(dst), allowed)
	require.NoError(t, err)

	return out.Interface()
}

func TestConvert_Numbers(t *testing.T) {
	assert.Equal(t, int64(42), convert(t, int32(42), int64(0), CategorySafeNumber))
	assert.Equal(t, float64(7), convert(t, uint8(7), float64(0), CategorySafeNumber))
	assert.Equal(t, int8(5), convert(t, int64(5), int8(0), CategoryUnsafeNumber))

	_, err := Convert(reflect.ValueOf(int64(5)), reflect.TypeOf(int8(0)), CategorySafeNumber)
	require.ErrorIs(t, err, ErrNotConvertible)
}

func TestConvert_Text(t *testing.T) {
	assert.Equal(t, "-12", convert(t, -12, "", CategoryTextNumber))
	assert.Equal(t, "1.5", convert(t, 1.5, "", CategoryTextNumber))
	assert.Equal(t, uint16(300), convert(t, "300", uint16(0), CategoryTextNumber))

	_, err := Convert(reflect.ValueOf("abc"), reflect.TypeOf(0), CategoryTextNumber)
	require.Error(t, err)

	assert.Equal(t, true, convert(t, "yes", false, CategoryTextualBool))
	assert.Equal(t, false, convert(t, "off", false, CategoryTextualBool))
	assert.Equal(t, "true", convert(t, true, "", CategoryTextualBool))
	assert.Equal(t, 1, convert(t, true, 0, CategoryNumericBool))
	assert.Equal(t, false, convert(t, uint(0), false, CategoryNumericBool))
}

func TestConvert_Time(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	assert.Equal(t, ts.Format(time.RFC3339Nano), convert(t, ts, "", CategoryDatetime))
	assert.True(t, ts.Equal(convert(t, ts.Format(time.RFC3339Nano), time.Time{}, CategoryDatetime).(time.Time)))
	assert.Equal(t, ts.Unix(), convert(t, ts, int64(0), CategoryTimestamp))

	assert.Equal(t, 90*time.Minute, convert(t, "1h30m", time.Duration(0), CategoryDuration))
	assert.Equal(t, "2s", convert(t, 2*time.Second, "", CategoryDuration))
	assert.Equal(t, time.Duration(15), convert(t, int32(15), time.Duration(0), CategoryNanoseconds))
	assert.Equal(t, 1.5, convert(t, 1500*time.Millisecond, float64(0), CategorySeconds))
}

func TestConvert_Enums(t *testing.T) {
	assert.Equal(t, "high", convert(t, level(2), "", CategoryEnumString))
	assert.Equal(t, color("red"), convert(t, "red", color(""), CategoryEnumString))
	assert.Equal(t, 2, convert(t, level(2), 0, CategoryNone))

	_, err := Convert(reflect.ValueOf("blue"), reflect.TypeOf(color("")), CategoryEnumString)
	require.ErrorIs(t, err, ErrNotConvertible)
}

func TestParseLiteral(t *testing.T) {
	v, err := ParseLiteral("pending", reflect.TypeOf(""))
	require.NoError(t, err)
	assert.Equal(t, "pending", v.Interface())

	v, err = ParseLiteral("12", reflect.TypeOf(0))
	require.NoError(t, err)
	assert.Equal(t, 12, v.Interface())

	v, err = ParseLiteral("3.25", reflect.TypeOf((*float64)(nil)))
	require.NoError(t, err)
	require.False(t, v.IsNil())
	assert.InDelta(t, 3.25, v.Elem().Float(), 1e-9)

	_, err = ParseLiteral("x", reflect.TypeOf(struct{}{}))
	require.ErrorIs(t, err, ErrNotConvertible)
}
