package common

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirst(t *testing.T) {
	v, ok := First([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = First([]string(nil))
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestUnpack2(t *testing.T) {
	a, b := Unpack2([]int{1, 2, 3})
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)

	a, b = Unpack2([]int{7})
	assert.Equal(t, 7, a)
	assert.Equal(t, 0, b)
}

func TestShortTypeName(t *testing.T) {
	type local struct{}

	assert.Equal(t, "common.local", ShortTypeName(reflect.TypeOf(local{})))
	assert.Equal(t, "[]int", ShortTypeName(reflect.TypeOf([]int{})))
	assert.Equal(t, "<nil>", ShortTypeName(nil))
}
