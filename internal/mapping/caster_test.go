package mapping_test

import (
	"fmt"
	"strconv"
	"strings"

	"caster-projection/internal/mapping"
)

type moreThanError interface {
	error
	More()
}

func empty()                          { panic("not implemented") }
func wrong(int) (string, error, bool) { panic("not implemented") }
func double(**int) string             { panic("not implemented") }
func variadic(...string) string       { panic("not implemented") }

func full(int) (string, bool, error)          { panic("not implemented") }
func customError(int) (string, moreThanError) { panic("not implemented") }

func ExampleParseCaster() {
	desc, err := mapping.ParseCaster(full)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src().Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = mapping.ParseCaster(strconv.Itoa)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src().Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = mapping.ParseCaster(strconv.Atoi)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src().Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = mapping.ParseCaster(customError)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src().Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = mapping.ParseCaster(strings.Repeat)
	fmt.Println(err, desc.Name, desc.Arity())

	_, err = mapping.ParseCaster(empty)
	fmt.Println(err)

	_, err = mapping.ParseCaster(wrong)
	fmt.Println(err)

	_, err = mapping.ParseCaster(double)
	fmt.Println(err)

	_, err = mapping.ParseCaster(variadic)
	fmt.Println(err)

	_, err = mapping.ParseCaster(42)
	fmt.Println(err)

	// Output:
	// <nil> mapping_test full int string true true
	// <nil> strconv Itoa int string false false
	// <nil> strconv Atoi string int false true
	// <nil> mapping_test customError int string false true
	// <nil> Repeat 2
	// provided function is not a recognizable caster
	// provided function is not a recognizable caster
	// caster function does not support double pointers
	// provided function is not a recognizable caster
	// provided caster is not a function
}
