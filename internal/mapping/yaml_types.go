package mapping

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"caster-projection/internal/common"
)

// StringOrArray unmarshals from either a single string or a list of strings,
// so YAML can say "source: Name" as well as "source: [First, Last]".
type StringOrArray []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str == "" {
			*s = StringOrArray{}
		} else {
			*s = StringOrArray{str}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array of strings", node.Line)
	}
}

// MarshalYAML writes a single string when there is exactly one element.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	v, _ := common.First(s)

	return v
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// IsSingle returns true if the array has exactly one element.
func (s StringOrArray) IsSingle() bool {
	return common.IsSingle(s)
}

// IsMultiple returns true if the array has more than one element.
func (s StringOrArray) IsMultiple() bool {
	return common.IsMultiple(s)
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}
