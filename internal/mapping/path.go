package mapping

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrInvalidPath = errors.New("invalid path")

// ParsePath parses a field path string into a FieldPath.
// Supports: "Field", "Nested.Field", "Items[]", "Items[].ProductID".
func ParsePath(path string) (FieldPath, error) {
	if path == "" {
		return FieldPath{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	var segments []PathSegment

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return FieldPath{}, fmt.Errorf("%w %q: empty segment", ErrInvalidPath, path)
		}

		name, isSlice := strings.CutSuffix(part, "[]")
		if isSlice && name == "" {
			return FieldPath{}, fmt.Errorf("%w %q: slice without field name", ErrInvalidPath, path)
		}

		if !isValidIdent(name) {
			return FieldPath{}, fmt.Errorf("%w %q: invalid identifier %q", ErrInvalidPath, path, name)
		}

		segments = append(segments, PathSegment{Name: name, IsSlice: isSlice})
	}

	return FieldPath{Segments: segments}, nil
}

// ParsePaths parses multiple field paths.
func ParsePaths(paths StringOrArray) ([]FieldPath, error) {
	result := make([]FieldPath, 0, len(paths))

	for _, p := range paths {
		fp, err := ParsePath(p)
		if err != nil {
			return nil, err
		}

		result = append(result, fp)
	}

	return result, nil
}

func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}
