package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	mf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return mf, nil
}

// Parse parses YAML data into a MappingFile. Unknown keys are rejected so
// that typos in rule names do not silently fall back to auto matching.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&mf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	if mf.Version == "" {
		mf.Version = "1"
	}

	return &mf, nil
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(mf); err != nil {
		return nil, fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal mapping: %w", err)
	}

	return buf.Bytes(), nil
}

// ExpandOneToOne returns the 121 shorthand as field mappings, ordered by
// source path so resolution does not depend on map iteration order.
func (tm *TypeMapping) ExpandOneToOne() []FieldMapping {
	sources := make([]string, 0, len(tm.OneToOne))
	for source := range tm.OneToOne {
		sources = append(sources, source)
	}

	slices.Sort(sources)

	expanded := make([]FieldMapping, 0, len(sources))
	for _, source := range sources {
		expanded = append(expanded, FieldMapping{
			Source: StringOrArray{source},
			Target: StringOrArray{tm.OneToOne[source]},
		})
	}

	return expanded
}
