package mapping

import (
	"strings"

	"caster-projection/internal/common"
)

// MappingFile represents the root of a YAML mapping definition file.
type MappingFile struct {
	// Version of the mapping schema.
	Version string `yaml:"version,omitempty"`

	// TypeMappings is a list of type pair mappings.
	TypeMappings []TypeMapping `yaml:"mappings"`

	// Transforms documents the transform functions referenced by fields.
	Transforms []TransformDef `yaml:"transforms,omitempty"`
}

// TypeMapping defines how to map one source type to one target type.
type TypeMapping struct {
	// Source type identifier (e.g., "sample.Record" or full path).
	Source string `yaml:"source"`

	// Target type identifier (e.g., "sample.RecordDTO" or full path).
	Target string `yaml:"target"`

	// OneToOne maps source field paths to target field paths.
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields defines explicit field mappings with full control.
	Fields []FieldMapping `yaml:"fields,omitempty"`

	// Ignore lists target fields that should not be mapped.
	Ignore []string `yaml:"ignore,omitempty"`

	// Auto holds reviewed automatic matches.
	Auto []FieldMapping `yaml:"auto,omitempty"`
}

// Find returns the type mapping declared for the source/target pair, or nil.
// Identifiers are compared with the same rules as ResolveTypeID.
func (mf *MappingFile) Find(source, target string) *TypeMapping {
	for i := range mf.TypeMappings {
		tm := &mf.TypeMappings[i]
		if typeIDMatches(tm.Source, source) && typeIDMatches(tm.Target, target) {
			return tm
		}
	}

	return nil
}

// FieldMapping defines how target field(s) are populated from source field(s).
type FieldMapping struct {
	// Source path(s). If empty, the field is set from Default.
	Source StringOrArray `yaml:"source,omitempty"`

	// Target path(s).
	Target StringOrArray `yaml:"target"`

	// Default is a literal assigned when Source is empty.
	Default *string `yaml:"default,omitempty"`

	// Transform names a registered transform function.
	Transform string `yaml:"transform,omitempty"`
}

// Cardinality represents the mapping cardinality.
type Cardinality int

const (
	CardinalityOneToOne   Cardinality = iota // 1:1 - single source to single target
	CardinalityOneToMany                     // 1:N - single source to multiple targets
	CardinalityManyToOne                     // N:1 - multiple sources to single target
	CardinalityManyToMany                    // N:M - multiple sources to multiple targets
)

// String returns a human-readable representation of the cardinality.
func (c Cardinality) String() string {
	switch c {
	case CardinalityOneToOne:
		return "1:1"
	case CardinalityOneToMany:
		return "1:N"
	case CardinalityManyToOne:
		return "N:1"
	case CardinalityManyToMany:
		return "N:M"
	default:
		return common.UnknownStr
	}
}

// GetCardinality returns the cardinality of this field mapping.
func (fm *FieldMapping) GetCardinality() Cardinality {
	sources, targets := len(fm.Source), len(fm.Target)

	switch {
	case sources <= 1 && targets <= 1:
		return CardinalityOneToOne
	case sources <= 1:
		return CardinalityOneToMany
	case targets <= 1:
		return CardinalityManyToOne
	default:
		return CardinalityManyToMany
	}
}

// NeedsTransform returns true for N:1 and N:M mappings.
func (fm *FieldMapping) NeedsTransform() bool {
	card := fm.GetCardinality()

	return card == CardinalityManyToOne || card == CardinalityManyToMany
}

// TransformDef documents a transform function.
type TransformDef struct {
	// Name is the transform identifier used in field mappings.
	Name string `yaml:"name"`

	// SourceType is the expected input type (e.g., "string", "sample.Record").
	SourceType string `yaml:"source_type,omitempty"`

	// TargetType is the expected output type.
	TargetType string `yaml:"target_type,omitempty"`

	// Description is an optional human-readable description.
	Description string `yaml:"description,omitempty"`
}

// MappingPriority represents the priority level of a mapping rule.
type MappingPriority int

const (
	PriorityAuto     MappingPriority = iota // Lowest: auto-matched
	PriorityIgnore                          // Third: explicitly ignored
	PriorityFields                          // Second: explicit field mappings
	PriorityOneToOne                        // Highest: 121 shorthand mappings
)

// String returns a human-readable representation of the priority.
func (p MappingPriority) String() string {
	switch p {
	case PriorityOneToOne:
		return "121"
	case PriorityFields:
		return "fields"
	case PriorityIgnore:
		return "ignore"
	case PriorityAuto:
		return "auto"
	default:
		return common.UnknownStr
	}
}

// PathSegment represents a parsed segment of a field path.
type PathSegment struct {
	// Name is the field name.
	Name string

	// IsSlice indicates this segment accesses slice elements (e.g., "Items[]").
	IsSlice bool
}

// FieldPath represents a parsed field path like "Address.Street".
type FieldPath struct {
	Segments []PathSegment
}

// String returns the path as a string.
func (p FieldPath) String() string {
	var sb strings.Builder

	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteString(".")
		}

		sb.WriteString(seg.Name)

		if seg.IsSlice {
			sb.WriteString("[]")
		}
	}

	return sb.String()
}

// IsSimple returns true if this is a single field without slice notation.
func (p FieldPath) IsSimple() bool {
	return len(p.Segments) == 1 && !p.Segments[0].IsSlice
}

// HasSlice returns true if any segment uses slice notation.
func (p FieldPath) HasSlice() bool {
	for _, seg := range p.Segments {
		if seg.IsSlice {
			return true
		}
	}

	return false
}

// Root returns the first segment's field name.
func (p FieldPath) Root() string {
	if len(p.Segments) == 0 {
		return ""
	}

	return p.Segments[0].Name
}

// IsEmpty returns true if the path has no segments.
func (p FieldPath) IsEmpty() bool {
	return len(p.Segments) == 0
}

// Equals returns true if two paths are equal.
func (p FieldPath) Equals(other FieldPath) bool {
	if len(p.Segments) != len(other.Segments) {
		return false
	}

	for i, seg := range p.Segments {
		if seg != other.Segments[i] {
			return false
		}
	}

	return true
}
