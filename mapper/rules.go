package mapper

import "caster-projection/internal/mapping"

// Rule adds a programmatic mapping rule to CreateMap. Paths are dotted
// field paths such as "Address.Street".
type Rule func(tm *mapping.TypeMapping)

// ForMember maps target from source. Several sources need a Transform rule
// instead.
func ForMember(target, source string) Rule {
	return func(tm *mapping.TypeMapping) {
		tm.Fields = append(tm.Fields, mapping.FieldMapping{
			Source: mapping.StringOrArray{source},
			Target: mapping.StringOrArray{target},
		})
	}
}

// MapFrom121 maps each source path to its target path.
func MapFrom121(pairs map[string]string) Rule {
	return func(tm *mapping.TypeMapping) {
		if tm.OneToOne == nil {
			tm.OneToOne = make(map[string]string, len(pairs))
		}

		for source, target := range pairs {
			tm.OneToOne[source] = target
		}
	}
}

// Ignore leaves targets at their zero value.
func Ignore(targets ...string) Rule {
	return func(tm *mapping.TypeMapping) {
		tm.Ignore = append(tm.Ignore, targets...)
	}
}

// Default sets target from a literal parsed into the target field's type.
func Default(target, literal string) Rule {
	return func(tm *mapping.TypeMapping) {
		tm.Fields = append(tm.Fields, mapping.FieldMapping{
			Target:  mapping.StringOrArray{target},
			Default: &literal,
		})
	}
}

// Transform sets target from the registered transform name applied to sources.
func Transform(target, name string, sources ...string) Rule {
	return func(tm *mapping.TypeMapping) {
		tm.Fields = append(tm.Fields, mapping.FieldMapping{
			Source:    mapping.StringOrArray(sources),
			Target:    mapping.StringOrArray{target},
			Transform: name,
		})
	}
}
