package mapper

import (
	"fmt"
	"reflect"
	"sort"

	"caster-projection/internal/diagnostic"
	"caster-projection/internal/mapping"
	"caster-projection/internal/plan"
)

// AssertValid reports every configured map that leaves target fields
// unmapped or has mappings without a conversion, nested maps included.
func (c *Configuration) AssertValid() error {
	var diags diagnostic.Diagnostics

	for _, tm := range c.sortedMaps() {
		tm.pair.Walk(func(tp *plan.ResolvedTypePair) {
			for _, um := range tp.UnmappedTargets {
				diags.AddErrorWithSuggestions("unmapped_field", "target field is not mapped: "+um.Reason,
					tp.Key(), um.TargetPath.String(), um.Candidates.Names())
			}
		})

		for _, info := range tm.pair.FindIncompleteMappings() {
			diags.AddError("incomplete_mapping", info.Explanation, info.TypePair, info.TargetPath)
		}
	}

	if err := diags.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	return nil
}

// Explain describes the map configured for src -> dst and its nested maps.
func (c *Configuration) Explain(src, dst reflect.Type) (string, error) {
	tm := c.lookup(src, dst)
	if tm == nil {
		return "", fmt.Errorf("%w: %s -> %s", ErrNotConfigured, src, dst)
	}

	report := plan.GenerateReport(&plan.ResolvedMappingPlan{TypePairs: []*plan.ResolvedTypePair{tm.pair}})

	return plan.FormatReport(report), nil
}

// Validate checks the loaded mapping rules against the registered types
// and transforms.
func (c *Configuration) Validate() *diagnostic.Diagnostics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	diags := mapping.Validate(c.file, c.graph)
	diags.Merge(*c.registry.Check(c.file))

	return diags
}

// ExportYAML renders every configured map as mapping rules, so fuzzy
// matches can be reviewed and pinned in a mapping file.
func (c *Configuration) ExportYAML() ([]byte, error) {
	resolved := &plan.ResolvedMappingPlan{}
	for _, tm := range c.sortedMaps() {
		resolved.TypePairs = append(resolved.TypePairs, tm.pair)
	}

	return plan.ExportSuggestionsYAML(resolved)
}

func (c *Configuration) sortedMaps() []*typeMap {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*typeMap, 0, len(c.maps))
	for _, tm := range c.maps {
		out = append(out, tm)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].pair.Key() < out[j].pair.Key() })

	return out
}
