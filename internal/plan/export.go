package plan

import (
	"fmt"
	"strings"

	"caster-projection/internal/mapping"
)

// ExportSuggestions generates a mapping file from a resolved plan so that
// auto-matched mappings can be reviewed and pinned. Unmapped targets are
// exported as ignored.
func ExportSuggestions(plan *ResolvedMappingPlan) *mapping.MappingFile {
	mf := &mapping.MappingFile{Version: "1"}

	for _, root := range plan.TypePairs {
		root.Walk(func(tp *ResolvedTypePair) {
			if mf.Find(tp.SourceType.ID.String(), tp.TargetType.ID.String()) != nil {
				return
			}

			mf.TypeMappings = append(mf.TypeMappings, exportTypePair(tp))
		})
	}

	return mf
}

// ExportSuggestionsYAML generates suggested YAML as a byte slice.
func ExportSuggestionsYAML(plan *ResolvedMappingPlan) ([]byte, error) {
	return mapping.Marshal(ExportSuggestions(plan))
}

func exportTypePair(tp *ResolvedTypePair) mapping.TypeMapping {
	tm := mapping.TypeMapping{
		Source: tp.SourceType.ID.String(),
		Target: tp.TargetType.ID.String(),
	}

	for i := range tp.Mappings {
		m := &tp.Mappings[i]

		switch {
		case m.Strategy == StrategyIgnore:
			for _, p := range m.TargetPaths {
				tm.Ignore = append(tm.Ignore, p.String())
			}

		case m.Source == MappingSourceYAML121:
			if tm.OneToOne == nil {
				tm.OneToOne = make(map[string]string)
			}

			tm.OneToOne[m.SourcePaths[0].String()] = m.TargetPaths[0].String()

		case m.Source == MappingSourceYAMLFields:
			tm.Fields = append(tm.Fields, exportFieldMapping(m))

		default:
			tm.Auto = append(tm.Auto, exportFieldMapping(m))
		}
	}

	for _, um := range tp.UnmappedTargets {
		tm.Ignore = append(tm.Ignore, um.TargetPath.String())
	}

	return tm
}

func exportFieldMapping(m *ResolvedFieldMapping) mapping.FieldMapping {
	fm := mapping.FieldMapping{
		Default:   m.Default,
		Transform: m.Transform,
	}

	for _, p := range m.TargetPaths {
		fm.Target = append(fm.Target, p.String())
	}

	for _, p := range m.SourcePaths {
		fm.Source = append(fm.Source, p.String())
	}

	return fm
}

// SuggestionReport is a human-readable summary of a resolved plan.
type SuggestionReport struct {
	TypePairs []TypePairReport
}

// TypePairReport summarizes one type pair.
type TypePairReport struct {
	Source        string
	Target        string
	Mappings      []MatchReport
	Unmapped      []UnmappedReport
	ExplicitCount int
	IgnoredCount  int
	AutoCount     int
	NeedsReview   bool
}

// MatchReport describes one resolved field mapping.
type MatchReport struct {
	SourceField string
	TargetField string
	Origin      string
	Confidence  float64
	Strategy    string
	Explanation string
}

// UnmappedReport describes an unmapped field with suggestions.
type UnmappedReport struct {
	TargetField string
	Reason      string
	Candidates  []CandidateReport
}

// CandidateReport describes a potential match candidate.
type CandidateReport struct {
	SourceField string
	Score       float64
	TypeCompat  string
}

// GenerateReport creates a report covering every pair of the plan and
// their nested pairs.
func GenerateReport(plan *ResolvedMappingPlan) *SuggestionReport {
	report := &SuggestionReport{}
	seen := make(map[string]bool)

	for _, root := range plan.TypePairs {
		root.Walk(func(tp *ResolvedTypePair) {
			if seen[tp.Key()] {
				return
			}

			seen[tp.Key()] = true
			report.TypePairs = append(report.TypePairs, reportTypePair(tp))
		})
	}

	return report
}

func reportTypePair(tp *ResolvedTypePair) TypePairReport {
	tpr := TypePairReport{
		Source: tp.SourceType.ID.String(),
		Target: tp.TargetType.ID.String(),
	}

	for _, m := range tp.Mappings {
		switch {
		case m.Strategy == StrategyIgnore:
			tpr.IgnoredCount++
		case m.Source == MappingSourceAutoMatched:
			tpr.AutoCount++
		default:
			tpr.ExplicitCount++
		}

		mr := MatchReport{
			TargetField: joinPaths(m.TargetPaths),
			SourceField: joinPaths(m.SourcePaths),
			Origin:      m.Source.String(),
			Confidence:  m.Confidence,
			Strategy:    m.Strategy.String(),
			Explanation: m.Explanation,
		}

		tpr.Mappings = append(tpr.Mappings, mr)
	}

	for _, um := range tp.UnmappedTargets {
		umr := UnmappedReport{
			TargetField: um.TargetPath.String(),
			Reason:      um.Reason,
		}

		for _, c := range um.Candidates {
			umr.Candidates = append(umr.Candidates, CandidateReport{
				SourceField: c.SourceField.Name,
				Score:       c.CombinedScore,
				TypeCompat:  c.TypeCompat.Compatibility.String(),
			})
		}

		tpr.Unmapped = append(tpr.Unmapped, umr)
	}

	tpr.NeedsReview = len(tpr.Unmapped) > 0 || tp.HasIncompleteMappings()

	return tpr
}

func joinPaths(paths []mapping.FieldPath) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = p.String()
	}

	return strings.Join(names, ", ")
}

// FormatReport formats a suggestion report as human-readable text.
func FormatReport(report *SuggestionReport) string {
	var sb strings.Builder

	for _, tp := range report.TypePairs {
		fmt.Fprintf(&sb, "=== %s -> %s ===\n", tp.Source, tp.Target)
		fmt.Fprintf(&sb, "Explicit: %d, Ignored: %d, Auto-matched: %d, Unmapped: %d\n",
			tp.ExplicitCount, tp.IgnoredCount, tp.AutoCount, len(tp.Unmapped))

		for _, m := range tp.Mappings {
			source := m.SourceField
			if source == "" {
				source = "-"
			}

			fmt.Fprintf(&sb, "  ✓ %s -> %s (%s, %s, %.0f%%)\n",
				source, m.TargetField, m.Strategy, m.Origin, m.Confidence*100)
		}

		for _, um := range tp.Unmapped {
			fmt.Fprintf(&sb, "  ✗ %s: %s\n", um.TargetField, um.Reason)

			for i, c := range um.Candidates {
				fmt.Fprintf(&sb, "      %d. %s (%.0f%%, %s)\n", i+1, c.SourceField, c.Score*100, c.TypeCompat)
			}
		}

		if tp.NeedsReview {
			sb.WriteString("⚠ This type pair needs manual review.\n")
		} else {
			sb.WriteString("✓ All target fields mapped.\n")
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
