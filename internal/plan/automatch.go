package plan

import (
	"fmt"

	"caster-projection/internal/analyze"
	"caster-projection/internal/diagnostic"
	"caster-projection/internal/mapping"
	"caster-projection/internal/match"
)

// structuralNameScore is the name score above which struct and list fields
// are matched even when the combined score is low.
const structuralNameScore = 0.8

// autoMatchRemainingFields uses best-effort matching for unmapped target fields.
func (r *Resolver) autoMatchRemainingFields(
	result *ResolvedTypePair,
	mappedTargets map[string]bool,
	diags *diagnostic.Diagnostics,
) {
	targetType := result.TargetType

	for i := range targetType.Fields {
		targetField := &targetType.Fields[i]

		if mappedTargets[targetField.Name] || !targetField.Exported {
			continue
		}

		candidates := match.RankCandidates(targetField, result.SourceType.Fields)
		best := candidates.HighConfidence(r.config.MinConfidence, r.config.MinGap)

		if best == nil && len(candidates) > 0 && structurallyMatched(&candidates[0]) {
			best = &candidates[0]
		}

		targetPath := mapping.FieldPath{Segments: []mapping.PathSegment{{Name: targetField.Name}}}

		var reason string

		if best != nil {
			strategy, expl := r.StrategyFor(best.SourceField.Type, targetField.Type)
			if strategy != StrategyTransform {
				result.Mappings = append(result.Mappings, ResolvedFieldMapping{
					TargetPaths: []mapping.FieldPath{targetPath},
					SourcePaths: []mapping.FieldPath{{Segments: []mapping.PathSegment{{Name: best.SourceField.Name}}}},
					Source:      MappingSourceAutoMatched,
					Cardinality: mapping.CardinalityOneToOne,
					Strategy:    strategy,
					Confidence:  best.CombinedScore,
					Explanation: fmt.Sprintf("auto-matched: %s -> %s (score: %.2f, %s)",
						best.SourceField.Name, targetField.Name, best.CombinedScore, expl),
				})
				mappedTargets[targetField.Name] = true

				continue
			}

			reason = fmt.Sprintf("best match %q has no conversion in allowed categories (%s)",
				best.SourceField.Name, r.config.Categories)
		} else {
			reason = r.unmatchedReason(candidates)
		}

		result.UnmappedTargets = append(result.UnmappedTargets, UnmappedField{
			TargetField: targetField,
			TargetPath:  targetPath,
			Candidates:  candidates.Top(r.config.MaxCandidates),
			Reason:      reason,
		})

		message := fmt.Sprintf("target field %q: %s", targetField.Name, reason)
		suggestions := candidates.Top(r.config.MaxCandidates).Names()

		if r.config.StrictMode {
			diags.AddError("unmapped_field", message, result.Key(), targetField.Name)
		} else {
			diags.AddWarningWithSuggestions("unmapped_field", message, result.Key(), targetField.Name, suggestions)
		}
	}
}

// structurallyMatched accepts a well named struct-to-struct or list-to-list
// candidate whose element types would otherwise drag the score down.
func structurallyMatched(c *match.Candidate) bool {
	if c.NameScore < structuralNameScore || c.SourceField.Type == nil || c.TargetField.Type == nil {
		return false
	}

	src, dst := c.SourceField.Type.Deref(), c.TargetField.Type.Deref()

	return (src.Kind == analyze.TypeKindStruct && dst.Kind == analyze.TypeKindStruct) ||
		(isList(src) && isList(dst))
}

func (r *Resolver) unmatchedReason(candidates match.CandidateList) string {
	switch {
	case len(candidates) == 0:
		return "no compatible source fields found"
	case len(candidates) >= 2 && candidates.IsAmbiguous(r.config.AmbiguityThreshold):
		return fmt.Sprintf("ambiguous: top candidates %q (%.2f) and %q (%.2f) are too close",
			candidates[0].SourceField.Name, candidates[0].CombinedScore,
			candidates[1].SourceField.Name, candidates[1].CombinedScore)
	case candidates[0].CombinedScore < r.config.MinConfidence:
		return fmt.Sprintf("best match %q (%.2f) below threshold %.2f",
			candidates[0].SourceField.Name, candidates[0].CombinedScore, r.config.MinConfidence)
	default:
		return "no high-confidence match"
	}
}
