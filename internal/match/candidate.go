package match

import (
	"reflect"
	"sort"

	"caster-projection/internal/analyze"
)

// Confidence thresholds for auto-accepting matches.
const (
	// DefaultMinScore is the minimum combined score for auto-acceptance.
	DefaultMinScore = 0.7
	// DefaultMinGap is the minimum score gap between top candidates.
	DefaultMinGap = 0.15
	// DefaultAmbiguityThreshold is the score difference that marks ambiguity.
	DefaultAmbiguityThreshold = 0.1
)

// Combined score weights.
const (
	nameWeight = 0.6
	typeWeight = 0.4
)

// Candidate represents a potential mapping from a source field to a target field.
type Candidate struct {
	SourceField *analyze.FieldInfo
	TargetField *analyze.FieldInfo

	NameScore     float64 // similarity in [0, 1]
	TypeCompat    TypeCompatibilityResult
	CombinedScore float64 // higher is better
}

// CandidateList is a list of candidates sorted best first.
type CandidateList []Candidate

// RankCandidates scores every exported source field against targetField and
// returns them sorted by combined score, ties broken by source field name.
func RankCandidates(targetField *analyze.FieldInfo, sourceFields []analyze.FieldInfo) CandidateList {
	candidates := make(CandidateList, 0, len(sourceFields))

	for i := range sourceFields {
		sourceField := &sourceFields[i]
		if !sourceField.Exported {
			continue
		}

		nameScore := NameScore(sourceField.Name, targetField.Name)
		typeCompat := ScoreTypeCompatibility(fieldType(sourceField), fieldType(targetField))

		candidates = append(candidates, Candidate{
			SourceField:   sourceField,
			TargetField:   targetField,
			NameScore:     nameScore,
			TypeCompat:    typeCompat,
			CombinedScore: nameScore*nameWeight + typeCompat.Compatibility.typeScore()*typeWeight,
		})
	}

	sort.Sort(candidates)

	return candidates
}

func fieldType(f *analyze.FieldInfo) reflect.Type {
	if f.Type == nil {
		return nil
	}

	return f.Type.Type
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].CombinedScore != c[j].CombinedScore {
		return c[i].CombinedScore > c[j].CombinedScore
	}

	return c[i].SourceField.Name < c[j].SourceField.Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Names returns the source field names in rank order.
func (c CandidateList) Names() []string {
	names := make([]string, len(c))
	for i := range c {
		names[i] = c[i].SourceField.Name
	}

	return names
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// IsAmbiguous returns true if the top two candidates are within the threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}

	return c[0].CombinedScore-c[1].CombinedScore < threshold
}

// AboveThreshold returns candidates with combined score above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var out CandidateList

	for _, cand := range c {
		if cand.CombinedScore >= threshold {
			out = append(out, cand)
		}
	}

	return out
}

// HighConfidence returns the best candidate if it reaches minScore, is at
// least convertible through some strategy and leads the runner-up by minGap.
func (c CandidateList) HighConfidence(minScore, minGap float64) *Candidate {
	best := c.Best()
	if best == nil || best.CombinedScore < minScore {
		return nil
	}

	if best.TypeCompat.Compatibility < TypeNeedsTransform {
		return nil
	}

	if len(c) > 1 && c[0].CombinedScore-c[1].CombinedScore < minGap {
		return nil
	}

	return best
}
