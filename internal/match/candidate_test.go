package match

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster-projection/internal/analyze"
)

type legacyOrder struct {
	customer_id  int64
	Customer_ID  int64 //nolint:revive // legacy column name
	CustomerName string
	Total        float64
}

type order struct {
	CustomerID int64
	Total      float64
	Email      string
}

func fields(t *testing.T, v any) []analyze.FieldInfo {
	t.Helper()

	info, err := analyze.NewTypeGraph().Struct(reflect.TypeOf(v))
	require.NoError(t, err)

	return info.Fields
}

func TestRankCandidates(t *testing.T) {
	source := fields(t, legacyOrder{})
	target := fields(t, order{})

	ranked := RankCandidates(&target[0], source)

	// the unexported field is never a candidate
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"Customer_ID", "CustomerName", "Total"}, ranked.Names())

	best := ranked.Best()
	require.NotNil(t, best)
	assert.InDelta(t, 1.0, best.NameScore, 1e-9)
	assert.Equal(t, TypeIdentical, best.TypeCompat.Compatibility)
	assert.InDelta(t, 1.0, best.CombinedScore, 1e-9)

	assert.Same(t, best, ranked.HighConfidence(DefaultMinScore, DefaultMinGap))
}

func TestRankCandidates_NoConfidentMatch(t *testing.T) {
	source := fields(t, legacyOrder{})
	target := fields(t, order{})

	ranked := RankCandidates(&target[2], source) // Email

	assert.Nil(t, ranked.HighConfidence(DefaultMinScore, DefaultMinGap))
	assert.Empty(t, ranked.AboveThreshold(DefaultMinScore))
}

func TestCandidateList_Helpers(t *testing.T) {
	mk := func(name string, score float64) Candidate {
		return Candidate{
			SourceField:   &analyze.FieldInfo{Name: name},
			CombinedScore: score,
			TypeCompat:    TypeCompatibilityResult{Compatibility: TypeConvertible},
		}
	}

	list := CandidateList{mk("A", 0.9), mk("B", 0.85), mk("C", 0.2)}

	assert.True(t, list.IsAmbiguous(DefaultAmbiguityThreshold))
	assert.Nil(t, list.HighConfidence(DefaultMinScore, DefaultMinGap))
	assert.Len(t, list.Top(2), 2)
	assert.Len(t, list.Top(10), 3)
	assert.Equal(t, []string{"A", "B"}, list.AboveThreshold(0.5).Names())

	assert.Nil(t, CandidateList{}.Best())
	assert.False(t, CandidateList{mk("A", 1)}.IsAmbiguous(DefaultAmbiguityThreshold))
}
