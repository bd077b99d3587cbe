package plan

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster-projection/internal/mapping"
)

func TestExportSuggestions(t *testing.T) {
	r := newResolver(t, orderRules, DefaultConfig(), order{}, orderView{})

	plan, err := r.Resolve()
	require.NoError(t, err)

	mf := ExportSuggestions(plan)
	require.Len(t, mf.TypeMappings, 1)

	tm := mf.TypeMappings[0]
	assert.Equal(t, map[string]string{"CustomerID": "Customer"}, tm.OneToOne)
	assert.Equal(t, []string{"Internal"}, tm.Ignore)
	assert.Len(t, tm.Fields, 4)
	assert.Empty(t, tm.Auto)

	data, err := ExportSuggestionsYAML(plan)
	require.NoError(t, err)

	reparsed, err := mapping.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, mf.TypeMappings, reparsed.TypeMappings)
}

func TestExportSuggestions_AutoAndNested(t *testing.T) {
	r := newResolver(t, "", DefaultConfig())

	tp, _, err := r.ResolvePair(reflect.TypeOf(person{}), reflect.TypeOf(personView{}))
	require.NoError(t, err)

	mf := ExportSuggestions(&ResolvedMappingPlan{TypePairs: []*ResolvedTypePair{tp}})
	require.Len(t, mf.TypeMappings, 2)
	assert.Len(t, mf.TypeMappings[0].Auto, 8)
	assert.Equal(t, mapping.StringOrArray{"Street"}, mf.TypeMappings[1].Auto[1].Target)
}

func TestFormatReport(t *testing.T) {
	r := newResolver(t, "", DefaultConfig())

	tp, _, err := r.ResolvePair(reflect.TypeOf(counter{}), reflect.TypeOf(counterText{}))
	require.NoError(t, err)

	report := GenerateReport(&ResolvedMappingPlan{TypePairs: []*ResolvedTypePair{tp}})
	require.Len(t, report.TypePairs, 1)

	pair := report.TypePairs[0]
	assert.True(t, pair.NeedsReview)
	assert.Equal(t, 1, pair.AutoCount)
	require.Len(t, pair.Unmapped, 1)
	assert.Equal(t, "Count", pair.Unmapped[0].TargetField)

	text := FormatReport(report)
	assert.Contains(t, text, "counter -> ")
	assert.Contains(t, text, "✓ Label -> Label (direct_assign, auto, 100%)")
	assert.Contains(t, text, "✗ Count: ")
	assert.Contains(t, text, "1. Count (76%, needs_transform)")
	assert.Contains(t, text, "needs manual review")
}
