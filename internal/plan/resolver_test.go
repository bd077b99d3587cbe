package plan

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster-projection/internal/analyze"
	"caster-projection/internal/mapping"
	"caster-projection/primitive"
)

type address struct {
	Street string
	City   string
}

type addressView struct {
	City   string
	Street string
}

type person struct {
	ID      int
	Name    string
	Email   string
	Age     int32
	Nick    *string
	Home    address
	Tags    []string
	Friends []address
}

type personView struct {
	ID      int64
	Name    string
	Email   string
	Age     *int32
	Nick    string
	Home    addressView
	Tags    []string
	Friends []addressView
}

type order struct {
	CustomerID int
	First      string
	Last       string
	Total      float64
	Lines      []string
}

type orderView struct {
	Customer int
	FullName string
	Status   string
	Amount   float64
	Gross    float64
	Internal string
}

type node struct {
	Name string
	Next *node
}

type nodeView struct {
	Name string
	Next *nodeView
}

type counter struct {
	Count int
	Label string
}

type counterText struct {
	Count string
	Label string
}

type named struct {
	Name string
}

type flagged struct {
	Name     string
	Archived bool
}

func newResolver(t *testing.T, yamlRules string, config ResolutionConfig, types ...any) *Resolver {
	t.Helper()

	graph := analyze.NewTypeGraph()
	for _, v := range types {
		graph.Inspect(reflect.TypeOf(v))
	}

	var mf *mapping.MappingFile

	if yamlRules != "" {
		var err error

		mf, err = mapping.Parse([]byte(yamlRules))
		require.NoError(t, err)
	}

	registry := mapping.NewTransformRegistry()
	require.NoError(t, registry.Register("joinNames", func(first, last string) string { return first + " " + last }))

	return NewResolver(graph, mf, registry, config)
}

func findMapping(t *testing.T, tp *ResolvedTypePair, target string) ResolvedFieldMapping {
	t.Helper()

	for _, m := range tp.Mappings {
		for _, p := range m.TargetPaths {
			if p.String() == target {
				return m
			}
		}
	}

	require.Failf(t, "mapping not found", "no mapping for target %q in %s", target, tp.Key())

	return ResolvedFieldMapping{}
}

func TestResolvePair_AutoMatch(t *testing.T) {
	r := newResolver(t, "", DefaultConfig())

	tp, diags, err := r.ResolvePair(reflect.TypeOf(person{}), reflect.TypeOf(personView{}))
	require.NoError(t, err)
	assert.False(t, diags.HasErrors(), diags.Lines())
	assert.Empty(t, tp.UnmappedTargets)

	expected := map[string]ConversionStrategy{
		"ID":      StrategyConvert,
		"Name":    StrategyDirectAssign,
		"Email":   StrategyDirectAssign,
		"Age":     StrategyPointerWrap,
		"Nick":    StrategyPointerDeref,
		"Home":    StrategyNestedCast,
		"Tags":    StrategyDirectAssign,
		"Friends": StrategySliceMap,
	}

	for target, strategy := range expected {
		m := findMapping(t, tp, target)
		assert.Equal(t, strategy, m.Strategy, target)
		assert.Equal(t, MappingSourceAutoMatched, m.Source, target)
		assert.Equal(t, target, m.SourcePaths[0].String(), target)
	}

	require.Len(t, tp.NestedPairs, 1)

	nested := tp.NestedPairs[0]
	assert.Equal(t, "address", nested.SourceType.ID.Name)
	assert.Equal(t, "addressView", nested.TargetType.ID.Name)
	assert.Len(t, nested.ReferencedBy, 2)
	require.NotNil(t, nested.ResolvedPair)
	assert.Len(t, nested.ResolvedPair.Mappings, 2)
	assert.Same(t, nested.ResolvedPair, tp.Nested(nested.SourceType, nested.TargetType))
}

func TestResolvePair_NotAStruct(t *testing.T) {
	r := newResolver(t, "", DefaultConfig())

	_, _, err := r.ResolvePair(reflect.TypeOf(1), reflect.TypeOf(person{}))
	require.ErrorIs(t, err, analyze.ErrNotAStruct)
}

func TestResolvePair_Recursive(t *testing.T) {
	r := newResolver(t, "", DefaultConfig())

	tp, _, err := r.ResolvePair(reflect.TypeOf(node{}), reflect.TypeOf(nodeView{}))
	require.NoError(t, err)

	next := findMapping(t, tp, "Next")
	assert.Equal(t, StrategyPointerNestedCast, next.Strategy)

	require.Len(t, tp.NestedPairs, 1)
	assert.Same(t, tp, tp.NestedPairs[0].ResolvedPair)

	visited := 0

	tp.Walk(func(*ResolvedTypePair) { visited++ })
	assert.Equal(t, 1, visited)
}

func TestResolvePair_Categories(t *testing.T) {
	r := newResolver(t, "", DefaultConfig())

	tp, diags, err := r.ResolvePair(reflect.TypeOf(counter{}), reflect.TypeOf(counterText{}))
	require.NoError(t, err)
	require.Len(t, tp.UnmappedTargets, 1)
	assert.Equal(t, "Count", tp.UnmappedTargets[0].TargetPath.String())
	assert.Contains(t, tp.UnmappedTargets[0].Reason, "allowed categories")
	assert.False(t, diags.HasErrors())
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "unmapped_field", diags.Warnings[0].Code)

	config := DefaultConfig()
	config.Categories = primitive.CategoryAll
	r = newResolver(t, "", config)

	tp, _, err = r.ResolvePair(reflect.TypeOf(counter{}), reflect.TypeOf(counterText{}))
	require.NoError(t, err)
	assert.Empty(t, tp.UnmappedTargets)

	count := findMapping(t, tp, "Count")
	assert.Equal(t, StrategyConvert, count.Strategy)
	assert.Contains(t, count.Explanation, "scalar conversion (text_number)")
}

func TestResolvePair_Strict(t *testing.T) {
	config := DefaultConfig()
	config.StrictMode = true
	r := newResolver(t, "", config)

	tp, diags, err := r.ResolvePair(reflect.TypeOf(named{}), reflect.TypeOf(flagged{}))
	require.ErrorIs(t, err, ErrStrict)
	require.NotNil(t, tp)
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, "Archived", diags.Errors[0].FieldPath)
}

const orderRules = `
mappings:
  - source: plan.order
    target: plan.orderView
    121:
      CustomerID: Customer
    fields:
      - source: [First, Last]
        target: FullName
        transform: joinNames
      - target: Status
        default: new
      - source: Total
        target: [Amount, Gross]
    ignore: [Internal]
`

func TestResolve_Rules(t *testing.T) {
	r := newResolver(t, orderRules, DefaultConfig(), order{}, orderView{})

	plan, err := r.Resolve()
	require.NoError(t, err)
	assert.True(t, plan.Diagnostics.IsValid(), plan.Diagnostics.Lines())
	require.Len(t, plan.TypePairs, 1)

	tp := plan.TypePairs[0]
	assert.Empty(t, tp.UnmappedTargets)
	assert.Len(t, tp.Mappings, 6)

	customer := findMapping(t, tp, "Customer")
	assert.Equal(t, MappingSourceYAML121, customer.Source)
	assert.Equal(t, StrategyDirectAssign, customer.Strategy)

	fullName := findMapping(t, tp, "FullName")
	assert.Equal(t, StrategyTransform, fullName.Strategy)
	assert.Equal(t, "joinNames", fullName.Transform)
	assert.Equal(t, mapping.CardinalityManyToOne, fullName.Cardinality)
	assert.Len(t, fullName.SourcePaths, 2)

	status := findMapping(t, tp, "Status")
	assert.Equal(t, StrategyDefault, status.Strategy)
	require.NotNil(t, status.Default)
	assert.Equal(t, "new", *status.Default)

	for _, target := range []string{"Amount", "Gross"} {
		m := findMapping(t, tp, target)
		assert.Equal(t, StrategyDirectAssign, m.Strategy)
		assert.Len(t, m.TargetPaths, 1)
		assert.Equal(t, "Total", m.SourcePaths[0].String())
	}

	assert.Equal(t, StrategyIgnore, findMapping(t, tp, "Internal").Strategy)
	assert.False(t, tp.HasIncompleteMappings())
}

func TestResolve_RuleErrors(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		message string
	}{
		{
			name:    "unknown transform",
			field:   "{source: First, target: FullName, transform: nope}",
			message: `transform "nope" is not registered`,
		},
		{
			name:    "transform arity",
			field:   "{source: First, target: FullName, transform: joinNames}",
			message: "takes 2 arguments",
		},
		{
			name:    "many to one without transform",
			field:   "{source: [First, Last], target: FullName}",
			message: "requires transform",
		},
		{
			name:    "slice element path",
			field:   "{source: \"Lines[]\", target: Status}",
			message: "slice element paths are not supported",
		},
		{
			name:    "invalid default",
			field:   "{target: Amount, default: lots}",
			message: `default "lots"`,
		},
		{
			name:    "unknown field",
			field:   "{source: Missing, target: Status}",
			message: `field "Missing" not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := "mappings:\n  - source: plan.order\n    target: plan.orderView\n    fields:\n      - " + tt.field + "\n"
			r := newResolver(t, rules, DefaultConfig(), order{}, orderView{})

			plan, err := r.Resolve()
			require.NoError(t, err)
			require.NotEmpty(t, plan.Diagnostics.Errors)
			assert.Equal(t, "field_mapping_error", plan.Diagnostics.Errors[0].Code)
			assert.Contains(t, plan.Diagnostics.Errors[0].Message, tt.message)
		})
	}
}

func TestResolve_Override(t *testing.T) {
	rules := `
mappings:
  - source: plan.order
    target: plan.orderView
    121:
      Total: Amount
    fields:
      - source: Total
        target: Amount
`
	r := newResolver(t, rules, DefaultConfig(), order{}, orderView{})

	plan, err := r.Resolve()
	require.NoError(t, err)
	require.NotEmpty(t, plan.Diagnostics.Warnings)
	assert.Equal(t, "mapping_override", plan.Diagnostics.Warnings[0].Code)

	amount := findMapping(t, plan.TypePairs[0], "Amount")
	assert.Equal(t, MappingSourceYAML121, amount.Source)
}

func TestResolve_UnknownTypes(t *testing.T) {
	config := DefaultConfig()
	config.StrictMode = true
	r := newResolver(t, "mappings:\n  - {source: plan.nothing, target: plan.orderView}\n", config, orderView{})

	plan, err := r.Resolve()
	require.ErrorIs(t, err, ErrStrict)
	assert.Empty(t, plan.TypePairs)
	assert.Equal(t, "resolve_failed", plan.Diagnostics.Errors[0].Code)
}
