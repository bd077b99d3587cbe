package mapper

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"

	"go.uber.org/zap"

	"caster-projection/internal/analyze"
	"caster-projection/internal/diagnostic"
	"caster-projection/internal/mapping"
	"caster-projection/internal/plan"
	"caster-projection/primitive"
)

// Configuration holds the maps between type pairs. Registration methods
// take a write lock; mapping is safe for concurrent use.
type Configuration struct {
	mu         sync.RWMutex
	graph      *analyze.TypeGraph
	file       *mapping.MappingFile
	registry   *mapping.TransformRegistry
	resolution plan.ResolutionConfig
	maps       map[pairKey]*typeMap
}

type pairKey struct {
	src, dst reflect.Type
}

// Option configures a Configuration.
type Option func(*Configuration)

// WithCategories sets the scalar conversion categories allowed without a
// transform. The default is primitive.CategoryDefault.
func WithCategories(categories primitive.CategoryEnum) Option {
	return func(c *Configuration) {
		c.resolution.Categories = categories
	}
}

// WithStrict makes unmapped target fields fail CreateMap.
func WithStrict(strict bool) Option {
	return func(c *Configuration) {
		c.resolution.StrictMode = strict
	}
}

// WithMinConfidence sets the minimum score for accepting a fuzzy match.
func WithMinConfidence(score float64) Option {
	return func(c *Configuration) {
		c.resolution.MinConfidence = score
	}
}

// NewConfiguration creates an empty configuration.
func NewConfiguration(opts ...Option) *Configuration {
	c := &Configuration{
		graph:      analyze.NewTypeGraph(),
		file:       &mapping.MappingFile{Version: "1"},
		registry:   mapping.NewTransformRegistry(),
		resolution: plan.DefaultConfig(),
		maps:       make(map[pairKey]*typeMap),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LoadFile loads mapping rules from a YAML file.
func (c *Configuration) LoadFile(path string) error {
	mf, err := mapping.LoadFile(path)
	if err != nil {
		return err
	}

	c.addFile(mf)

	return nil
}

// LoadYAML loads mapping rules from YAML data.
func (c *Configuration) LoadYAML(data []byte) error {
	mf, err := mapping.Parse(data)
	if err != nil {
		return err
	}

	c.addFile(mf)

	return nil
}

func (c *Configuration) addFile(mf *mapping.MappingFile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.file.TypeMappings = append(c.file.TypeMappings, mf.TypeMappings...)
	c.file.Transforms = append(c.file.Transforms, mf.Transforms...)

	for i := range mf.Transforms {
		c.registry.Declare(&mf.Transforms[i])
	}

	Logger().Debug("mapping rules loaded",
		zap.Int("mappings", len(mf.TypeMappings)),
		zap.Int("transforms", len(mf.Transforms)))
}

// RegisterType makes T known by name to mapping rules and validation.
func RegisterType[T any](c *Configuration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.graph.Inspect(reflect.TypeFor[T]())
}

// RegisterTransform registers fn under name. fn must have one of the forms
// func(S...) D, func(S...) (D, bool), func(S...) (D, error) or
// func(S...) (D, bool, error).
func (c *Configuration) RegisterTransform(name string, fn any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.registry.Register(name, fn); err != nil {
		return err
	}

	for i := range c.file.Transforms {
		if c.file.Transforms[i].Name == name {
			c.registry.Declare(&c.file.Transforms[i])
		}
	}

	return nil
}

// CreateMap resolves and compiles the map from S to D.
func CreateMap[S, D any](c *Configuration, rules ...Rule) error {
	return c.createMap(reflect.TypeFor[S](), reflect.TypeFor[D](), rules)
}

func (c *Configuration) createMap(src, dst reflect.Type, rules []Rule) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	srcInfo, err := c.graph.Struct(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	dstInfo, err := c.graph.Struct(dst)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	code := &mapping.TypeMapping{}
	for _, rule := range rules {
		rule(code)
	}

	for _, fm := range code.Fields {
		if fm.Transform != "" && !c.registry.Has(fm.Transform) {
			return fmt.Errorf("%w: %q", ErrTransformNotFound, fm.Transform)
		}
	}

	var mergeDiags diagnostic.Diagnostics

	resolver := plan.NewResolver(c.graph, c.mergedFile(srcInfo, dstInfo, code, &mergeDiags), c.registry, c.resolution)

	pair, diags, err := resolver.ResolvePair(src, dst)
	diags.Merge(mergeDiags)
	logDiagnostics(&diags)

	if derr := diags.Error(); derr != nil {
		err = derr
	}

	if err != nil {
		return fmt.Errorf("%w: %s -> %s: %w", ErrInvalidConfiguration, src, dst, err)
	}

	b := &builder{cfg: c, resolver: resolver, compiled: make(map[*plan.ResolvedTypePair]*typeMap)}

	tm, err := b.compile(pair)
	if err != nil {
		return fmt.Errorf("%w: %s -> %s: %w", ErrInvalidConfiguration, src, dst, err)
	}

	c.maps[pairKey{src, dst}] = tm

	Logger().Debug("map created",
		zap.String("pair", pair.Key()),
		zap.Int("mappings", len(pair.Mappings)),
		zap.Int("unmapped", len(pair.UnmappedTargets)))

	return nil
}

// mergedFile returns the loaded rules with every YAML declaration of the
// pair folded, in load order, into one mapping with the programmatic rules
// on top. Earlier rules keep a contested 121 target; the later rule is
// reported as a mapping_override warning.
func (c *Configuration) mergedFile(
	src, dst *analyze.TypeInfo,
	code *mapping.TypeMapping,
	diags *diagnostic.Diagnostics,
) *mapping.MappingFile {
	out := &mapping.MappingFile{Version: c.file.Version, Transforms: c.file.Transforms}
	m := &merger{
		merged: mapping.TypeMapping{Source: src.ID.String(), Target: dst.ID.String()},
		taken:  make(map[string]string),
		key:    plan.PairKey(src, dst),
		diags:  diags,
	}

	for _, tm := range c.file.TypeMappings {
		if mapping.TypeNameMatches(tm.Source, src.Type) && mapping.TypeNameMatches(tm.Target, dst.Type) {
			m.add(&tm)

			continue
		}

		out.TypeMappings = append(out.TypeMappings, tm)
	}

	m.add(code)

	out.TypeMappings = append(out.TypeMappings, m.merged)

	return out
}

// merger folds rule sets for one pair.
type merger struct {
	merged mapping.TypeMapping
	taken  map[string]string // 121 target -> source
	key    string
	diags  *diagnostic.Diagnostics
}

func (m *merger) add(tm *mapping.TypeMapping) {
	for _, source := range slices.Sorted(maps.Keys(tm.OneToOne)) {
		target := tm.OneToOne[source]

		if owner, ok := m.taken[target]; ok {
			if owner != source {
				m.diags.AddWarning("mapping_override",
					fmt.Sprintf("121 rule %s -> %s ignored, target already mapped from %s", source, target, owner),
					m.key, target)
			}

			continue
		}

		m.taken[target] = source

		if _, ok := m.merged.OneToOne[source]; ok {
			// one source feeding another target
			m.merged.Fields = append(m.merged.Fields, mapping.FieldMapping{
				Source: mapping.StringOrArray{source},
				Target: mapping.StringOrArray{target},
			})

			continue
		}

		if m.merged.OneToOne == nil {
			m.merged.OneToOne = make(map[string]string)
		}

		m.merged.OneToOne[source] = target
	}

	m.merged.Fields = append(m.merged.Fields, tm.Fields...)
	m.merged.Auto = append(m.merged.Auto, tm.Auto...)

	for _, target := range tm.Ignore {
		if !slices.Contains(m.merged.Ignore, target) {
			m.merged.Ignore = append(m.merged.Ignore, target)
		}
	}
}

func logDiagnostics(diags *diagnostic.Diagnostics) {
	for _, d := range diags.Warnings {
		Logger().Warn(d.Message,
			zap.String("code", d.Code),
			zap.String("pair", d.TypePair),
			zap.String("field", d.FieldPath),
			zap.Strings("suggestions", d.Suggestions))
	}

	for _, d := range diags.Errors {
		Logger().Error(d.Message,
			zap.String("code", d.Code),
			zap.String("pair", d.TypePair),
			zap.String("field", d.FieldPath))
	}
}

// lookup returns the map registered for the pair, or nil.
func (c *Configuration) lookup(src, dst reflect.Type) *typeMap {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.maps[pairKey{src, dst}]
}
