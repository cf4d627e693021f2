package rules

import (
	"fmt"

	"github.com/eugkhp/chimney/internal/diagnostic"
)

// Mode names accepted by a transformer entry.
const (
	ModeTotal   = "total"
	ModePartial = "partial"
)

// File represents the root of a YAML rules file. This is the
// authoritative, human-reviewed derivation configuration.
type File struct {
	// Version of the rules schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Transformers is a list of source/target pair specs.
	Transformers []Transformer `yaml:"transformers"`

	// Functions declares the Go functions available to compute,
	// handler, and constructor overrides.
	Functions []FunctionDecl `yaml:"functions,omitempty"`
}

// Transformer defines how to derive one source type into one target
// type.
type Transformer struct {
	// Name overrides the generated root function's name. Empty derives
	// one from the pair's type names.
	Name string `yaml:"name,omitempty"`

	// Source type identifier (full path, e.g. "example.com/mod/store.Order").
	Source string `yaml:"source"`

	// Target type identifier.
	Target string `yaml:"target"`

	// Mode selects total (default) or partial derivation.
	Mode string `yaml:"mode,omitempty"`

	// Getters admits Get*/zero-arg accessor methods as source members.
	Getters bool `yaml:"getters,omitempty"`

	// Setters drives the destination through Set* methods.
	Setters bool `yaml:"setters,omitempty"`

	// Overrides is the ordered override list. Later entries shadow
	// earlier ones targeting the same path.
	Overrides []OverrideEntry `yaml:"overrides,omitempty"`

	// Constructor names a declared function that builds the target.
	Constructor string `yaml:"constructor,omitempty"`

	// ConstructorPartial is the fallible constructor variant. Mutually
	// exclusive with Constructor.
	ConstructorPartial string `yaml:"constructorPartial,omitempty"`

	// Ignore lists root-level target members that should not be mapped.
	Ignore []string `yaml:"ignore,omitempty"`
}

// OverrideEntry is one override in a transformer's list. Exactly one
// action key must be set; Target addresses destination members and
// Variant addresses source sum variants.
type OverrideEntry struct {
	Target  string `yaml:"target,omitempty"`
	Variant string `yaml:"variant,omitempty"`

	Const          string `yaml:"const,omitempty"`
	ConstPartial   string `yaml:"constPartial,omitempty"`
	Compute        string `yaml:"compute,omitempty"`
	ComputePartial string `yaml:"computePartial,omitempty"`
	Rename         string `yaml:"rename,omitempty"`
	Handler        string `yaml:"handler,omitempty"`
	HandlerPartial string `yaml:"handlerPartial,omitempty"`
	Default        string `yaml:"default,omitempty"`
}

// FunctionDecl binds a declared function name to a package-level Go
// function.
type FunctionDecl struct {
	// Name is the identifier overrides refer to.
	Name string `yaml:"name"`

	// Package is the import path declaring the function.
	Package string `yaml:"package"`

	// Func is the function's Go name; defaults to Name.
	Func string `yaml:"func,omitempty"`
}

// entryAction is one declared action of an override entry.
type entryAction struct {
	kind    OverrideKind
	payload string
	// isDefault marks the default pseudo-action, which feeds the
	// registry's default bucket instead of the override list.
	isDefault bool
}

// actions collects every action key the entry sets. A well-formed entry
// has exactly one.
func (e OverrideEntry) actions() []entryAction {
	var out []entryAction

	add := func(kind OverrideKind, payload string) {
		if payload != "" {
			out = append(out, entryAction{kind: kind, payload: payload})
		}
	}

	add(OverrideConst, e.Const)
	add(OverrideConstPartial, e.ConstPartial)
	add(OverrideComputed, e.Compute)
	add(OverrideComputedPartial, e.ComputePartial)
	add(OverrideRenamed, e.Rename)
	add(OverrideSubtypeHandled, e.Handler)
	add(OverrideSubtypeHandledPartial, e.HandlerPartial)

	if e.Default != "" {
		out = append(out, entryAction{payload: e.Default, isDefault: true})
	}

	return out
}

// target returns the entry's address string for diagnostics.
func (e OverrideEntry) target() string {
	if e.Variant != "" {
		return e.Variant
	}

	return e.Target
}

// BuildRegistry converts the transformer's override entries into an
// ordered Registry. Malformed entries (no action, several actions, an
// unparseable target, a variant entry without a handler) are reported
// as AmbiguousOverride failures on the entry's path and skipped;
// well-formed siblings still register, so one bad entry does not hide
// the rest of the report.
func (t *Transformer) BuildRegistry(col *diagnostic.Collector) *Registry {
	reg := NewRegistry()

	for i, entry := range t.Overrides {
		entryPath := diagnostic.Root().Field(entry.target())

		actions := entry.actions()

		switch {
		case len(actions) == 0:
			col.Fail(entryPath, diagnostic.AmbiguousOverride,
				fmt.Sprintf("override entry %d declares no action", i+1))

			continue
		case len(actions) > 1:
			col.Fail(entryPath, diagnostic.AmbiguousOverride,
				fmt.Sprintf("override entry %d declares %d actions; exactly one is allowed", i+1, len(actions)))

			continue
		}

		action := actions[0]

		switch {
		case entry.Variant != "" && entry.Target != "":
			col.Fail(entryPath, diagnostic.AmbiguousOverride,
				fmt.Sprintf("override entry %d sets both target and variant", i+1))

			continue
		case entry.Variant != "":
			if !action.kind.IsHandler() {
				col.Fail(entryPath, diagnostic.AmbiguousOverride,
					fmt.Sprintf("override entry %d: variant entries accept handler actions only", i+1))

				continue
			}

			reg.Add(Override{
				Kind: action.kind,
				Path: Path{Segments: []PathSegment{{Name: entry.Variant}}},
				Func: action.payload,
			})

			continue
		case action.kind.IsHandler():
			col.Fail(entryPath, diagnostic.AmbiguousOverride,
				fmt.Sprintf("override entry %d: handler actions require a variant", i+1))

			continue
		}

		path, err := ParsePath(entry.Target)
		if err != nil {
			col.Fail(entryPath, diagnostic.AmbiguousOverride,
				fmt.Sprintf("override entry %d: %v", i+1, err))

			continue
		}

		if action.isDefault {
			reg.AddDefault(path, action.payload)

			continue
		}

		o := Override{Kind: action.kind, Path: path}

		switch action.kind {
		case OverrideConst, OverrideConstPartial:
			o.Expr = action.payload
		case OverrideComputed, OverrideComputedPartial:
			o.Func = action.payload
		case OverrideRenamed:
			o.From = action.payload
		}

		reg.Add(o)
	}

	switch {
	case t.Constructor != "":
		reg.Add(Override{Kind: OverrideConstructor, Func: t.Constructor})
	case t.ConstructorPartial != "":
		reg.Add(Override{Kind: OverrideConstructorPartial, Func: t.ConstructorPartial})
	}

	for _, name := range t.Ignore {
		reg.AddIgnored(name)
	}

	return reg
}

// IsPartialMode reports whether the transformer requested partial
// derivation.
func (t *Transformer) IsPartialMode() bool {
	return t.Mode == ModePartial
}

// PairName renders the transformer pair for reports.
func (t *Transformer) PairName() string {
	return t.Source + " -> " + t.Target
}
