package rules

import (
	"errors"
	"fmt"
)

// Builder is the programmatic counterpart of a YAML transformer entry.
// Calls append in registration order, so the latest call targeting a
// path wins exactly like the latest YAML entry does. Build returns both
// the Transformer (round-trippable to YAML) and the Registry.
type Builder struct {
	tr   Transformer
	reg  *Registry
	errs []error
}

// NewBuilder starts a transformer for a source/target pair.
func NewBuilder(source, target string) *Builder {
	return &Builder{
		tr: Transformer{
			Source: source,
			Target: target,
			Mode:   ModeTotal,
		},
		reg: NewRegistry(),
	}
}

// Partial switches the pair to partial derivation.
func (b *Builder) Partial() *Builder {
	b.tr.Mode = ModePartial

	return b
}

// Getters admits Get*/zero-arg accessor methods as source members.
func (b *Builder) Getters() *Builder {
	b.tr.Getters = true

	return b
}

// Setters drives the destination through Set* methods.
func (b *Builder) Setters() *Builder {
	b.tr.Setters = true

	return b
}

func (b *Builder) path(target string) (Path, bool) {
	p, err := ParsePath(target)
	if err != nil {
		b.errs = append(b.errs, err)

		return Path{}, false
	}

	return p, true
}

// Const splices expr as the value of the target member.
func (b *Builder) Const(target, expr string) *Builder {
	b.tr.Overrides = append(b.tr.Overrides, OverrideEntry{Target: target, Const: expr})

	if p, ok := b.path(target); ok {
		b.reg.Add(Override{Kind: OverrideConst, Path: p, Expr: expr})
	}

	return b
}

// ConstPartial splices expr as a (value, error) pair for the target
// member.
func (b *Builder) ConstPartial(target, expr string) *Builder {
	b.tr.Overrides = append(b.tr.Overrides, OverrideEntry{Target: target, ConstPartial: expr})

	if p, ok := b.path(target); ok {
		b.reg.Add(Override{Kind: OverrideConstPartial, Path: p, Expr: expr})
	}

	return b
}

// Compute fills the target member by calling the declared function on
// the source value.
func (b *Builder) Compute(target, fn string) *Builder {
	b.tr.Overrides = append(b.tr.Overrides, OverrideEntry{Target: target, Compute: fn})

	if p, ok := b.path(target); ok {
		b.reg.Add(Override{Kind: OverrideComputed, Path: p, Func: fn})
	}

	return b
}

// ComputePartial is the fallible Compute.
func (b *Builder) ComputePartial(target, fn string) *Builder {
	b.tr.Overrides = append(b.tr.Overrides, OverrideEntry{Target: target, ComputePartial: fn})

	if p, ok := b.path(target); ok {
		b.reg.Add(Override{Kind: OverrideComputedPartial, Path: p, Func: fn})
	}

	return b
}

// Rename reads the source member named from into the target member.
func (b *Builder) Rename(target, from string) *Builder {
	b.tr.Overrides = append(b.tr.Overrides, OverrideEntry{Target: target, Rename: from})

	if p, ok := b.path(target); ok {
		b.reg.Add(Override{Kind: OverrideRenamed, Path: p, From: from})
	}

	return b
}

// Handler maps the named source sum variant through the declared
// function.
func (b *Builder) Handler(variant, fn string) *Builder {
	b.tr.Overrides = append(b.tr.Overrides, OverrideEntry{Variant: variant, Handler: fn})
	b.reg.Add(Override{
		Kind: OverrideSubtypeHandled,
		Path: Path{Segments: []PathSegment{{Name: variant}}},
		Func: fn,
	})

	return b
}

// HandlerPartial is the fallible Handler.
func (b *Builder) HandlerPartial(variant, fn string) *Builder {
	b.tr.Overrides = append(b.tr.Overrides, OverrideEntry{Variant: variant, HandlerPartial: fn})
	b.reg.Add(Override{
		Kind: OverrideSubtypeHandledPartial,
		Path: Path{Segments: []PathSegment{{Name: variant}}},
		Func: fn,
	})

	return b
}

// Constructor builds the destination by calling the declared function.
func (b *Builder) Constructor(fn string) *Builder {
	if b.tr.ConstructorPartial != "" {
		b.errs = append(b.errs, fmt.Errorf("constructor %q: constructorPartial %q already set", fn, b.tr.ConstructorPartial))

		return b
	}

	b.tr.Constructor = fn
	b.reg.Add(Override{Kind: OverrideConstructor, Func: fn})

	return b
}

// ConstructorPartial is the fallible Constructor.
func (b *Builder) ConstructorPartial(fn string) *Builder {
	if b.tr.Constructor != "" {
		b.errs = append(b.errs, fmt.Errorf("constructorPartial %q: constructor %q already set", fn, b.tr.Constructor))

		return b
	}

	b.tr.ConstructorPartial = fn
	b.reg.Add(Override{Kind: OverrideConstructorPartial, Func: fn})

	return b
}

// Default attaches a fallback expression used when the target member
// stays unmatched. Shadows any struct-tag default on the member.
func (b *Builder) Default(target, expr string) *Builder {
	b.tr.Overrides = append(b.tr.Overrides, OverrideEntry{Target: target, Default: expr})

	if p, ok := b.path(target); ok {
		b.reg.AddDefault(p, expr)
	}

	return b
}

// Ignore excludes root-level target members from matching.
func (b *Builder) Ignore(names ...string) *Builder {
	b.tr.Ignore = append(b.tr.Ignore, names...)

	for _, name := range names {
		b.reg.AddIgnored(name)
	}

	return b
}

// Build finalizes the transformer and registry. A non-nil error joins
// every malformed call recorded along the chain.
func (b *Builder) Build() (Transformer, *Registry, error) {
	return b.tr, b.reg, errors.Join(b.errs...)
}
