package plan

import (
	"fmt"
	"go/types"

	"github.com/eugkhp/chimney/internal/diagnostic"
	"github.com/eugkhp/chimney/internal/match"
	"github.com/eugkhp/chimney/internal/rules"
	"github.com/eugkhp/chimney/internal/shape"
)

// buildSwitch derives the dispatch over a sum pair. Totality holds in
// both directions: every source variant needs a destination or a
// handler, and every destination variant needs a source counterpart.
func (d *Deriver) buildSwitch(e *pairEntry, scope rules.Path, depth int) {
	p := e.plan
	p.Strategy = CtorSwitch

	vres := match.MatchVariants(p.Source, p.Dest, d.reg)

	for _, vm := range vres.Sources {
		vpath := diagnostic.Root().Variant(vm.Source.Name)

		switch vm.Outcome {
		case match.VariantHandled:
			fn, ok := d.handlerFunc(e, vm, vpath)
			if !ok {
				continue
			}

			p.Cases = append(p.Cases, VariantCase{
				Source:         vm.Source,
				Outcome:        vm.Outcome,
				Handler:        fn,
				HandlerPartial: vm.Override.Kind.IsPartial(),
			})

		case match.VariantMatched:
			if c, ok := d.variantCase(e, vm, vpath, scope, depth); ok {
				p.Cases = append(p.Cases, c)
			}

		default:
			e.col.Fail(vpath, diagnostic.UnmappedSumVariant,
				fmt.Sprintf("source variant %q has no destination counterpart or handler", vm.Source.Name))

			if sugg := match.SuggestNames(vm.Source.Name, variantNames(p.Dest), 3); len(sugg) > 0 {
				e.col.AddNote(vpath, "similarly named destination variants exist", sugg...)
			}
		}
	}

	for _, mv := range vres.MissingDest {
		e.col.Fail(diagnostic.Root().Variant(mv.Name), diagnostic.UnmappedSumVariant,
			fmt.Sprintf("destination variant %q has no source counterpart", mv.Name))
	}
}

// variantCase derives one matched dispatch arm. Singleton destinations
// construct directly; destinations with members need the source
// variant's payload, converted through a nested pair.
func (d *Deriver) variantCase(e *pairEntry, vm match.VariantMatch, vpath diagnostic.Path, scope rules.Path, depth int) (VariantCase, bool) {
	c := VariantCase{Source: vm.Source, Outcome: vm.Outcome, Dest: vm.Dest}

	if vm.Dest.Singleton {
		return c, true
	}

	if vm.Source.Type == nil {
		e.col.Fail(vpath, diagnostic.TypeMismatch,
			fmt.Sprintf("enum constant %q cannot populate variant %q, which carries members",
				vm.Source.Name, vm.Dest.Name))

		return VariantCase{}, false
	}

	child := d.derivePair(Pair{Source: vm.Source.Type, Dest: vm.Dest.Type}, scope, depth+1)
	if !child.done {
		c.Nested = child.plan
		return c, true
	}

	e.col.Merge(vpath, child.col)

	if child.failed {
		return VariantCase{}, false
	}

	c.Nested = child.plan

	return c, true
}

// handlerFunc resolves a variant handler and checks that it accepts
// the variant's concrete type and produces the destination sum.
func (d *Deriver) handlerFunc(e *pairEntry, vm match.VariantMatch, vpath diagnostic.Path) (*rules.DeclaredFunc, bool) {
	o := vm.Override

	if o.Kind.IsPartial() && d.mode == ModeTotal {
		e.col.Fail(vpath, diagnostic.TypeMismatch,
			fmt.Sprintf("%s override needs a partial transformer", o.Kind))

		return nil, false
	}

	fn, ok := d.funcs.Lookup(o.Func)
	if !ok {
		e.col.Fail(vpath, diagnostic.NoAccessibleConstructor,
			fmt.Sprintf("declared function %q is not available", o.Func))

		return nil, false
	}

	in := d.handlerInput(e, vm.Source)
	if msg := checkFuncShape(fn.Sig, in, e.plan.Dest.GoType, o.Kind.IsPartial()); msg != "" {
		e.col.Fail(vpath, diagnostic.TypeMismatch, fmt.Sprintf("handler %q %s", o.Func, msg))
		return nil, false
	}

	return fn, true
}

// handlerInput is the value a handler receives: the concrete variant
// for interface sums, the sum value itself for enum constants.
func (d *Deriver) handlerInput(e *pairEntry, v shape.Variant) types.Type {
	if v.Type == nil {
		return e.plan.Source.GoType
	}

	if v.Ptr {
		return types.NewPointer(v.Type)
	}

	return v.Type
}

func variantNames(s *shape.Shape) []string {
	names := make([]string, 0, len(s.Variants))
	for _, v := range s.Variants {
		names = append(names, v.Name)
	}

	return names
}
