package plan

import (
	"fmt"
	"go/types"

	"github.com/eugkhp/chimney/internal/diagnostic"
	"github.com/eugkhp/chimney/internal/match"
	"github.com/eugkhp/chimney/internal/rules"
	"github.com/eugkhp/chimney/internal/shape"
)

var errorType = types.Universe.Lookup("error").Type()

// buildCtorFunc derives construction through a declared constructor.
// Parameters bind by name against overrides and source members; every
// unbindable parameter is reported before the pair fails.
func (d *Deriver) buildCtorFunc(e *pairEntry, o rules.Override, scope rules.Path, depth int) {
	p := e.plan
	p.Strategy = CtorFunc

	partial := o.Kind.IsPartial()
	if partial && d.mode == ModeTotal {
		e.col.Fail(diagnostic.Root(), diagnostic.TypeMismatch,
			fmt.Sprintf("%s override needs a partial transformer", o.Kind))

		return
	}

	fn, ok := d.funcs.Lookup(o.Func)
	if !ok {
		e.col.Fail(diagnostic.Root(), diagnostic.NoAccessibleConstructor,
			fmt.Sprintf("declared function %q is not available", o.Func))

		return
	}

	if msg := checkFuncResults(fn.Sig, p.Dest.GoType, partial); msg != "" {
		e.col.Fail(diagnostic.Root(), diagnostic.NoAccessibleConstructor,
			fmt.Sprintf("constructor %q %s", o.Func, msg))

		return
	}

	call := &CtorCall{Func: fn, Partial: partial}

	params := fn.Sig.Params()
	for i := range params.Len() {
		if step, ok := d.bindParam(e, params.At(i), scope, depth); ok {
			call.Args = append(call.Args, step)
		}
	}

	p.Ctor = call
}

// bindParam matches a constructor parameter against overrides and
// source members, trying the exact name first and the exported
// spelling second.
func (d *Deriver) bindParam(e *pairEntry, prm *types.Var, scope rules.Path, depth int) (Step, bool) {
	fpath := diagnostic.Root().Field(prm.Name())
	dest := shape.Field{Name: prm.Name(), Type: prm.Type(), Index: -1}

	for _, name := range paramNames(prm.Name()) {
		if o, ok := d.reg.ValueFor(scope.Child(name)); ok {
			mm := match.MemberMatch{Dest: dest, Outcome: match.OutcomeOverridden, Override: o}
			return d.overrideStep(e, mm, fpath)
		}

		if f, ok := e.plan.Source.SourceMember(name); ok {
			step, ok := d.deriveValue(e, f.Type, prm.Type(), fpath, scope.Child(name), "", depth+1)
			if !ok {
				return Step{}, false
			}

			step.Dest = dest
			step.Source = f

			return step, true
		}
	}

	e.col.Fail(fpath, diagnostic.NoMatchingMember,
		fmt.Sprintf("no source member or override binds constructor parameter %q", prm.Name()))

	return Step{}, false
}

// paramNames lists the member names a parameter can bind to.
func paramNames(name string) []string {
	if exported := upperFirst(name); exported != name {
		return []string{name, exported}
	}

	return []string{name}
}

// checkFuncShape verifies a single-parameter declared function: the
// parameter accepts in and the results produce out.
func checkFuncShape(sig *types.Signature, in, out types.Type, partial bool) string {
	if sig.Params().Len() != 1 {
		return fmt.Sprintf("takes %d parameters, want 1", sig.Params().Len())
	}

	if prm := sig.Params().At(0).Type(); !types.AssignableTo(in, prm) {
		return fmt.Sprintf("parameter %s does not accept %s", shape.TypeString(prm), shape.TypeString(in))
	}

	return checkFuncResults(sig, out, partial)
}

// checkFuncResults verifies a declared function's results: the
// destination value, plus an error for the partial flavors.
func checkFuncResults(sig *types.Signature, out types.Type, partial bool) string {
	want := 1
	if partial {
		want = 2
	}

	if sig.Results().Len() != want {
		return fmt.Sprintf("returns %d values, want %d", sig.Results().Len(), want)
	}

	if res := sig.Results().At(0).Type(); !types.AssignableTo(res, out) {
		return fmt.Sprintf("returns %s, want %s", shape.TypeString(res), shape.TypeString(out))
	}

	if partial && !types.Identical(sig.Results().At(1).Type(), errorType) {
		return "must return error as its second value"
	}

	return ""
}

// ctorTarget reports whether a constructor override can build the
// destination: any product, or an opaque struct whose members are all
// unreachable and which therefore cannot be built by literal.
func ctorTarget(s *shape.Shape) bool {
	if s.Kind == shape.KindProduct {
		return true
	}

	if s.Kind != shape.KindScalar {
		return false
	}

	_, ok := s.GoType.Underlying().(*types.Struct)

	return ok
}
