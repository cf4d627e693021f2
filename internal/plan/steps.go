package plan

import (
	"fmt"
	"go/types"

	"github.com/eugkhp/chimney/internal/diagnostic"
	"github.com/eugkhp/chimney/internal/rules"
	"github.com/eugkhp/chimney/internal/shape"
)

// deriveValue produces the step converting one source value position
// into one destination position. dfl rescues a fallible unwrap at this
// position; carried values further down have no fallback.
func (d *Deriver) deriveValue(e *pairEntry, src, dst types.Type, fpath diagnostic.Path, scope rules.Path, dfl string, depth int) (Step, bool) {
	if depth >= d.cfg.MaxDepth {
		e.col.Fail(fpath, diagnostic.RecursiveTypeUnsupported,
			fmt.Sprintf("nesting exceeds %d levels", d.cfg.MaxDepth))

		return Step{}, false
	}

	compat := Classify(src, dst)
	if compat == CompatIdentical || compat == CompatAssignable {
		return Step{Op: StepCopy, Src: src, Dst: dst}, true
	}

	ss := d.ins.Inspect(src, d.opt)
	ds := d.ins.Inspect(dst, d.opt)

	if ss.Kind == shape.KindScalar && ds.Kind == shape.KindScalar && compat == CompatConvertible {
		return Step{Op: StepConvert, Src: src, Dst: dst}, true
	}

	if ss.Kind == shape.KindWrapper || ds.Kind == shape.KindWrapper {
		return d.wrapperStep(e, ss, ds, fpath, scope, dfl, depth)
	}

	if ss.Kind == ds.Kind && (ss.Kind == shape.KindProduct || ss.Kind == shape.KindSum) {
		return d.nestedStep(e, src, dst, fpath, scope, depth)
	}

	e.col.Fail(fpath, diagnostic.TypeMismatch,
		fmt.Sprintf("cannot derive %s from %s (%s from %s)",
			shape.TypeString(dst), shape.TypeString(src), ds.Kind, ss.Kind))

	return Step{}, false
}

// wrapperStep adapts wrapper shapes. Optional and nullable wrappers
// remap into each other elementwise; slices and maps remap their
// carried values; a bare value lifts into a wrapper; dropping a
// wrapper is fallible and needs partial mode or a default.
func (d *Deriver) wrapperStep(e *pairEntry, ss, ds *shape.Shape, fpath diagnostic.Path, scope rules.Path, dfl string, depth int) (Step, bool) {
	switch {
	case optionalish(ss.Wrapper) && optionalish(ds.Wrapper):
		elem, ok := d.deriveValue(e, ss.Elem, ds.Elem, fpath, scope, "", depth+1)
		if !ok {
			return Step{}, false
		}

		return remapStep(ss, ds, &elem, nil), true

	case ss.Wrapper == shape.WrapperSlice && ds.Wrapper == shape.WrapperSlice:
		elem, ok := d.deriveValue(e, ss.Elem, ds.Elem, fpath, scope.IntoElem(), "", depth+1)
		if !ok {
			return Step{}, false
		}

		return remapStep(ss, ds, &elem, nil), true

	case ss.Wrapper == shape.WrapperMap && ds.Wrapper == shape.WrapperMap:
		key, ok := d.deriveValue(e, ss.Key, ds.Key, fpath, scope, "", depth+1)
		if !ok {
			return Step{}, false
		}

		elem, ok := d.deriveValue(e, ss.Elem, ds.Elem, fpath, scope.IntoElem(), "", depth+1)
		if !ok {
			return Step{}, false
		}

		return remapStep(ss, ds, &elem, &key), true

	case ds.Wrapper == shape.WrapperOptional:
		elem, ok := d.deriveValue(e, ss.GoType, ds.Elem, fpath, scope, "", depth+1)
		if !ok {
			return Step{}, false
		}

		return Step{Op: StepWrap, Src: ss.GoType, Dst: ds.GoType, DstWrap: ds.Wrapper, Elem: &elem}, true

	case ds.Wrapper == shape.WrapperNull:
		elem, ok := d.deriveValue(e, ss.GoType, ds.Elem, fpath, scope, "", depth+1)
		if !ok {
			return Step{}, false
		}

		return Step{Op: StepWrapNull, Src: ss.GoType, Dst: ds.GoType, DstWrap: ds.Wrapper, DstNull: ds.Null, Elem: &elem}, true

	case ss.Wrapper == shape.WrapperOptional, ss.Wrapper == shape.WrapperNull:
		if d.mode == ModeTotal && dfl == "" {
			e.col.Fail(fpath, diagnostic.TypeMismatch,
				fmt.Sprintf("%s source needs a partial transformer or a default", ss.Wrapper))

			return Step{}, false
		}

		elem, ok := d.deriveValue(e, ss.Elem, ds.GoType, fpath, scope, "", depth+1)
		if !ok {
			return Step{}, false
		}

		op := StepUnwrap
		if ss.Wrapper == shape.WrapperNull {
			op = StepUnwrapNull
		}

		return Step{
			Op:      op,
			Src:     ss.GoType,
			Dst:     ds.GoType,
			SrcWrap: ss.Wrapper,
			SrcNull: ss.Null,
			Default: dfl,
			Elem:    &elem,
		}, true

	default:
		e.col.Fail(fpath, diagnostic.TypeMismatch,
			fmt.Sprintf("cannot derive %s from %s (%s from %s)",
				shape.TypeString(ds.GoType), shape.TypeString(ss.GoType), wrapKind(ds), wrapKind(ss)))

		return Step{}, false
	}
}

// remapStep builds the elementwise wrapper-to-wrapper step.
func remapStep(ss, ds *shape.Shape, elem, key *Step) Step {
	return Step{
		Op:      StepMapElems,
		Src:     ss.GoType,
		Dst:     ds.GoType,
		SrcWrap: ss.Wrapper,
		DstWrap: ds.Wrapper,
		SrcNull: ss.Null,
		DstNull: ds.Null,
		Elem:    elem,
		Key:     key,
	}
}

// nestedStep derives the nested pair and references its function. A
// pair still deriving upstack is referenced as-is, tying the cycle.
func (d *Deriver) nestedStep(e *pairEntry, src, dst types.Type, fpath diagnostic.Path, scope rules.Path, depth int) (Step, bool) {
	child := d.derivePair(Pair{Source: src, Dest: dst}, scope, depth+1)
	if !child.done {
		return Step{Op: StepNested, Src: src, Dst: dst, Nested: child.plan}, true
	}

	e.col.Merge(fpath, child.col)

	if child.failed {
		return Step{}, false
	}

	return Step{Op: StepNested, Src: src, Dst: dst, Nested: child.plan}, true
}

// optionalish reports wrappers holding at most one value.
func optionalish(w shape.WrapperKind) bool {
	return w == shape.WrapperOptional || w == shape.WrapperNull
}

// wrapKind renders a shape's kind, naming the wrapper flavor.
func wrapKind(s *shape.Shape) string {
	if s.Kind == shape.KindWrapper {
		return s.Wrapper.String()
	}

	return s.Kind.String()
}
