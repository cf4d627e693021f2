package gen

import (
	"fmt"
	"go/types"
	"strings"

	"github.com/eugkhp/chimney/internal/plan"
	"github.com/eugkhp/chimney/internal/shape"
)

// exprFor renders steps that reduce to one Go expression. Fallible
// calls and loop-shaped ops need statements and report false.
func (e *fnEmitter) exprFor(s *plan.Step, src string) (string, bool) {
	if s.Partial {
		return "", false
	}

	switch s.Op {
	case plan.StepCopy:
		return src, true
	case plan.StepConvert:
		return e.imp.typeString(s.Dst) + "(" + src + ")", true
	case plan.StepConst, plan.StepDefault:
		return s.Expr, true
	case plan.StepCompute:
		return e.imp.funcRef(s.Func.Obj) + "(in)", true
	case plan.StepNested:
		if s.Nested == nil || s.Nested.Mode == plan.ModePartial {
			return "", false
		}

		return e.gen.names[s.Nested] + "(" + src + ")", true
	case plan.StepWrapNull:
		if s.Elem == nil {
			return "", false
		}

		inner, ok := e.exprFor(s.Elem, src)
		if !ok {
			return "", false
		}

		return e.nullWrapExpr(s.Dst, s.DstNull, inner), true
	default:
		return "", false
	}
}

// emitStep writes the statements producing one destination position.
func (e *fnEmitter) emitStep(s *plan.Step, src string, tgt target) error {
	if expr, ok := e.exprFor(s, src); ok {
		e.w.linef("%s", tgt.assign(expr))
		return nil
	}

	switch s.Op {
	case plan.StepWrap, plan.StepWrapNull, plan.StepUnwrap, plan.StepUnwrapNull, plan.StepMapElems:
		if s.Elem == nil {
			return fmt.Errorf("%s step without a carried value for %s", s.Op, tgt.path)
		}
	}

	switch s.Op {
	case plan.StepWrap:
		return e.emitWrap(s, src, tgt)
	case plan.StepWrapNull:
		return e.emitWrapNull(s, src, tgt)
	case plan.StepUnwrap:
		return e.emitUnwrap(s, tgt, src+" != nil", "*"+src)
	case plan.StepUnwrapNull:
		return e.emitUnwrap(s, tgt, src+".Valid", src+"."+s.SrcNull.ValueField)
	case plan.StepMapElems:
		return e.emitMapElems(s, src, tgt)
	case plan.StepNested, plan.StepCompute, plan.StepConst:
		return e.emitFallibleCall(s, src, tgt)
	default:
		return fmt.Errorf("cannot render %s step for %s", s.Op, tgt.path)
	}
}

// emitInto evaluates a step into a fresh variable named v.
func (e *fnEmitter) emitInto(s *plan.Step, src, v, fpath string) error {
	if expr, ok := e.exprFor(s, src); ok {
		e.w.linef("%s := %s", v, expr)
		return nil
	}

	// Dereferences make poor loop and check operands; pin the value
	// first.
	if strings.HasPrefix(src, "*") {
		b := fmt.Sprintf("v%d", e.tmpID())
		e.w.linef("%s := %s", b, src)
		src = b
	}

	e.w.linef("var %s %s", v, e.imp.typeString(s.Dst))

	return e.emitStep(s, src, target{lvalue: v, path: fpath})
}

// callExpr renders the fallible call behind a step: a nested partial
// transformer, a partial compute, or a spliced (value, error)
// expression.
func (e *fnEmitter) callExpr(s *plan.Step, src string) (string, error) {
	switch s.Op {
	case plan.StepNested:
		if s.Nested == nil {
			return "", fmt.Errorf("nested step without a plan")
		}

		return e.gen.names[s.Nested] + "(" + src + ")", nil
	case plan.StepCompute:
		return e.imp.funcRef(s.Func.Obj) + "(in)", nil
	case plan.StepConst:
		return s.Expr, nil
	default:
		return "", fmt.Errorf("step %s is not a call", s.Op)
	}
}

// emitFallibleCall assigns a (value, error) call's value and folds the
// error into the set under the target's path.
func (e *fnEmitter) emitFallibleCall(s *plan.Step, src string, tgt target) error {
	call, err := e.callExpr(s, src)
	if err != nil {
		return err
	}

	n := e.tmpID()
	v, ev := fmt.Sprintf("v%d", n), fmt.Sprintf("err%d", n)

	w := e.w
	w.linef("%s, %s := %s", v, ev, call)
	w.linef("if %s != nil {", ev)
	w.indent++
	w.linef("errs = %s.AppendErr(errs, %s, %s)", e.partialRef(), tgt.path, ev)
	w.indent--
	w.linef("}")
	w.linef("%s", tgt.assign(v))

	return nil
}

// emitWrap lifts a value behind a pointer through a temporary, keeping
// the result detached from the source.
func (e *fnEmitter) emitWrap(s *plan.Step, src string, tgt target) error {
	v := fmt.Sprintf("v%d", e.tmpID())

	if err := e.emitInto(s.Elem, src, v, tgt.path); err != nil {
		return err
	}

	e.w.linef("%s", tgt.assign("&"+v))

	return nil
}

// emitWrapNull builds a nullable wrapper around a statement-shaped
// carried value.
func (e *fnEmitter) emitWrapNull(s *plan.Step, src string, tgt target) error {
	v := fmt.Sprintf("v%d", e.tmpID())

	if err := e.emitInto(s.Elem, src, v, tgt.path); err != nil {
		return err
	}

	e.w.linef("%s", tgt.assign(e.nullWrapExpr(s.Dst, s.DstNull, v)))

	return nil
}

// nullWrapExpr wraps a value expression into a nullable type, through
// the family's From helper when it has one.
func (e *fnEmitter) nullWrapExpr(dst types.Type, fam shape.NullFamily, inner string) string {
	if fam.FromFunc != "" {
		return e.qualFor(dst) + "." + fam.FromFunc + "(" + inner + ")"
	}

	return e.imp.typeString(dst) + "{" + fam.ValueField + ": " + inner + ", Valid: true}"
}

// emitUnwrap reads through an optional or nullable source. An absent
// value falls back to the default expression when one exists; in
// partial mode it is recorded as an empty-value failure.
func (e *fnEmitter) emitUnwrap(s *plan.Step, tgt target, cond, val string) error {
	w := e.w
	w.linef("if %s {", cond)
	w.indent++

	var err error

	if _, ok := e.exprFor(s.Elem, val); ok {
		err = e.emitStep(s.Elem, val, tgt)
	} else {
		v := fmt.Sprintf("v%d", e.tmpID())
		w.linef("%s := %s", v, val)
		err = e.emitStep(s.Elem, v, tgt)
	}

	if err != nil {
		return err
	}

	w.indent--

	switch {
	case s.Default != "":
		w.linef("} else {")
		w.indent++
		w.linef("%s", tgt.assign(s.Default))
		w.indent--
		w.linef("}")
	case e.partial():
		w.linef("} else {")
		w.indent++
		w.linef("errs = %s.Append(errs, %s, %s.ReasonEmpty)", e.partialRef(), tgt.path, e.partialRef())
		w.indent--
		w.linef("}")
	default:
		w.linef("}")
	}

	return nil
}

// emitMapElems rebuilds one wrapper from another. Single-value sources
// guard on presence; slices and maps loop.
func (e *fnEmitter) emitMapElems(s *plan.Step, src string, tgt target) error {
	switch s.SrcWrap {
	case shape.WrapperOptional:
		return e.emitGuardedRemap(s, src+" != nil", "*"+src, tgt)
	case shape.WrapperNull:
		return e.emitGuardedRemap(s, src+".Valid", src+"."+s.SrcNull.ValueField, tgt)
	case shape.WrapperSlice:
		return e.emitSliceRemap(s, src, tgt)
	case shape.WrapperMap:
		return e.emitMapRemap(s, src, tgt)
	default:
		return fmt.Errorf("cannot render %s remap for %s", s.SrcWrap, tgt.path)
	}
}

// emitGuardedRemap converts a present carried value into the wrapped
// destination.
func (e *fnEmitter) emitGuardedRemap(s *plan.Step, cond, val string, tgt target) error {
	w := e.w
	w.linef("if %s {", cond)
	w.indent++

	v := fmt.Sprintf("v%d", e.tmpID())

	err := e.emitInto(s.Elem, val, v, tgt.path)
	if err == nil {
		switch s.DstWrap {
		case shape.WrapperOptional:
			w.linef("%s", tgt.assign("&"+v))
		case shape.WrapperNull:
			w.linef("%s", tgt.assign(e.nullWrapExpr(s.Dst, s.DstNull, v)))
		default:
			err = fmt.Errorf("cannot rebuild %s wrapper for %s", s.DstWrap, tgt.path)
		}
	}

	w.indent--
	w.linef("}")

	return err
}

// emitSliceRemap loops over the source slice into a fresh destination
// slice of the same length. A nil source stays nil.
func (e *fnEmitter) emitSliceRemap(s *plan.Step, src string, tgt target) error {
	w := e.w

	if e.partial() && s.Elem.Fallible() {
		e.imp.add("fmt", "fmt")
	}

	w.linef("if %s != nil {", src)
	w.indent++
	w.linef("%s", tgt.assign(fmt.Sprintf("make(%s, len(%s))", e.imp.typeString(s.Dst), src)))

	n := e.tmpID()
	iv, ev := fmt.Sprintf("i%d", n), fmt.Sprintf("e%d", n)

	w.linef("for %s, %s := range %s {", iv, ev, src)
	w.indent++

	elemTgt := target{
		lvalue: fmt.Sprintf("%s[%s]", tgt.lvalue, iv),
		path:   fmt.Sprintf(`%s + fmt.Sprintf("(%%d)", %s)`, tgt.path, iv),
	}

	err := e.emitStep(s.Elem, ev, elemTgt)

	w.indent--
	w.linef("}")
	w.indent--
	w.linef("}")

	return err
}

// emitMapRemap loops over the source map into a fresh destination map.
// Values convert through a temporary so map-value addressability never
// gets in the way; keys convert inline when they reduce to an
// expression.
func (e *fnEmitter) emitMapRemap(s *plan.Step, src string, tgt target) error {
	w := e.w

	if s.Key == nil {
		return fmt.Errorf("map remap without a key step for %s", tgt.path)
	}

	if e.partial() && (s.Elem.Fallible() || s.Key.Fallible()) {
		e.imp.add("fmt", "fmt")
	}

	w.linef("if %s != nil {", src)
	w.indent++
	w.linef("%s", tgt.assign(fmt.Sprintf("make(%s, len(%s))", e.imp.typeString(s.Dst), src)))

	n := e.tmpID()
	kv, ev := fmt.Sprintf("k%d", n), fmt.Sprintf("e%d", n)

	w.linef("for %s, %s := range %s {", kv, ev, src)
	w.indent++

	entryPath := fmt.Sprintf(`%s + fmt.Sprintf("(%%v)", %s)`, tgt.path, kv)

	var err error

	keyExpr, ok := e.exprFor(s.Key, kv)
	if !ok {
		keyExpr = fmt.Sprintf("v%d", e.tmpID())
		err = e.emitInto(s.Key, kv, keyExpr, entryPath)
	}

	if err == nil {
		if valExpr, ok := e.exprFor(s.Elem, ev); ok {
			w.linef("%s[%s] = %s", tgt.lvalue, keyExpr, valExpr)
		} else {
			v := fmt.Sprintf("v%d", e.tmpID())

			if err = e.emitInto(s.Elem, ev, v, entryPath); err == nil {
				w.linef("%s[%s] = %s", tgt.lvalue, keyExpr, v)
			}
		}
	}

	w.indent--
	w.linef("}")
	w.indent--
	w.linef("}")

	return err
}
