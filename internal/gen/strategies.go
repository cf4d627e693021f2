package gen

import (
	"fmt"
	"go/types"
	"strconv"
	"strings"

	"github.com/eugkhp/chimney/internal/plan"
	"github.com/eugkhp/chimney/internal/shape"
)

// codeWriter accumulates tab-indented source lines.
type codeWriter struct {
	b      strings.Builder
	indent int
}

func (w *codeWriter) linef(format string, args ...any) {
	for range w.indent {
		w.b.WriteByte('\t')
	}

	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *codeWriter) String() string { return w.b.String() }

// target is the destination position a step writes: an assignable
// expression plus the runtime failure path, itself a Go string
// expression.
type target struct {
	lvalue string
	path   string
}

func (t target) assign(expr string) string { return t.lvalue + " = " + expr }

// fnEmitter renders one plan as one function.
type fnEmitter struct {
	gen  *Generator
	imp  *importSet
	w    *codeWriter
	p    *plan.Plan
	tmps int
}

// partial reports whether the function returns (T, error).
func (e *fnEmitter) partial() bool { return e.p.Mode == plan.ModePartial }

// tmpID hands out function-unique suffixes for temporaries.
func (e *fnEmitter) tmpID() int {
	n := e.tmps
	e.tmps++

	return n
}

func (e *fnEmitter) srcType() string { return e.imp.typeString(e.p.Source.GoType) }
func (e *fnEmitter) dstType() string { return e.imp.typeString(e.p.Dest.GoType) }

// partialRef imports the partial runtime and returns its qualifier.
func (e *fnEmitter) partialRef() string {
	return e.imp.add(partialPkgPath, "partial")
}

// qualFor returns the import qualifier of a named type's package.
func (e *fnEmitter) qualFor(t types.Type) string {
	if named, ok := types.Unalias(t).(*types.Named); ok && named.Obj().Pkg() != nil {
		return e.imp.qualifier(named.Obj().Pkg())
	}

	return ""
}

func (e *fnEmitter) render() (string, error) {
	w := e.w
	name := e.gen.names[e.p]
	src, dst := e.srcType(), e.dstType()

	if e.p.Root {
		if e.partial() {
			w.linef("// %s converts %s values into %s values, reporting the", name, src, dst)
			w.linef("// destination members it cannot populate as partial.Errors.")
		} else {
			w.linef("// %s converts %s values into %s values.", name, src, dst)
		}
	}

	if e.partial() {
		w.linef("func %s(in %s) (%s, error) {", name, src, dst)
	} else {
		w.linef("func %s(in %s) %s {", name, src, dst)
	}

	w.indent++

	var err error

	switch {
	case e.p.Strategy == plan.CtorSwitch:
		err = e.renderSwitch()
	case e.p.Ctor != nil:
		err = e.renderCtor()
	case e.p.Value != nil:
		err = e.renderValue()
	default:
		err = e.renderProduct()
	}

	if err != nil {
		return "", err
	}

	w.indent--
	w.linef("}")

	return w.String(), nil
}

// renderProduct populates the destination member by member, through a
// composite literal or through setter calls.
func (e *fnEmitter) renderProduct() error {
	w := e.w
	needErrs := e.partial() && e.p.Fallible()

	if needErrs {
		w.linef("var errs %s.Errors", e.partialRef())
	}

	w.linef("out := %s{}", e.dstType())

	for i := range e.p.Steps {
		if err := e.emitMember(&e.p.Steps[i]); err != nil {
			return err
		}
	}

	e.emitTail("out", needErrs)

	return nil
}

// emitMember writes one destination member. Setter members evaluate
// into a temporary first, since a call argument is not assignable.
func (e *fnEmitter) emitMember(s *plan.Step) error {
	fpath := strconv.Quote("." + s.Dest.Name)
	src := e.readExpr(s)

	if s.Dest.Kind != shape.FieldSetter {
		return e.emitStep(s, src, target{lvalue: "out." + s.Dest.Name, path: fpath})
	}

	if expr, ok := e.exprFor(s, src); ok {
		e.w.linef("out.%s(%s)", s.Dest.Accessor, expr)
		return nil
	}

	v := fmt.Sprintf("v%d", e.tmpID())

	if err := e.emitInto(s, src, v, fpath); err != nil {
		return err
	}

	e.w.linef("out.%s(%s)", s.Dest.Accessor, v)

	return nil
}

// readExpr renders the source member access feeding a step.
func (e *fnEmitter) readExpr(s *plan.Step) string {
	switch s.Source.Kind {
	case shape.FieldAccessor, shape.FieldGetter:
		return "in." + s.Source.Accessor + "()"
	default:
		if s.Source.Name == "" {
			return "in"
		}

		return "in." + s.Source.Name
	}
}

// emitTail writes the return, guarded by the failure check when the
// function accumulated errors.
func (e *fnEmitter) emitTail(result string, needErrs bool) {
	w := e.w

	switch {
	case needErrs:
		w.linef("if len(errs) > 0 {")
		w.indent++
		w.linef("var zero %s", e.dstType())
		w.linef("return zero, errs")
		w.indent--
		w.linef("}")
		w.linef("return %s, nil", result)
	case e.partial():
		w.linef("return %s, nil", result)
	default:
		w.linef("return %s", result)
	}
}

// renderValue converts pairs whose destination is a single value
// position rather than a member set.
func (e *fnEmitter) renderValue() error {
	s := e.p.Value
	needErrs := e.partial() && e.p.Fallible()

	if !needErrs {
		if expr, ok := e.exprFor(s, "in"); ok {
			if e.partial() {
				e.w.linef("return %s, nil", expr)
			} else {
				e.w.linef("return %s", expr)
			}

			return nil
		}
	}

	if needErrs {
		e.w.linef("var errs %s.Errors", e.partialRef())
	}

	e.w.linef("var out %s", e.dstType())

	if err := e.emitStep(s, "in", target{lvalue: "out", path: `""`}); err != nil {
		return err
	}

	e.emitTail("out", needErrs)

	return nil
}

// renderCtor builds the destination through the declared constructor,
// binding one argument per parameter.
func (e *fnEmitter) renderCtor() error {
	w := e.w
	c := e.p.Ctor

	needErrs := false

	if e.partial() {
		for i := range c.Args {
			if c.Args[i].Fallible() {
				needErrs = true
				break
			}
		}
	}

	if !needErrs && !c.Partial {
		if exprs, ok := e.argExprs(c.Args); ok {
			call := e.imp.funcRef(c.Func.Obj) + "(" + strings.Join(exprs, ", ") + ")"

			if e.partial() {
				w.linef("return %s, nil", call)
			} else {
				w.linef("return %s", call)
			}

			return nil
		}
	}

	if needErrs {
		w.linef("var errs %s.Errors", e.partialRef())
	}

	args := make([]string, len(c.Args))

	for i := range c.Args {
		a := &c.Args[i]
		args[i] = fmt.Sprintf("a%d", i)

		if err := e.emitInto(a, e.readExpr(a), args[i], strconv.Quote("."+a.Dest.Name)); err != nil {
			return err
		}
	}

	if needErrs {
		w.linef("if len(errs) > 0 {")
		w.indent++
		w.linef("var zero %s", e.dstType())
		w.linef("return zero, errs")
		w.indent--
		w.linef("}")
	}

	call := e.imp.funcRef(c.Func.Obj) + "(" + strings.Join(args, ", ") + ")"

	if c.Partial {
		n := e.tmpID()
		v, ev := fmt.Sprintf("v%d", n), fmt.Sprintf("err%d", n)

		w.linef("%s, %s := %s", v, ev, call)
		w.linef("if %s != nil {", ev)
		w.indent++
		w.linef("var zero %s", e.dstType())
		w.linef(`return zero, %s.AppendErr(nil, "", %s)`, e.partialRef(), ev)
		w.indent--
		w.linef("}")
		w.linef("return %s, nil", v)

		return nil
	}

	if e.partial() {
		w.linef("return %s, nil", call)
	} else {
		w.linef("return %s", call)
	}

	return nil
}

// argExprs renders constructor arguments as plain expressions, when
// every one of them reduces to one.
func (e *fnEmitter) argExprs(args []plan.Step) ([]string, bool) {
	out := make([]string, len(args))

	for i := range args {
		expr, ok := e.exprFor(&args[i], e.readExpr(&args[i]))
		if !ok {
			return nil, false
		}

		out[i] = expr
	}

	return out, true
}

// renderSwitch dispatches on the source variant: a type switch for
// interface sums, a value switch for constant-backed ones.
func (e *fnEmitter) renderSwitch() error {
	if e.p.Source.Enum {
		return e.renderEnumSwitch()
	}

	return e.renderTypeSwitch()
}

func (e *fnEmitter) renderTypeSwitch() error {
	w := e.w

	bind := false

	for i := range e.p.Cases {
		if e.p.Cases[i].Handler != nil || e.p.Cases[i].Nested != nil {
			bind = true
			break
		}
	}

	if bind {
		w.linef("switch v := in.(type) {")
	} else {
		w.linef("switch in.(type) {")
	}

	for i := range e.p.Cases {
		if err := e.renderTypeCase(&e.p.Cases[i]); err != nil {
			return err
		}
	}

	e.renderSwitchDefault("%T")
	w.linef("}")

	return nil
}

func (e *fnEmitter) renderTypeCase(c *plan.VariantCase) error {
	w := e.w

	caseType := e.imp.typeString(c.Source.Type)
	if c.Source.Ptr {
		caseType = "*" + caseType
	}

	w.linef("case %s:", caseType)
	w.indent++

	var err error

	switch {
	case c.Handler != nil:
		err = e.renderHandlerArm(c, "v")
	case c.Nested != nil:
		err = e.renderMatchedArm(c)
	default:
		err = e.renderSingletonArm(c)
	}

	w.indent--

	return err
}

// renderMatchedArm converts the variant payload through its nested
// pair function. Pointer-implemented variants dereference on the way
// in and take the address of the result on the way out.
func (e *fnEmitter) renderMatchedArm(c *plan.VariantCase) error {
	w := e.w

	arg := "v"
	if c.Source.Ptr {
		arg = "*v"
	}

	call := e.gen.names[c.Nested] + "(" + arg + ")"
	vpath := strconv.Quote("." + c.Source.Name)

	if c.Nested.Mode == plan.ModePartial {
		n := e.tmpID()
		v, ev := fmt.Sprintf("v%d", n), fmt.Sprintf("err%d", n)

		w.linef("%s, %s := %s", v, ev, call)
		w.linef("if %s != nil {", ev)
		w.indent++
		w.linef("var zero %s", e.dstType())
		w.linef("return zero, %s.AppendErr(nil, %s, %s)", e.partialRef(), vpath, ev)
		w.indent--
		w.linef("}")

		if c.Dest.Ptr {
			w.linef("return &%s, nil", v)
		} else {
			w.linef("return %s, nil", v)
		}

		return nil
	}

	if c.Dest.Ptr {
		v := fmt.Sprintf("v%d", e.tmpID())
		w.linef("%s := %s", v, call)

		if e.partial() {
			w.linef("return &%s, nil", v)
		} else {
			w.linef("return &%s", v)
		}

		return nil
	}

	if e.partial() {
		w.linef("return %s, nil", call)
	} else {
		w.linef("return %s", call)
	}

	return nil
}

// renderHandlerArm routes the variant through its declared handler.
func (e *fnEmitter) renderHandlerArm(c *plan.VariantCase, arg string) error {
	w := e.w
	call := e.imp.funcRef(c.Handler.Obj) + "(" + arg + ")"
	vpath := strconv.Quote("." + c.Source.Name)

	if c.HandlerPartial {
		n := e.tmpID()
		v, ev := fmt.Sprintf("v%d", n), fmt.Sprintf("err%d", n)

		w.linef("%s, %s := %s", v, ev, call)
		w.linef("if %s != nil {", ev)
		w.indent++
		w.linef("var zero %s", e.dstType())
		w.linef("return zero, %s.AppendErr(nil, %s, %s)", e.partialRef(), vpath, ev)
		w.indent--
		w.linef("}")
		w.linef("return %s, nil", v)

		return nil
	}

	if e.partial() {
		w.linef("return %s, nil", call)
	} else {
		w.linef("return %s", call)
	}

	return nil
}

// renderSingletonArm constructs a destination variant carrying no
// members.
func (e *fnEmitter) renderSingletonArm(c *plan.VariantCase) error {
	expr, err := e.singletonExpr(c.Dest)
	if err != nil {
		return err
	}

	if e.partial() {
		e.w.linef("return %s, nil", expr)
	} else {
		e.w.linef("return %s", expr)
	}

	return nil
}

// singletonExpr builds a memberless destination variant: an enum
// constant or an empty struct value.
func (e *fnEmitter) singletonExpr(v shape.Variant) (string, error) {
	if v.ConstName != "" {
		return e.qualFor(e.p.Dest.GoType) + "." + v.ConstName, nil
	}

	if v.Type == nil {
		return "", fmt.Errorf("variant %s carries neither a constant nor a type", v.Name)
	}

	lit := e.imp.typeString(v.Type) + "{}"
	if v.Ptr {
		lit = "&" + lit
	}

	return lit, nil
}

func (e *fnEmitter) renderEnumSwitch() error {
	w := e.w
	w.linef("switch in {")

	for i := range e.p.Cases {
		c := &e.p.Cases[i]
		if c.Source.ConstName == "" {
			return fmt.Errorf("variant %s has no constant to dispatch on", c.Source.Name)
		}

		w.linef("case %s.%s:", e.qualFor(e.p.Source.GoType), c.Source.ConstName)
		w.indent++

		var err error

		if c.Handler != nil {
			err = e.renderHandlerArm(c, "in")
		} else {
			err = e.renderSingletonArm(c)
		}

		w.indent--

		if err != nil {
			return err
		}
	}

	e.renderSwitchDefault("%v")
	w.linef("}")

	return nil
}

// renderSwitchDefault writes the trailing default arm. The totality
// check makes it unreachable in practice; partial functions still
// report an unknown variant instead of returning a silent zero.
func (e *fnEmitter) renderSwitchDefault(verb string) {
	w := e.w

	w.linef("default:")
	w.indent++
	w.linef("var zero %s", e.dstType())

	if e.partial() {
		e.imp.add("fmt", "fmt")
		w.linef(`return zero, %s.Errors{{Reason: fmt.Sprintf("unhandled variant %s", in)}}`, e.partialRef(), verb)
	} else {
		w.linef("return zero")
	}

	w.indent--
}
