package shape

import (
	"go/types"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Options control which members the Inspector admits into product
// shapes. They are per transformer pair and propagate into nested
// inspections during derivation.
type Options struct {
	Getters bool // admit Get*/zero-arg accessor methods as readable members
	Setters bool // admit Set* methods as writable members
}

type memoKey struct {
	t   types.Type
	opt Options
}

// Inspector classifies types into shapes. Results are memoized per
// instance, so one derivation session computes each (type, options)
// shape exactly once and two inspections of the same type agree.
type Inspector struct {
	memo map[memoKey]*Shape
}

// NewInspector creates an Inspector with an empty memo.
func NewInspector() *Inspector {
	return &Inspector{
		memo: make(map[memoKey]*Shape),
	}
}

// boilerplateAccessors never become members: stringers, error values,
// marshalers and similar synthesized surfaces.
var boilerplateAccessors = map[string]bool{
	"String":        true,
	"GoString":      true,
	"Error":         true,
	"Hash":          true,
	"Clone":         true,
	"Copy":          true,
	"MarshalJSON":   true,
	"MarshalText":   true,
	"MarshalYAML":   true,
	"MarshalBinary": true,
}

// Inspect classifies a type. Classification priority: recognized
// wrappers, sums, products, then scalar as the fallback.
func (ins *Inspector) Inspect(t types.Type, opt Options) *Shape {
	key := memoKey{t: t, opt: opt}
	if s, ok := ins.memo[key]; ok {
		return s
	}

	s := ins.classify(t, opt)
	ins.memo[key] = s

	return s
}

func (ins *Inspector) classify(t types.Type, opt Options) *Shape {
	s := &Shape{
		ID:     IDOf(t),
		GoType: t,
	}

	switch tt := types.Unalias(t).(type) {
	case *types.Pointer:
		s.Kind = KindWrapper
		s.Wrapper = WrapperOptional
		s.Elem = tt.Elem()

	case *types.Slice:
		s.Kind = KindWrapper
		s.Wrapper = WrapperSlice
		s.Elem = tt.Elem()

	case *types.Map:
		s.Kind = KindWrapper
		s.Wrapper = WrapperMap
		s.Key = tt.Key()
		s.Elem = tt.Elem()

	case *types.Basic:
		s.Kind = KindScalar
		s.Basic = classifyBasic(tt)

	case *types.Named:
		ins.classifyNamed(tt, s, opt)

	case *types.Struct:
		// Unnamed struct literal type: product without an ID.
		s.Kind = KindProduct
		s.Fields = structFields(tt)

	default:
		s.Kind = KindScalar
	}

	return s
}

func (ins *Inspector) classifyNamed(named *types.Named, s *Shape, opt Options) {
	if k := KindOfBasic(named); k == BasicTime || k == BasicDuration {
		s.Kind = KindScalar
		s.Basic = k

		return
	}

	if fam, ok := lookupNull(named); ok {
		s.Kind = KindWrapper
		s.Wrapper = WrapperNull
		s.Null = fam
		s.Elem = nullValueType(named, fam)

		return
	}

	switch ut := named.Underlying().(type) {
	case *types.Interface:
		ins.classifyInterface(named, ut, s)

	case *types.Basic:
		s.Basic = classifyBasic(ut)

		if variants := enumConstants(named); len(variants) >= 2 {
			s.Kind = KindSum
			s.Enum = true
			s.Variants = variants
		} else {
			s.Kind = KindScalar
		}

	case *types.Struct:
		fields := ins.productMembers(named, ut, opt)

		// A named struct with no reachable members is opaque and
		// mapped only by identity, conversion, or override.
		if len(fields) == 0 {
			s.Kind = KindScalar

			return
		}

		s.Kind = KindProduct
		s.Fields = fields

		for _, f := range fields {
			if f.Kind == FieldSetter {
				s.Bean = true

				break
			}
		}

	case *types.Pointer:
		s.Kind = KindWrapper
		s.Wrapper = WrapperOptional
		s.Elem = ut.Elem()

	case *types.Slice:
		s.Kind = KindWrapper
		s.Wrapper = WrapperSlice
		s.Elem = ut.Elem()

	case *types.Map:
		s.Kind = KindWrapper
		s.Wrapper = WrapperMap
		s.Key = ut.Key()
		s.Elem = ut.Elem()

	default:
		s.Kind = KindScalar
	}
}

// classifyInterface treats an interface with at least one unexported
// method as a closed sum: no type outside the defining package can
// implement it, so the concrete implementations found in that package
// are the complete variant set.
func (ins *Inspector) classifyInterface(named *types.Named, iface *types.Interface, s *Shape) {
	pkg := named.Obj().Pkg()
	if pkg == nil || !closedInterface(iface) {
		s.Kind = KindScalar

		return
	}

	scope := pkg.Scope()
	for _, name := range scope.Names() { // sorted by go/types
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !tn.Exported() || tn.IsAlias() {
			continue
		}

		vt := tn.Type()
		if types.Identical(vt, named) || types.IsInterface(vt) {
			continue
		}

		v := Variant{Name: name, PkgPath: pkg.Path()}

		switch {
		case types.Implements(vt, iface):
			v.Type = vt
		case types.Implements(types.NewPointer(vt), iface):
			v.Type = vt
			v.Ptr = true
		default:
			continue
		}

		v.Singleton = isEmptyStruct(vt)
		s.Variants = append(s.Variants, v)
	}

	if len(s.Variants) == 0 {
		s.Kind = KindScalar

		return
	}

	s.Kind = KindSum
}

func closedInterface(iface *types.Interface) bool {
	for i := range iface.NumMethods() {
		if !iface.Method(i).Exported() {
			return true
		}
	}

	return false
}

// enumConstants collects the exported package-level constants declared
// with exactly the named type. Two or more make the type an enum sum;
// fewer leave it a named scalar.
func enumConstants(named *types.Named) []Variant {
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return nil
	}

	var out []Variant

	scope := pkg.Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !c.Exported() {
			continue
		}

		if !types.Identical(c.Type(), named) {
			continue
		}

		out = append(out, Variant{
			Name:      name,
			Singleton: true,
			ConstName: name,
			PkgPath:   pkg.Path(),
		})
	}

	return out
}

func isEmptyStruct(t types.Type) bool {
	st, ok := t.Underlying().(*types.Struct)

	return ok && st.NumFields() == 0
}

func (ins *Inspector) productMembers(named *types.Named, st *types.Struct, opt Options) []Field {
	fields := structFields(st)

	if opt.Getters || opt.Setters {
		fields = append(fields, methodMembers(named, fields, opt)...)
	}

	return fields
}

// structFields extracts exported fields in declaration order and
// applies the chimney struct tag: "-" ignores the member,
// "default=<expr>" attaches a fallback expression.
func structFields(st *types.Struct) []Field {
	var out []Field

	for i := range st.NumFields() {
		f := st.Field(i)
		if !f.Exported() {
			continue
		}

		fld := Field{
			Name:     f.Name(),
			Type:     f.Type(),
			Kind:     FieldStruct,
			Embedded: f.Embedded(),
			Index:    i,
		}

		tag := reflect.StructTag(st.Tag(i)).Get("chimney")
		switch {
		case tag == "-":
			fld.Ignored = true
		case strings.HasPrefix(tag, "default="):
			fld.Default = defaultExpr(strings.TrimPrefix(tag, "default="), f.Type())
		}

		out = append(out, fld)
	}

	return out
}

// defaultExpr normalizes a tag default into a Go expression. Values for
// string-kind members that are not already quoted get quoted, so
// chimney:"default=pending" works on a string field.
func defaultExpr(raw string, t types.Type) string {
	if raw == "" {
		return ""
	}

	if KindOfBasic(t) == BasicString && !strings.HasPrefix(raw, `"`) && !strings.HasPrefix(raw, "`") {
		return strconv.Quote(raw)
	}

	return raw
}

// methodMembers admits accessor methods per the options. Getter-style
// members are readable, setter-style members are writable; both may
// coexist under one member name. Methods never shadow an exported
// field of the same member name.
func methodMembers(named *types.Named, fields []Field, opt Options) []Field {
	readTaken := make(map[string]bool)
	writeTaken := make(map[string]bool)

	for _, f := range fields {
		readTaken[f.Name] = true
		writeTaken[f.Name] = true
	}

	var out []Field

	for i := range named.NumMethods() {
		m := named.Method(i)
		if !m.Exported() || boilerplateAccessors[m.Name()] {
			continue
		}

		sig, ok := m.Type().(*types.Signature)
		if !ok || sig.Variadic() {
			continue
		}

		if opt.Getters && sig.Params().Len() == 0 && sig.Results().Len() == 1 {
			name, kind := m.Name(), FieldAccessor
			if rest, ok := trimAccessorPrefix(name, "Get"); ok {
				name, kind = rest, FieldGetter
			}

			if !readTaken[name] {
				readTaken[name] = true
				out = append(out, Field{
					Name:     name,
					Type:     sig.Results().At(0).Type(),
					Kind:     kind,
					Accessor: m.Name(),
					Index:    -1,
				})
			}
		}

		if opt.Setters && sig.Params().Len() == 1 && sig.Results().Len() == 0 {
			rest, ok := trimAccessorPrefix(m.Name(), "Set")
			if !ok || writeTaken[rest] {
				continue
			}

			writeTaken[rest] = true
			out = append(out, Field{
				Name:     rest,
				Type:     sig.Params().At(0).Type(),
				Kind:     FieldSetter,
				Accessor: m.Name(),
				Index:    -1,
			})
		}
	}

	// Method iteration order is not specified; member order must be.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}

		return out[i].Kind < out[j].Kind
	})

	return out
}

// trimAccessorPrefix strips a Get/Set prefix when the remainder starts
// with an upper-case rune, so "Settle" is not a setter for "tle".
func trimAccessorPrefix(name, prefix string) (string, bool) {
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return "", false
	}

	rest := name[len(prefix):]
	if !unicode.IsUpper(rune(rest[0])) {
		return "", false
	}

	return rest, true
}
