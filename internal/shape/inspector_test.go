package shape

import (
	"go/constant"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNamedStruct(pkg *types.Package, name string, st *types.Struct) *types.Named {
	tn := types.NewTypeName(token.NoPos, pkg, name, nil)
	named := types.NewNamed(tn, st, nil)
	pkg.Scope().Insert(tn)

	return named
}

func addValueMethod(pkg *types.Package, named *types.Named, name string, params, results *types.Tuple) {
	recv := types.NewVar(token.NoPos, pkg, "x", named)
	named.AddMethod(types.NewFunc(token.NoPos, pkg, name, types.NewSignatureType(recv, nil, nil, params, results, false)))
}

func addPointerMethod(pkg *types.Package, named *types.Named, name string, params, results *types.Tuple) {
	recv := types.NewVar(token.NoPos, pkg, "x", types.NewPointer(named))
	named.AddMethod(types.NewFunc(token.NoPos, pkg, name, types.NewSignatureType(recv, nil, nil, params, results, false)))
}

func TestInspect_Basics(t *testing.T) {
	ins := NewInspector()

	s := ins.Inspect(types.Typ[types.Int], Options{})
	assert.Equal(t, KindScalar, s.Kind)
	assert.Equal(t, BasicInt, s.Basic)

	s = ins.Inspect(types.Typ[types.String], Options{})
	assert.Equal(t, KindScalar, s.Kind)
	assert.Equal(t, BasicString, s.Basic)
}

func TestInspect_Wrappers(t *testing.T) {
	ins := NewInspector()
	pkg := types.NewPackage("example.com/fix", "fix")
	order := newNamedStruct(pkg, "Order", types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, pkg, "ID", types.Typ[types.Int64], false),
	}, nil))

	opt := ins.Inspect(types.NewPointer(order), Options{})
	assert.Equal(t, KindWrapper, opt.Kind)
	assert.Equal(t, WrapperOptional, opt.Wrapper)
	assert.Equal(t, order, opt.Elem)

	sl := ins.Inspect(types.NewSlice(order), Options{})
	assert.Equal(t, KindWrapper, sl.Kind)
	assert.Equal(t, WrapperSlice, sl.Wrapper)
	assert.Equal(t, order, sl.Elem)

	m := ins.Inspect(types.NewMap(types.Typ[types.String], order), Options{})
	assert.Equal(t, KindWrapper, m.Kind)
	assert.Equal(t, WrapperMap, m.Wrapper)
	assert.Equal(t, types.Typ[types.String], m.Key)
	assert.Equal(t, order, m.Elem)
}

func TestInspect_NamedWrapper(t *testing.T) {
	ins := NewInspector()
	pkg := types.NewPackage("example.com/fix", "fix")

	tags := types.NewTypeName(token.NoPos, pkg, "Tags", nil)
	named := types.NewNamed(tags, types.NewSlice(types.Typ[types.String]), nil)

	s := ins.Inspect(named, Options{})
	assert.Equal(t, KindWrapper, s.Kind)
	assert.Equal(t, WrapperSlice, s.Wrapper)
	assert.Equal(t, "Tags", s.ID.Name)
}

func TestInspect_Product(t *testing.T) {
	ins := NewInspector()
	pkg := types.NewPackage("example.com/fix", "fix")

	st := types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, pkg, "ID", types.Typ[types.Int64], false),
		types.NewField(token.NoPos, pkg, "Name", types.Typ[types.String], false),
		types.NewField(token.NoPos, pkg, "secret", types.Typ[types.String], false),
	}, nil)
	order := newNamedStruct(pkg, "Order", st)

	s := ins.Inspect(order, Options{})
	require.Equal(t, KindProduct, s.Kind)
	require.Len(t, s.Fields, 2)
	assert.Equal(t, "ID", s.Fields[0].Name)
	assert.Equal(t, "Name", s.Fields[1].Name)
	assert.Equal(t, FieldStruct, s.Fields[0].Kind)
	assert.False(t, s.Bean)
	assert.Equal(t, TypeID{PkgPath: "example.com/fix", Name: "Order"}, s.ID)
}

func TestInspect_Tags(t *testing.T) {
	ins := NewInspector()
	pkg := types.NewPackage("example.com/fix", "fix")

	st := types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, pkg, "Status", types.Typ[types.String], false),
		types.NewField(token.NoPos, pkg, "Retries", types.Typ[types.Int], false),
		types.NewField(token.NoPos, pkg, "Internal", types.Typ[types.String], false),
	}, []string{
		`chimney:"default=pending"`,
		`chimney:"default=3"`,
		`chimney:"-"`,
	})
	job := newNamedStruct(pkg, "Job", st)

	s := ins.Inspect(job, Options{})
	require.Equal(t, KindProduct, s.Kind)
	require.Len(t, s.Fields, 3)

	assert.Equal(t, `"pending"`, s.Fields[0].Default)
	assert.Equal(t, "3", s.Fields[1].Default)
	assert.True(t, s.Fields[2].Ignored)

	assert.Len(t, s.DestMembers(), 2)
}

func TestDefaultExpr(t *testing.T) {
	assert.Equal(t, `"pending"`, defaultExpr("pending", types.Typ[types.String]))
	assert.Equal(t, `"already"`, defaultExpr(`"already"`, types.Typ[types.String]))
	assert.Equal(t, "42", defaultExpr("42", types.Typ[types.Int]))
	assert.Equal(t, "", defaultExpr("", types.Typ[types.String]))
}

func TestInspect_OpaqueStruct(t *testing.T) {
	ins := NewInspector()
	pkg := types.NewPackage("example.com/fix", "fix")

	st := types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, pkg, "wall", types.Typ[types.Uint64], false),
	}, nil)
	opaque := newNamedStruct(pkg, "Opaque", st)

	s := ins.Inspect(opaque, Options{})
	assert.Equal(t, KindScalar, s.Kind)
	assert.True(t, s.IsNamed())
}

func TestInspect_EnumSum(t *testing.T) {
	ins := NewInspector()
	pkg := types.NewPackage("example.com/store", "store")

	tn := types.NewTypeName(token.NoPos, pkg, "Status", nil)
	status := types.NewNamed(tn, types.Typ[types.String], nil)
	pkg.Scope().Insert(tn)

	for _, name := range []string{"StatusPending", "StatusPaid", "StatusShipped"} {
		c := types.NewConst(token.NoPos, pkg, name, status, constant.MakeString(name))
		pkg.Scope().Insert(c)
	}

	// Unexported and foreign-typed constants stay out of the variant set.
	pkg.Scope().Insert(types.NewConst(token.NoPos, pkg, "statusDraft", status, constant.MakeString("draft")))
	pkg.Scope().Insert(types.NewConst(token.NoPos, pkg, "MaxRetries", types.Typ[types.Int], constant.MakeInt64(3)))

	s := ins.Inspect(status, Options{})
	require.Equal(t, KindSum, s.Kind)
	assert.True(t, s.Enum)
	assert.Equal(t, BasicString, s.Basic)

	require.Len(t, s.Variants, 3)
	assert.Equal(t, "StatusPaid", s.Variants[0].Name)
	assert.Equal(t, "StatusPending", s.Variants[1].Name)
	assert.Equal(t, "StatusShipped", s.Variants[2].Name)
	assert.True(t, s.Variants[0].Singleton)
}

func TestInspect_SingleConstIsScalar(t *testing.T) {
	ins := NewInspector()
	pkg := types.NewPackage("example.com/lone", "lone")

	tn := types.NewTypeName(token.NoPos, pkg, "Level", nil)
	level := types.NewNamed(tn, types.Typ[types.Int], nil)
	pkg.Scope().Insert(tn)
	pkg.Scope().Insert(types.NewConst(token.NoPos, pkg, "LevelOne", level, constant.MakeInt64(1)))

	s := ins.Inspect(level, Options{})
	assert.Equal(t, KindScalar, s.Kind)
	assert.Equal(t, BasicInt, s.Basic)
}

func TestInspect_InterfaceSum(t *testing.T) {
	ins := NewInspector()
	pkg := types.NewPackage("example.com/pay", "pay")

	marker := types.NewFunc(token.NoPos, pkg, "isPayment", types.NewSignatureType(nil, nil, nil, nil, nil, false))
	iface := types.NewInterfaceType([]*types.Func{marker}, nil)
	iface.Complete()

	payTN := types.NewTypeName(token.NoPos, pkg, "Payment", nil)
	payment := types.NewNamed(payTN, iface, nil)
	pkg.Scope().Insert(payTN)

	card := newNamedStruct(pkg, "Card", types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, pkg, "Number", types.Typ[types.String], false),
	}, nil))
	addValueMethod(pkg, card, "isPayment", nil, nil)

	cash := newNamedStruct(pkg, "Cash", types.NewStruct(nil, nil))
	addValueMethod(pkg, cash, "isPayment", nil, nil)

	wire := newNamedStruct(pkg, "Wire", types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, pkg, "IBAN", types.Typ[types.String], false),
	}, nil))
	addPointerMethod(pkg, wire, "isPayment", nil, nil)

	// Exported but not implementing: never a variant.
	newNamedStruct(pkg, "Refund", types.NewStruct(nil, nil))

	s := ins.Inspect(payment, Options{})
	require.Equal(t, KindSum, s.Kind)
	assert.False(t, s.Enum)

	require.Len(t, s.Variants, 3)
	assert.Equal(t, "Card", s.Variants[0].Name)
	assert.False(t, s.Variants[0].Ptr)
	assert.False(t, s.Variants[0].Singleton)

	assert.Equal(t, "Cash", s.Variants[1].Name)
	assert.True(t, s.Variants[1].Singleton)

	assert.Equal(t, "Wire", s.Variants[2].Name)
	assert.True(t, s.Variants[2].Ptr)
}

func TestInspect_OpenInterfaceIsScalar(t *testing.T) {
	ins := NewInspector()
	pkg := types.NewPackage("example.com/open", "open")

	m := types.NewFunc(token.NoPos, pkg, "Describe",
		types.NewSignatureType(nil, nil, nil, nil,
			types.NewTuple(types.NewVar(token.NoPos, pkg, "", types.Typ[types.String])), false))
	iface := types.NewInterfaceType([]*types.Func{m}, nil)
	iface.Complete()

	tn := types.NewTypeName(token.NoPos, pkg, "Describer", nil)
	describer := types.NewNamed(tn, iface, nil)
	pkg.Scope().Insert(tn)

	s := ins.Inspect(describer, Options{})
	assert.Equal(t, KindScalar, s.Kind)
}

func TestInspect_NullWrapper(t *testing.T) {
	ins := NewInspector()
	sqlPkg := types.NewPackage("database/sql", "sql")

	st := types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, sqlPkg, "String", types.Typ[types.String], false),
		types.NewField(token.NoPos, sqlPkg, "Valid", types.Typ[types.Bool], false),
	}, nil)
	ns := newNamedStruct(sqlPkg, "NullString", st)

	s := ins.Inspect(ns, Options{})
	require.Equal(t, KindWrapper, s.Kind)
	assert.Equal(t, WrapperNull, s.Wrapper)
	assert.Equal(t, "String", s.Null.ValueField)
	assert.Empty(t, s.Null.FromFunc)
	assert.Equal(t, types.Typ[types.String], s.Elem)
}

func TestInspect_Accessors(t *testing.T) {
	ins := NewInspector()
	pkg := types.NewPackage("example.com/bean", "bean")

	legacy := newNamedStruct(pkg, "Legacy", types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, pkg, "ID", types.Typ[types.Int64], false),
	}, nil))

	stringR := types.NewTuple(types.NewVar(token.NoPos, pkg, "", types.Typ[types.String]))
	stringP := types.NewTuple(types.NewVar(token.NoPos, pkg, "v", types.Typ[types.String]))
	intR := types.NewTuple(types.NewVar(token.NoPos, pkg, "", types.Typ[types.Int]))

	addValueMethod(pkg, legacy, "GetName", nil, stringR)
	addPointerMethod(pkg, legacy, "SetName", stringP, nil)
	addValueMethod(pkg, legacy, "Age", nil, intR)
	addValueMethod(pkg, legacy, "String", nil, stringR)  // boilerplate
	addValueMethod(pkg, legacy, "Settle", nil, nil)      // not a setter
	addPointerMethod(pkg, legacy, "Setup", stringP, nil) // not a setter either

	s := ins.Inspect(legacy, Options{Getters: true, Setters: true})
	require.Equal(t, KindProduct, s.Kind)
	assert.True(t, s.Bean)

	require.Len(t, s.Fields, 4)
	assert.Equal(t, "ID", s.Fields[0].Name)

	assert.Equal(t, "Age", s.Fields[1].Name)
	assert.Equal(t, FieldAccessor, s.Fields[1].Kind)
	assert.Equal(t, "Age", s.Fields[1].Accessor)

	assert.Equal(t, "Name", s.Fields[2].Name)
	assert.Equal(t, FieldGetter, s.Fields[2].Kind)
	assert.Equal(t, "GetName", s.Fields[2].Accessor)

	assert.Equal(t, "Name", s.Fields[3].Name)
	assert.Equal(t, FieldSetter, s.Fields[3].Kind)
	assert.Equal(t, "SetName", s.Fields[3].Accessor)
	assert.Equal(t, types.Typ[types.String], s.Fields[3].Type)

	// Without the options the methods stay invisible.
	plain := ins.Inspect(legacy, Options{})
	require.Len(t, plain.Fields, 1)
	assert.False(t, plain.Bean)
}

func TestInspect_Memoized(t *testing.T) {
	ins := NewInspector()
	pkg := types.NewPackage("example.com/fix", "fix")
	order := newNamedStruct(pkg, "Memo", types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, pkg, "ID", types.Typ[types.Int64], false),
	}, nil))

	first := ins.Inspect(order, Options{})
	second := ins.Inspect(order, Options{})
	assert.Same(t, first, second)

	withOpts := ins.Inspect(order, Options{Getters: true})
	assert.NotSame(t, first, withOpts)
}

func TestTrimAccessorPrefix(t *testing.T) {
	rest, ok := trimAccessorPrefix("GetName", "Get")
	assert.True(t, ok)
	assert.Equal(t, "Name", rest)

	_, ok = trimAccessorPrefix("Getaway", "Get")
	assert.False(t, ok)

	_, ok = trimAccessorPrefix("Get", "Get")
	assert.False(t, ok)

	_, ok = trimAccessorPrefix("Name", "Get")
	assert.False(t, ok)
}
