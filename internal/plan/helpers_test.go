package plan

import (
	"fmt"
	"go/constant"
	"go/token"
	"go/types"
	"testing"

	"github.com/eugkhp/chimney/internal/rules"
)

func namedStruct(pkg *types.Package, name string, fields []*types.Var, tags []string) *types.Named {
	tn := types.NewTypeName(token.NoPos, pkg, name, nil)
	named := types.NewNamed(tn, types.NewStruct(fields, tags), nil)
	pkg.Scope().Insert(tn)

	return named
}

func field(pkg *types.Package, name string, t types.Type) *types.Var {
	return types.NewField(token.NoPos, pkg, name, t, false)
}

func namedBasic(pkg *types.Package, name string, base *types.Basic) *types.Named {
	tn := types.NewTypeName(token.NoPos, pkg, name, nil)
	named := types.NewNamed(tn, base, nil)
	pkg.Scope().Insert(tn)

	return named
}

func enumType(pkg *types.Package, name string, consts ...string) *types.Named {
	named := namedBasic(pkg, name, types.Typ[types.Int])
	for i, c := range consts {
		pkg.Scope().Insert(types.NewConst(token.NoPos, pkg, c, named, constant.MakeInt64(int64(i))))
	}

	return named
}

func sumType(pkg *types.Package, name, marker string) *types.Named {
	m := types.NewFunc(token.NoPos, pkg, marker, types.NewSignatureType(nil, nil, nil, nil, nil, false))
	iface := types.NewInterfaceType([]*types.Func{m}, nil)
	iface.Complete()

	tn := types.NewTypeName(token.NoPos, pkg, name, nil)
	named := types.NewNamed(tn, iface, nil)
	pkg.Scope().Insert(tn)

	return named
}

func implement(pkg *types.Package, named *types.Named, marker string, ptr bool) {
	recvT := types.Type(named)
	if ptr {
		recvT = types.NewPointer(named)
	}

	recv := types.NewVar(token.NoPos, pkg, "x", recvT)
	named.AddMethod(types.NewFunc(token.NoPos, pkg, marker,
		types.NewSignatureType(recv, nil, nil, nil, nil, false)))
}

func addSetter(pkg *types.Package, named *types.Named, name string, t types.Type) {
	recv := types.NewVar(token.NoPos, pkg, "x", types.NewPointer(named))
	params := types.NewTuple(types.NewVar(token.NoPos, pkg, "v", t))
	named.AddMethod(types.NewFunc(token.NoPos, pkg, name,
		types.NewSignatureType(recv, nil, nil, params, nil, false)))
}

func newFunc(pkg *types.Package, name string, params, results []*types.Var) *types.Func {
	return types.NewFunc(token.NoPos, pkg, name, types.NewSignatureType(nil, nil, nil,
		types.NewTuple(params...), types.NewTuple(results...), false))
}

func param(pkg *types.Package, name string, t types.Type) *types.Var {
	return types.NewVar(token.NoPos, pkg, name, t)
}

type funcMap map[string]*types.Func

func (m funcMap) ResolveFunc(pkgPath, name string) (*types.Func, error) {
	if fn, ok := m[pkgPath+"."+name]; ok {
		return fn, nil
	}

	return nil, fmt.Errorf("no function %s.%s", pkgPath, name)
}

func declaredFuncs(t *testing.T, fns map[string]*types.Func, decls ...rules.FunctionDecl) *rules.FuncTable {
	t.Helper()

	table, err := rules.BuildFuncTable(decls, funcMap(fns))
	if err != nil {
		t.Fatalf("BuildFuncTable failed: %v", err)
	}

	return table
}

func mustPath(s string) rules.Path {
	return rules.MustParsePath(s)
}
