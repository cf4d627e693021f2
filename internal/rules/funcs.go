package rules

import (
	"errors"
	"fmt"
	"go/types"
	"sort"
)

// FuncResolver resolves a package-level function by import path and
// name. shape.Loader satisfies it.
type FuncResolver interface {
	ResolveFunc(pkgPath, name string) (*types.Func, error)
}

// DeclaredFunc is one resolved functions-table entry.
type DeclaredFunc struct {
	Decl FunctionDecl
	Obj  *types.Func
	Sig  *types.Signature
}

// FuncTable holds the resolved declared functions of one rules file.
type FuncTable struct {
	funcs map[string]*DeclaredFunc
}

// BuildFuncTable resolves every declaration against the loaded
// packages. Resolution failures accumulate into one joined error while
// the resolvable entries still populate the table, so signature
// problems downstream report against everything that did resolve.
func BuildFuncTable(decls []FunctionDecl, res FuncResolver) (*FuncTable, error) {
	table := &FuncTable{
		funcs: make(map[string]*DeclaredFunc, len(decls)),
	}

	var errs []error

	for _, decl := range decls {
		goName := decl.Func
		if goName == "" {
			goName = decl.Name
		}

		obj, err := res.ResolveFunc(decl.Package, goName)
		if err != nil {
			errs = append(errs, fmt.Errorf("function %q: %w", decl.Name, err))

			continue
		}

		sig, ok := obj.Type().(*types.Signature)
		if !ok {
			errs = append(errs, fmt.Errorf("function %q: %s.%s is not a function", decl.Name, decl.Package, goName))

			continue
		}

		table.funcs[decl.Name] = &DeclaredFunc{
			Decl: decl,
			Obj:  obj,
			Sig:  sig,
		}
	}

	return table, errors.Join(errs...)
}

// EmptyFuncTable returns a table with no declarations, for pairs
// configured purely through the builder without computed overrides.
func EmptyFuncTable() *FuncTable {
	return &FuncTable{funcs: make(map[string]*DeclaredFunc)}
}

// Lookup returns the resolved function for a declared name.
func (t *FuncTable) Lookup(name string) (*DeclaredFunc, bool) {
	fn, ok := t.funcs[name]

	return fn, ok
}

// Names returns the declared names in sorted order.
func (t *FuncTable) Names() []string {
	out := make([]string, 0, len(t.funcs))
	for name := range t.funcs {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}

// Len returns the number of resolved declarations.
func (t *FuncTable) Len() int {
	return len(t.funcs)
}
