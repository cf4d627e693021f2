package shape

import (
	"fmt"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Loader loads Go packages and resolves type references from rules
// files into go/types objects.
type Loader struct {
	// Dir is the directory to run the build system query from.
	// Empty means the current directory.
	Dir string

	pkgs map[string]*packages.Package
}

// NewLoader creates an empty Loader.
func NewLoader() *Loader {
	return &Loader{
		pkgs: make(map[string]*packages.Package),
	}
}

// Load loads the specified packages. Patterns are standard Go package
// patterns (e.g., "./store", "github.com/eugkhp/chimney/examples/basic/api").
func (l *Loader) Load(patterns ...string) error {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  l.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		l.pkgs[pkg.PkgPath] = pkg
	}

	return nil
}

// Package returns a loaded package by import path.
func (l *Loader) Package(path string) (*packages.Package, bool) {
	pkg, ok := l.pkgs[path]

	return pkg, ok
}

// Packages returns the import paths of all loaded packages.
func (l *Loader) Packages() []string {
	out := make([]string, 0, len(l.pkgs))
	for path := range l.pkgs {
		out = append(out, path)
	}

	return out
}

// ResolveType resolves a "pkgpath.TypeName" reference against the
// loaded packages. The last dot separates the package path from the
// type name.
func (l *Loader) ResolveType(ref string) (types.Type, error) {
	dot := strings.LastIndex(ref, ".")
	if dot <= 0 || dot == len(ref)-1 {
		return nil, fmt.Errorf("invalid type reference %q: want pkgpath.TypeName", ref)
	}

	pkgPath, name := ref[:dot], ref[dot+1:]

	pkg, ok := l.pkgs[pkgPath]
	if !ok {
		return nil, fmt.Errorf("package %q not loaded", pkgPath)
	}

	obj := pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return nil, fmt.Errorf("type %s not found in package %s", name, pkgPath)
	}

	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%s is not a type in package %s", name, pkgPath)
	}

	return tn.Type(), nil
}

// ResolveFunc resolves a package-level function by package path and
// name, returning its signature.
func (l *Loader) ResolveFunc(pkgPath, name string) (*types.Func, error) {
	pkg, ok := l.pkgs[pkgPath]
	if !ok {
		return nil, fmt.Errorf("package %q not loaded", pkgPath)
	}

	obj := pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return nil, fmt.Errorf("function %s not found in package %s", name, pkgPath)
	}

	fn, ok := obj.(*types.Func)
	if !ok {
		return nil, fmt.Errorf("%s is not a function in package %s", name, pkgPath)
	}

	return fn, nil
}
