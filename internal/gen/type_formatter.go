package gen

import (
	"fmt"
	"go/types"
	"sort"
	"strings"
)

// importSpec is one import declaration of the generated file.
type importSpec struct {
	Alias string // set when the qualifier differs from the path base
	Path  string
}

// importSet assigns stable qualifiers to the packages a generated file
// references. The first package claiming a name keeps it; later
// packages with the same name get numbered aliases.
type importSet struct {
	quals map[string]string // import path -> qualifier
	names map[string]string // import path -> package name
	used  map[string]bool   // qualifier -> taken
}

func newImportSet() *importSet {
	return &importSet{
		quals: make(map[string]string),
		names: make(map[string]string),
		used:  make(map[string]bool),
	}
}

// add registers a package under its name and returns the qualifier
// references use.
func (s *importSet) add(path, name string) string {
	if q, ok := s.quals[path]; ok {
		return q
	}

	q := name
	for i := 2; s.used[q]; i++ {
		q = fmt.Sprintf("%s%d", name, i)
	}

	s.quals[path] = q
	s.names[path] = name
	s.used[q] = true

	return q
}

// qualifier is a types.Qualifier over the set, registering every
// package it renders.
func (s *importSet) qualifier(p *types.Package) string {
	if p == nil {
		return ""
	}

	return s.add(p.Path(), p.Name())
}

// typeString renders t with the set's qualifiers.
func (s *importSet) typeString(t types.Type) string {
	return types.TypeString(t, s.qualifier)
}

// funcRef renders a package-level function reference.
func (s *importSet) funcRef(fn *types.Func) string {
	if fn.Pkg() == nil {
		return fn.Name()
	}

	return s.qualifier(fn.Pkg()) + "." + fn.Name()
}

// specs returns the import declarations, sorted by path. An alias is
// spelled out whenever the qualifier is not the path's last segment,
// which covers renamed packages and versioned module paths alike.
func (s *importSet) specs() []importSpec {
	out := make([]importSpec, 0, len(s.quals))

	for path, q := range s.quals {
		spec := importSpec{Path: path}
		if q != pathBase(path) {
			spec.Alias = q
		}

		out = append(out, spec)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out
}

func pathBase(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}

	return path
}
