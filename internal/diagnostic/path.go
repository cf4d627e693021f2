package diagnostic

import (
	"strconv"
	"strings"
)

// Path identifies a destination member inside a derivation.
// Examples:
//   - ".Tag" for a top-level field
//   - ".Address.Street" for a nested field
//   - ".Items(3).ProductID" for a field within element 3 of a collection
//
// Paths are immutable; Field, Index, and Variant return extended copies,
// so a path handed to a nested derivation is never mutated by it.
type Path struct {
	parts []string
}

// Root returns the empty path, denoting the whole destination value.
func Root() Path {
	return Path{}
}

// Field appends a member name to the path.
func (p Path) Field(name string) Path {
	return p.extend(name)
}

// Index appends a collection element index to the path.
func (p Path) Index(i int) Path {
	return p.extend("(" + strconv.Itoa(i) + ")")
}

// Key appends a map key marker to the path.
func (p Path) Key(repr string) Path {
	return p.extend("(" + repr + ")")
}

// Variant appends a sum variant name to the path.
func (p Path) Variant(name string) Path {
	return p.extend(name)
}

func (p Path) extend(part string) Path {
	parts := make([]string, len(p.parts), len(p.parts)+1)
	copy(parts, p.parts)

	return Path{parts: append(parts, part)}
}

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool {
	return len(p.parts) == 0
}

// String renders the path. Field and variant segments are prefixed with
// a dot, index segments glue onto the preceding segment.
func (p Path) String() string {
	var sb strings.Builder

	for _, part := range p.parts {
		if !strings.HasPrefix(part, "(") {
			sb.WriteString(".")
		}

		sb.WriteString(part)
	}

	return sb.String()
}
