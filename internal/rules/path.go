package rules

import (
	"errors"
	"fmt"
	"strings"
)

// PathSegment is one step of an override target path.
type PathSegment struct {
	// Name is the member name.
	Name string

	// Elem scopes the rest of the path into the member's elements:
	// slice elements, map values, or the optional payload.
	Elem bool
}

// Path addresses a destination member relative to the transformer's
// destination root. The zero Path is the root itself.
type Path struct {
	Segments []PathSegment
}

// ParsePath parses an override target string into a Path.
// Supports: "Field", "Nested.Field", "Items[]", "Items[].ProductID".
func ParsePath(path string) (Path, error) {
	if path == "" {
		return Path{}, errors.New("empty path")
	}

	var segments []PathSegment

	parts := strings.SplitSeq(path, ".")

	for part := range parts {
		if part == "" {
			return Path{}, fmt.Errorf("invalid path %q: empty segment", path)
		}

		elem := false
		name := part

		if strings.HasSuffix(part, "[]") {
			elem = true
			name = strings.TrimSuffix(part, "[]")

			if name == "" {
				return Path{}, fmt.Errorf("invalid path %q: element scope without member name", path)
			}
		}

		if !isValidIdent(name) {
			return Path{}, fmt.Errorf("invalid path %q: invalid identifier %q", path, name)
		}

		segments = append(segments, PathSegment{
			Name: name,
			Elem: elem,
		})
	}

	return Path{Segments: segments}, nil
}

// MustParsePath is ParsePath for statically known paths; it panics on
// malformed input.
func MustParsePath(path string) Path {
	p, err := ParsePath(path)
	if err != nil {
		panic(err)
	}

	return p
}

// IsRoot returns true for the empty path.
func (p Path) IsRoot() bool {
	return len(p.Segments) == 0
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.Segments)
}

// Child returns a new Path extended by a member segment. The receiver
// is not modified.
func (p Path) Child(name string) Path {
	segments := make([]PathSegment, len(p.Segments), len(p.Segments)+1)
	copy(segments, p.Segments)

	return Path{Segments: append(segments, PathSegment{Name: name})}
}

// IntoElem returns a new Path whose last segment is element-scoped.
// The root path is returned unchanged.
func (p Path) IntoElem() Path {
	if p.IsRoot() {
		return p
	}

	segments := make([]PathSegment, len(p.Segments))
	copy(segments, p.Segments)
	segments[len(segments)-1].Elem = true

	return Path{Segments: segments}
}

// First returns the first segment, if any.
func (p Path) First() (PathSegment, bool) {
	if p.IsRoot() {
		return PathSegment{}, false
	}

	return p.Segments[0], true
}

// String renders the path in override-target syntax, e.g.
// "Items[].ProductID". The root path renders empty.
func (p Path) String() string {
	var sb strings.Builder

	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteByte('.')
		}

		sb.WriteString(seg.Name)

		if seg.Elem {
			sb.WriteString("[]")
		}
	}

	return sb.String()
}

// Equal reports whether two paths address the same member.
func (p Path) Equal(other Path) bool {
	if len(p.Segments) != len(other.Segments) {
		return false
	}

	for i, seg := range p.Segments {
		if seg != other.Segments[i] {
			return false
		}
	}

	return true
}

// HasPrefix reports whether the path starts with all of prefix's
// segments. Every path has the root prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.Segments) > len(p.Segments) {
		return false
	}

	for i, seg := range prefix.Segments {
		if seg != p.Segments[i] {
			return false
		}
	}

	return true
}

// isValidIdent checks if a string is a valid Go identifier.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
		} else {
			if !isLetter(r) && !isDigit(r) && r != '_' {
				return false
			}
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
