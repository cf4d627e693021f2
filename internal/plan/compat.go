package plan

import (
	"go/types"

	"github.com/eugkhp/chimney/internal/common"
)

// Compat grades how directly a source type reaches a destination type.
// Higher grades need less machinery.
type Compat int

const (
	// CompatNone means no direct assignment or conversion exists; the
	// pair needs wrapper adaptation, nested derivation, or an override.
	CompatNone Compat = iota
	// CompatConvertible means an explicit Go conversion suffices.
	CompatConvertible
	// CompatAssignable means the source assigns directly.
	CompatAssignable
	// CompatIdentical means the types are the same.
	CompatIdentical
)

// String returns the verdict code.
func (c Compat) String() string {
	switch c {
	case CompatIdentical:
		return "identical"
	case CompatAssignable:
		return "assignable"
	case CompatConvertible:
		return "convertible"
	case CompatNone:
		return "none"
	default:
		return common.UnknownStr
	}
}

// Classify grades a source/destination type pair via go/types.
func Classify(src, dst types.Type) Compat {
	if types.Identical(src, dst) {
		return CompatIdentical
	}

	if types.AssignableTo(src, dst) {
		return CompatAssignable
	}

	if types.ConvertibleTo(src, dst) {
		return CompatConvertible
	}

	return CompatNone
}
