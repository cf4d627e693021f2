package rules

import (
	"github.com/eugkhp/chimney/internal/common"
)

// OverrideKind identifies what an override contributes to derivation.
type OverrideKind int

const (
	OverrideInvalid OverrideKind = iota

	// OverrideConst splices Expr as the member value.
	OverrideConst
	// OverrideConstPartial splices Expr as a (value, error) pair.
	OverrideConstPartial
	// OverrideComputed calls Func on the whole source value.
	OverrideComputed
	// OverrideComputedPartial calls Func returning (value, error).
	OverrideComputedPartial
	// OverrideRenamed reads the source member named From.
	OverrideRenamed
	// OverrideSubtypeHandled maps the source variant named by Path.
	OverrideSubtypeHandled
	// OverrideSubtypeHandledPartial is the fallible variant handler.
	OverrideSubtypeHandledPartial
	// OverrideConstructor builds the destination by calling Func.
	OverrideConstructor
	// OverrideConstructorPartial is the fallible constructor.
	OverrideConstructorPartial
)

// String returns a human-readable representation of the OverrideKind.
func (k OverrideKind) String() string {
	switch k {
	case OverrideConst:
		return "const"
	case OverrideConstPartial:
		return "constPartial"
	case OverrideComputed:
		return "compute"
	case OverrideComputedPartial:
		return "computePartial"
	case OverrideRenamed:
		return "rename"
	case OverrideSubtypeHandled:
		return "handler"
	case OverrideSubtypeHandledPartial:
		return "handlerPartial"
	case OverrideConstructor:
		return "constructor"
	case OverrideConstructorPartial:
		return "constructorPartial"
	default:
		return common.UnknownStr
	}
}

// IsPartial reports whether the override's payload may fail, making the
// enclosing plan partial-producing.
func (k OverrideKind) IsPartial() bool {
	switch k {
	case OverrideConstPartial, OverrideComputedPartial,
		OverrideSubtypeHandledPartial, OverrideConstructorPartial:
		return true
	default:
		return false
	}
}

// IsValue reports whether the override supplies a member value directly
// (the kinds consulted before name matching).
func (k OverrideKind) IsValue() bool {
	switch k {
	case OverrideConst, OverrideConstPartial, OverrideComputed, OverrideComputedPartial:
		return true
	default:
		return false
	}
}

// IsHandler reports whether the override maps a source sum variant.
func (k OverrideKind) IsHandler() bool {
	return k == OverrideSubtypeHandled || k == OverrideSubtypeHandledPartial
}

// IsConstructor reports whether the override replaces the construction
// strategy.
func (k OverrideKind) IsConstructor() bool {
	return k == OverrideConstructor || k == OverrideConstructorPartial
}

// Override is one registered derivation override.
type Override struct {
	Kind OverrideKind

	// Path is the destination path for value and rename overrides, the
	// source variant name (single segment) for handlers, and empty for
	// constructors.
	Path Path

	// Expr is the Go expression payload of const overrides.
	Expr string

	// Func is the declared function name for computed members,
	// handlers, and constructors.
	Func string

	// From is the source member name for renames.
	From string
}
