package plan

import (
	"go/types"

	"github.com/eugkhp/chimney/internal/common"
	"github.com/eugkhp/chimney/internal/match"
	"github.com/eugkhp/chimney/internal/rules"
	"github.com/eugkhp/chimney/internal/shape"
)

// Pair identifies one source/destination type pairing.
type Pair struct {
	Source types.Type
	Dest   types.Type
}

// Key renders the canonical "source -> dest" identity used for caching
// and reporting.
func (p Pair) Key() string {
	return shape.TypeString(p.Source) + " -> " + shape.TypeString(p.Dest)
}

// Mode selects the generated function contract.
type Mode int

const (
	// ModeTotal functions return the destination value alone and never
	// fail at runtime. Fallible steps are derivation failures.
	ModeTotal Mode = iota
	// ModePartial functions return (destination, error) and surface
	// value-dependent failures as partial.Errors.
	ModePartial
)

// String returns the rules-file spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeTotal:
		return rules.ModeTotal
	case ModePartial:
		return rules.ModePartial
	default:
		return common.UnknownStr
	}
}

// ModeOf converts a rules-file mode string. Anything but the partial
// spelling is total; the loader validates the raw value.
func ModeOf(s string) Mode {
	if s == rules.ModePartial {
		return ModePartial
	}

	return ModeTotal
}

// StepOp describes how one destination value position is produced.
type StepOp int

const (
	StepInvalid StepOp = iota
	// StepCopy assigns the source value directly.
	StepCopy
	// StepConvert applies an explicit Go conversion.
	StepConvert
	// StepWrap lifts a value into a pointer.
	StepWrap
	// StepUnwrap dereferences a pointer. Fallible without a default.
	StepUnwrap
	// StepWrapNull builds a nullable wrapper around a value.
	StepWrapNull
	// StepUnwrapNull reads a nullable wrapper's value. Fallible without
	// a default.
	StepUnwrapNull
	// StepMapElems rebuilds a wrapper around converted carried values:
	// pointer/nullable remaps, slice and map loops.
	StepMapElems
	// StepNested calls the nested pair's generated function.
	StepNested
	// StepConst evaluates a literal override expression.
	StepConst
	// StepCompute calls a declared override function on the source.
	StepCompute
	// StepDefault evaluates a fallback expression; no source involved.
	StepDefault
)

// String returns a stable op code for reports and tests.
func (op StepOp) String() string {
	switch op {
	case StepCopy:
		return "copy"
	case StepConvert:
		return "convert"
	case StepWrap:
		return "wrap"
	case StepUnwrap:
		return "unwrap"
	case StepWrapNull:
		return "wrap_null"
	case StepUnwrapNull:
		return "unwrap_null"
	case StepMapElems:
		return "map_elems"
	case StepNested:
		return "nested"
	case StepConst:
		return "const"
	case StepCompute:
		return "compute"
	case StepDefault:
		return "default"
	default:
		return common.UnknownStr
	}
}

// CtorStrategy describes how the destination value is constructed.
type CtorStrategy int

const (
	// CtorLiteral builds a composite literal in declaration order.
	CtorLiteral CtorStrategy = iota
	// CtorSetters starts from the zero value and calls setters.
	CtorSetters
	// CtorFunc calls a declared constructor function.
	CtorFunc
	// CtorSingleton produces an enum constant or empty struct value.
	CtorSingleton
	// CtorSwitch dispatches on the source variant.
	CtorSwitch
)

// String returns a stable strategy code.
func (s CtorStrategy) String() string {
	switch s {
	case CtorLiteral:
		return "literal"
	case CtorSetters:
		return "setters"
	case CtorFunc:
		return "func"
	case CtorSingleton:
		return "singleton"
	case CtorSwitch:
		return "switch"
	default:
		return common.UnknownStr
	}
}

// Step produces one destination value position.
type Step struct {
	// Dest is the destination member the step populates. Value plans,
	// constructor arguments, and element sub-steps leave the field
	// parts zero and carry only a display name.
	Dest shape.Field

	Op StepOp

	// Source is the source member feeding the step. Zero for const,
	// compute, and default steps.
	Source shape.Field

	// Src and Dst are the value types entering and leaving the op.
	Src types.Type
	Dst types.Type

	// Expr is the Go expression payload of const and default steps.
	Expr string

	// Func is the declared function behind compute steps.
	Func *rules.DeclaredFunc

	// Partial marks a runtime-fallible declared-function call.
	Partial bool

	// Default rescues a fallible unwrap when the carried value is
	// absent. Total mode requires one.
	Default string

	// Elem converts the carried value of wrapper ops.
	Elem *Step

	// Key converts map keys. Nil when keys assign directly.
	Key *Step

	// SrcWrap and DstWrap are the wrapper kinds on either side of a
	// map-elems step.
	SrcWrap shape.WrapperKind
	DstWrap shape.WrapperKind

	// SrcNull and DstNull carry nullable construction info when the op
	// reads or builds a null-family wrapper.
	SrcNull shape.NullFamily
	DstNull shape.NullFamily

	// Nested is the pair plan whose function performs the conversion.
	Nested *Plan
}

// Fallible reports whether the step can fail at runtime. Nested calls
// count as fallible in partial mode, where their functions return an
// error; the check deliberately does not descend into nested plans,
// which may reference themselves.
func (s *Step) Fallible() bool {
	switch {
	case s.Partial:
		return true
	case (s.Op == StepUnwrap || s.Op == StepUnwrapNull) && s.Default == "":
		return true
	case s.Op == StepNested:
		return s.Nested != nil && s.Nested.Mode == ModePartial
	}

	if s.Elem != nil && s.Elem.Fallible() {
		return true
	}

	return s.Key != nil && s.Key.Fallible()
}

// VariantCase is one dispatch arm of a sum conversion.
type VariantCase struct {
	Source  shape.Variant
	Outcome match.VariantOutcome

	// Dest is the paired destination variant of matched arms.
	Dest shape.Variant

	// Handler is the declared rescue function of handled arms.
	Handler *rules.DeclaredFunc

	// HandlerPartial marks a runtime-fallible handler.
	HandlerPartial bool

	// Nested converts the variant payload when the destination variant
	// carries members. Nil for singleton destinations and handlers.
	Nested *Plan
}

// CtorCall describes construction through a declared function.
type CtorCall struct {
	Func *rules.DeclaredFunc

	// Args holds one step per parameter, in parameter order. Each
	// step's Dest carries the parameter name.
	Args []Step

	// Partial marks a constructor returning (T, error).
	Partial bool
}

// Plan is the synthesized conversion for one type pair. The generator
// renders each plan as one function.
type Plan struct {
	// Name is the generated function name. The root pair takes the
	// transformer's declared name; nested pairs derive one from their
	// type names.
	Name string

	Source *shape.Shape
	Dest   *shape.Shape

	Mode     Mode
	Strategy CtorStrategy

	// Steps populate destination members, in declaration order.
	Steps []Step

	// Cases dispatch sum sources, in variant order.
	Cases []VariantCase

	// Ctor is the declared-function construction payload.
	Ctor *CtorCall

	// Value converts pairs whose destination is neither product nor
	// sum. Steps and Cases stay empty.
	Value *Step

	// Root marks the transformer's own pair.
	Root bool
}

// Fallible reports whether any step of the plan can fail at runtime.
func (p *Plan) Fallible() bool {
	if p.Value != nil && p.Value.Fallible() {
		return true
	}

	for i := range p.Steps {
		if p.Steps[i].Fallible() {
			return true
		}
	}

	for _, c := range p.Cases {
		if c.HandlerPartial {
			return true
		}

		if c.Nested != nil && c.Nested.Mode == ModePartial {
			return true
		}
	}

	if p.Ctor != nil {
		if p.Ctor.Partial {
			return true
		}

		for i := range p.Ctor.Args {
			if p.Ctor.Args[i].Fallible() {
				return true
			}
		}
	}

	return false
}

// Pair returns the plan's type pairing.
func (p *Plan) Pair() Pair {
	return Pair{Source: p.Source.GoType, Dest: p.Dest.GoType}
}
