package match

import (
	"github.com/eugkhp/chimney/internal/common"
	"github.com/eugkhp/chimney/internal/rules"
	"github.com/eugkhp/chimney/internal/shape"
)

// Outcome classifies how one destination member is produced. Exactly
// one outcome applies per member; name equality is exact, so matching
// is never ambiguous.
type Outcome int

const (
	// OutcomeUnmatched means no override, no same-named source member,
	// and no usable rename. The synthesizer falls back to the member's
	// default or fails.
	OutcomeUnmatched Outcome = iota
	// OutcomeMatched pairs the member with the same-named source member.
	OutcomeMatched
	// OutcomeOverridden fills the member from a value override.
	OutcomeOverridden
	// OutcomeRenamed reads a differently named source member.
	OutcomeRenamed
)

// String returns a human-readable representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeUnmatched:
		return "unmatched"
	case OutcomeMatched:
		return "matched"
	case OutcomeOverridden:
		return "overridden"
	case OutcomeRenamed:
		return "renamed"
	default:
		return common.UnknownStr
	}
}

// MemberMatch is the matching decision for one destination member.
type MemberMatch struct {
	Dest    shape.Field
	Outcome Outcome

	// Source is the paired source member for Matched and Renamed.
	Source shape.Field

	// Override is the winning override for Overridden and Renamed.
	Override rules.Override

	// MissingRenameFrom records a rename whose source member does not
	// exist; the member stays Unmatched and the name feeds the failure
	// detail.
	MissingRenameFrom string

	// Suggestions lists near source member names for Unmatched members.
	// Diagnostics only.
	Suggestions []string
}

// Result holds the per-member decisions for one product pair, in
// destination declaration order.
type Result struct {
	Members []MemberMatch
}

// Unmatched returns the members with no production decision.
func (r *Result) Unmatched() []MemberMatch {
	var out []MemberMatch

	for _, m := range r.Members {
		if m.Outcome == OutcomeUnmatched {
			out = append(out, m)
		}
	}

	return out
}

// Match pairs every writable destination member with its production
// source. scope locates the pair inside the transformer's destination,
// so overrides registered for nested paths apply during nested
// derivations. Root-level ignored members are skipped entirely: no
// step, no failure.
func Match(src, dst *shape.Shape, reg *rules.Registry, scope rules.Path) *Result {
	res := &Result{}

	sourceNames := readableNames(src)

	for _, d := range dst.DestMembers() {
		if scope.IsRoot() && reg.Ignored(d.Name) {
			continue
		}

		path := scope.Child(d.Name)
		m := MemberMatch{Dest: d}

		if o, ok := reg.ValueFor(path); ok {
			m.Outcome = OutcomeOverridden
			m.Override = o
			res.Members = append(res.Members, m)

			continue
		}

		if s, ok := src.SourceMember(d.Name); ok {
			m.Outcome = OutcomeMatched
			m.Source = s
			res.Members = append(res.Members, m)

			continue
		}

		if o, ok := reg.RenameFor(path); ok {
			if s, found := src.SourceMember(o.From); found {
				m.Outcome = OutcomeRenamed
				m.Source = s
				m.Override = o
				res.Members = append(res.Members, m)

				continue
			}

			m.MissingRenameFrom = o.From
		}

		m.Outcome = OutcomeUnmatched
		m.Suggestions = SuggestNames(d.Name, sourceNames, maxSuggestions)
		res.Members = append(res.Members, m)
	}

	return res
}

func readableNames(src *shape.Shape) []string {
	members := src.SourceMembers()
	out := make([]string, 0, len(members))

	for _, f := range members {
		out = append(out, f.Name)
	}

	return out
}

// VariantOutcome classifies how one source sum variant maps.
type VariantOutcome int

const (
	// VariantUnmatched means no same-named destination variant and no
	// handler; the pair is not total over source variants.
	VariantUnmatched VariantOutcome = iota
	// VariantMatched pairs the variant with its same-named destination
	// variant.
	VariantMatched
	// VariantHandled dispatches the variant through a handler override.
	VariantHandled
)

// String returns a human-readable representation of the VariantOutcome.
func (o VariantOutcome) String() string {
	switch o {
	case VariantUnmatched:
		return "unmatched"
	case VariantMatched:
		return "matched"
	case VariantHandled:
		return "handled"
	default:
		return common.UnknownStr
	}
}

// VariantMatch is the decision for one source variant.
type VariantMatch struct {
	Source  shape.Variant
	Outcome VariantOutcome

	// Dest is the paired destination variant for Matched.
	Dest shape.Variant

	// Override is the winning handler for Handled.
	Override rules.Override
}

// VariantResult holds both totality directions for a sum pair.
type VariantResult struct {
	// Sources has one entry per source variant, in variant order. A sum
	// value arrives as any variant, so totality over sources is
	// mandatory.
	Sources []VariantMatch

	// MissingDest lists destination variants with no same-named source
	// counterpart. Handlers rescue source variants only; there is no
	// override escape on the destination side.
	MissingDest []shape.Variant
}

// Total reports whether both directions are covered.
func (r *VariantResult) Total() bool {
	if len(r.MissingDest) > 0 {
		return false
	}

	for _, v := range r.Sources {
		if v.Outcome == VariantUnmatched {
			return false
		}
	}

	return true
}

// MatchVariants pairs the variants of a sum-to-sum transformation. A
// handler override wins over the name match for its variant, replacing
// the derived mapping.
func MatchVariants(src, dst *shape.Shape, reg *rules.Registry) *VariantResult {
	res := &VariantResult{}

	for _, sv := range src.Variants {
		m := VariantMatch{Source: sv}

		if o, ok := reg.HandlerFor(sv.Name); ok {
			m.Outcome = VariantHandled
			m.Override = o
		} else if dv, ok := dst.VariantNamed(sv.Name); ok {
			m.Outcome = VariantMatched
			m.Dest = dv
		}

		res.Sources = append(res.Sources, m)
	}

	for _, dv := range dst.Variants {
		if _, ok := src.VariantNamed(dv.Name); !ok {
			res.MissingDest = append(res.MissingDest, dv)
		}
	}

	return res
}
