package diagnostic

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Report aggregates derivation outcomes across all requested pairs for
// rendering by the CLI.
type Report struct {
	Pairs []PairReport `json:"pairs"`
}

// PairReport holds the outcome for a single source/target pair.
type PairReport struct {
	Source   string    `json:"source"`
	Target   string    `json:"target"`
	Mode     string    `json:"mode"`
	Derived  int       `json:"derived"`
	Failures []Failure `json:"failures,omitempty"`
	Notes    []Note    `json:"notes,omitempty"`
}

// AddPair appends the outcome of one pair derivation.
func (r *Report) AddPair(source, target, mode string, derived int, c *Collector) {
	pr := PairReport{
		Source:  source,
		Target:  target,
		Mode:    mode,
		Derived: derived,
	}

	if c != nil {
		pr.Failures = c.Failures
		pr.Notes = c.Notes
	}

	r.Pairs = append(r.Pairs, pr)
}

// HasFailures returns true if any pair failed to derive.
func (r *Report) HasFailures() bool {
	for _, p := range r.Pairs {
		if len(p.Failures) > 0 {
			return true
		}
	}

	return false
}

// Text renders the report as human-readable text. Every failure is
// listed, not just the first, so one run shows everything to fix.
func (r *Report) Text() string {
	var sb strings.Builder

	for _, p := range r.Pairs {
		fmt.Fprintf(&sb, "\n=== %s -> %s (%s) ===\n", p.Source, p.Target, p.Mode)

		if len(p.Failures) == 0 {
			fmt.Fprintf(&sb, "ok: %d function(s) planned\n", p.Derived)
		} else {
			fmt.Fprintf(&sb, "failed: %d problem(s)\n", len(p.Failures))

			for _, f := range p.Failures {
				fmt.Fprintf(&sb, "  ✗ %s\n", f.String())
			}
		}

		for _, n := range p.Notes {
			if n.Path != "" {
				fmt.Fprintf(&sb, "  • %s: %s\n", n.Path, n.Message)
			} else {
				fmt.Fprintf(&sb, "  • %s\n", n.Message)
			}

			for i, s := range n.Suggestions {
				fmt.Fprintf(&sb, "      %d. %s\n", i+1, s)
			}
		}
	}

	return sb.String()
}

// JSON renders the report for machine consumption.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
