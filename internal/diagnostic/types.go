package diagnostic

import (
	"errors"
	"strings"

	"github.com/eugkhp/chimney/internal/common"
)

// Reason classifies why a derivation step could not be completed.
type Reason int

const (
	ReasonUnknown Reason = iota
	NoMatchingMember
	AmbiguousOverride
	UnmappedSumVariant
	TypeMismatch
	NoAccessibleConstructor
	RecursiveTypeUnsupported
)

// String returns the stable code for a reason.
func (r Reason) String() string {
	switch r {
	case NoMatchingMember:
		return "no_matching_member"
	case AmbiguousOverride:
		return "ambiguous_override"
	case UnmappedSumVariant:
		return "unmapped_sum_variant"
	case TypeMismatch:
		return "type_mismatch"
	case NoAccessibleConstructor:
		return "no_accessible_constructor"
	case RecursiveTypeUnsupported:
		return "recursive_type_unsupported"
	default:
		return common.UnknownStr
	}
}

// MarshalText makes reasons render as their code in JSON reports.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Failure is one (path, reason) pair produced during derivation.
type Failure struct {
	// Path locates the destination member the failure relates to.
	// Empty for failures about the pair as a whole.
	Path string `json:"path"`
	// Reason is the closed classification code.
	Reason Reason `json:"reason"`
	// Detail is the human-readable description.
	Detail string `json:"detail,omitempty"`
}

// String returns a formatted failure line.
func (f Failure) String() string {
	path := f.Path
	if path == "" {
		path = "<pair>"
	}

	msg := "[" + f.Reason.String() + "]"
	if f.Detail != "" {
		msg += " " + f.Detail
	}

	return path + ": " + msg
}

// Note is a non-fatal observation attached to a derivation, such as
// near-name suggestions for an unmatched member.
type Note struct {
	Path        string   `json:"path,omitempty"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Collector accumulates failures and notes across one derivation call,
// including everything bubbled up from nested derivations.
type Collector struct {
	Failures []Failure
	Notes    []Note
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Fail records a failure at the given path. Sibling processing is
// expected to continue after recording.
func (c *Collector) Fail(path Path, reason Reason, detail string) {
	c.Failures = append(c.Failures, Failure{
		Path:   path.String(),
		Reason: reason,
		Detail: detail,
	})
}

// AddNote records a non-fatal note at the given path.
func (c *Collector) AddNote(path Path, message string, suggestions ...string) {
	c.Notes = append(c.Notes, Note{
		Path:        path.String(),
		Message:     message,
		Suggestions: suggestions,
	})
}

// HasFailures returns true if any failure was recorded.
func (c *Collector) HasFailures() bool {
	return len(c.Failures) > 0
}

// IsValid returns true if no failure was recorded.
func (c *Collector) IsValid() bool {
	return len(c.Failures) == 0
}

// Merge rebases another collector's entries onto prefix and appends
// them. Child paths concatenate onto the prefix, so a child failure at
// ".Street" merged under ".Address" surfaces as ".Address.Street".
func (c *Collector) Merge(prefix Path, other *Collector) {
	if other == nil {
		return
	}

	pre := prefix.String()

	for _, f := range other.Failures {
		f.Path = pre + f.Path
		c.Failures = append(c.Failures, f)
	}

	for _, n := range other.Notes {
		n.Path = pre + n.Path
		c.Notes = append(c.Notes, n)
	}
}

// Err returns a combined error from all failures, or nil if valid.
func (c *Collector) Err() error {
	if c.IsValid() {
		return nil
	}

	parts := make([]string, 0, len(c.Failures))
	for _, f := range c.Failures {
		parts = append(parts, f.String())
	}

	return errors.New(strings.Join(parts, "; "))
}
