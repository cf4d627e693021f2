// Package partial carries the failure set of generated partial
// transformers. A partial transformer returns its destination value
// together with an error that, when non-nil, is an Errors holding one
// entry per destination path that could not be populated.
package partial

import (
	"errors"
	"strings"
)

// ReasonEmpty marks a required value that was absent at runtime, such
// as a nil pointer or an invalid nullable column.
const ReasonEmpty = "empty value"

// Error is one failed assignment.
type Error struct {
	// Path locates the destination member, e.g. ".Items(3).Price".
	Path string `json:"path"`
	// Reason describes why the value could not be produced.
	Reason string `json:"reason"`
}

func (e Error) Error() string {
	if e.Path == "" {
		return e.Reason
	}

	return e.Path + ": " + e.Reason
}

// Errors is the accumulated failure set of one transformation call.
type Errors []Error

func (es Errors) Error() string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}

	return strings.Join(parts, "; ")
}

// Prefixed returns a copy with every path rebased under prefix, the
// way a nested transformer's failures surface on the member that
// called it.
func (es Errors) Prefixed(prefix string) Errors {
	if len(es) == 0 {
		return nil
	}

	out := make(Errors, len(es))
	for i, e := range es {
		out[i] = Error{Path: prefix + e.Path, Reason: e.Reason}
	}

	return out
}

// OrNil returns the set as an error, or nil when nothing failed.
// Generated code returns exactly this, avoiding a typed-nil error.
func (es Errors) OrNil() error {
	if len(es) == 0 {
		return nil
	}

	return es
}

// Append records one failure at path.
func Append(es Errors, path, reason string) Errors {
	return append(es, Error{Path: path, Reason: reason})
}

// AppendErr records err at path. When err is itself an Errors set from
// a nested transformer, every entry is rebased under path so child
// failures keep their member suffixes; any other error becomes a
// single entry with its message as the reason.
func AppendErr(es Errors, path string, err error) Errors {
	if err == nil {
		return es
	}

	var nested Errors
	if errors.As(err, &nested) {
		for _, e := range nested {
			es = append(es, Error{Path: path + e.Path, Reason: e.Reason})
		}

		return es
	}

	return append(es, Error{Path: path, Reason: err.Error()})
}
