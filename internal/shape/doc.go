// Package shape classifies Go types into the structural model the
// derivation engine works on.
//
// It uses golang.org/x/tools/go/packages with go/types to load
// packages and produce one Shape per type:
//   - Product: named members read from fields or accessor methods
//   - Sum: closed variant set (marker-method interfaces, const-backed enums)
//   - Wrapper: pointers, null.X/sql.NullX families, slices, maps
//   - Scalar: everything atomic (basics, time.Time, opaque named types)
package shape
