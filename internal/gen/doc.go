// Package gen renders derived transformation plans into Go source.
//
// Generation uses text/template for the file skeleton and go/format
// for the final pass, emitting one function per derived pair.
//
// Rendered forms:
//   - Composite-literal and setter-driven struct population
//   - Explicit scalar conversions
//   - Pointer and nullable lift/unwrap with presence checks
//   - Slice and map remapping (make, loop, per-element conversion)
//   - Variant dispatch over interface and constant-backed sums
//   - Declared constructor, compute, and handler calls
//   - Partial-mode failure accumulation through the partial runtime
package gen
