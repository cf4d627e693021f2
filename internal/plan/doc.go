// Package plan synthesizes transformation plans from matched shapes.
//
// The Deriver walks a source/destination type pair, matches members
// through the rules registry, and emits one Step per destination
// member. Nested pairs become their own plans, queued in first
// encounter order so the generator can emit one function per pair.
// Derivation never stops at the first problem: every failure lands in
// the session collector and the pair fails as a whole only after all
// siblings were tried.
package plan
