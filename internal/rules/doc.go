// Package rules provides the override registry, the YAML rules schema,
// and the fluent builder that configure transformer derivation.
//
// Overrides are ordered: the most recently registered override for a
// path wins, and shadowed overrides are not an error. Registration
// order is the YAML entry order or the builder call order.
//
// # Override kinds
//
//   - const / constPartial — splice a Go expression into the member
//   - compute / computePartial — call a declared function on the source
//   - rename — read a differently named source member
//   - handler / handlerPartial — map one source sum variant
//   - constructor / constructorPartial — build the destination by call
//   - default — fallback expression for an unmatched member
//
// # Schema Overview
//
// A rules file has the following structure:
//
//	version: "1"
//	transformers:
//	  - source: example.com/mod/store.Order
//	    target: example.com/mod/api.Order
//	    mode: partial
//	    overrides:
//	      - target: Tag
//	        const: '"imported"'
//	      - target: ID
//	        rename: OrderID
//	      - variant: CardPayment
//	        handler: cardToAPI
//	    ignore:
//	      - Internal
//	functions:
//	  - name: cardToAPI
//	    package: example.com/mod/convert
//	    func: CardToAPI
//
// # Path Syntax
//
// Override targets support:
//   - Simple members: "Name"
//   - Nested members: "Address.Street"
//   - Element scope: "Items[]"
//   - Members inside elements: "Items[].ProductID"
//
// The "[]" marker scopes a path into a member's elements and applies to
// slice elements, map values, and optional payloads alike.
//
// # Declared functions
//
// Computed members, handlers, and constructors reference functions by
// declared name. The functions table binds names to package-level Go
// functions; references are validated against the loaded packages and
// unresolved declarations accumulate instead of aborting.
package rules
