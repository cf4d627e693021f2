// Package match decides how each destination member is produced from
// the source shape and the override registry.
//
// Matching is by exact case-sensitive name equality only. Per
// destination member, in priority order:
//  1. value override targeting the member's path (latest registered wins)
//  2. source member with the identical name
//  3. rename override whose source member exists
//  4. unmatched
//
// Sum pairs match per variant and are checked for totality in both
// directions: every source variant needs a same-named destination
// variant or a handler override, and every destination variant needs a
// same-named source variant.
//
// Levenshtein similarity over source member names produces near-name
// suggestions for unmatched members. Suggestions feed diagnostics only;
// they never participate in matching.
package match
