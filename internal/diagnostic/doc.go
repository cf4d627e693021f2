// Package diagnostic accumulates derivation failures and notes.
//
// Every failure carries the destination path it occurred at and a
// closed Reason code. Failures from nested derivations merge into the
// parent collector with the nesting prefix applied, so one derivation
// run surfaces every independent problem at once instead of stopping
// at the first.
package diagnostic
