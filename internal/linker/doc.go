// Package linker resolves raw area names to ISO3 codes against a
// reference.Index.
//
// A single match runs:
//
//	Start -> OverrideCheck -> Resolved
//	Start -> OverrideCheck -> Scoring -> ThresholdGate -> Unresolved
//	                                                  \-> Resolution -> Resolved | Unresolved
//
// Matching is synchronous and side-effect free; a Matcher may be shared by
// any number of goroutines.
package linker
