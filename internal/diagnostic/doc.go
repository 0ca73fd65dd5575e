// Package diagnostic provides structured infos, warnings and errors
// collected while building the reference index and linking a batch.
//
// Key capabilities:
//   - Ambiguous reference collisions (same key, different ISO3 codes)
//   - Empty area names and rows without a confident match
//   - Reference rows with missing or malformed ISO3 codes
package diagnostic
