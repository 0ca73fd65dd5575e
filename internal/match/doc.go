// Package match provides edit-distance similarity scoring and candidate
// ranking for country-name keys.
//
// Key functions:
//   - Levenshtein / Indel: edit distances between strings
//   - Ratio, PartialRatio, TokenSortRatio, TokenSetRatio, WRatio: 0-100 similarity scores
//   - ScorerByName: resolves a configured scorer name
//   - Rank: scores a candidate pool and orders it deterministically
package match
