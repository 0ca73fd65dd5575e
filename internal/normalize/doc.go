// Package normalize turns free-text country names into matching keys.
//
// The pipeline, applied in order:
//  1. Lowercase.
//  2. Trim surrounding whitespace.
//  3. Drop every "(...)" span, parentheses included (first "(" to first following ")").
//  4. Drop every rune that is not a-z, 0-9 or a space.
//  5. Drop the standalone word "the".
//  6. Trim surrounding whitespace again.
//
// Keys are only ever compared with each other; they are never shown to users.
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
package normalize
