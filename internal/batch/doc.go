// Package batch runs one linkage pass over an areas table.
//
// # Pipeline
//
//  1. Resolve the required columns of both tables; any missing column aborts
//     with ErrMalformedInput before a single name is matched.
//  2. Build the reference index from the countries table.
//  3. Match every distinct area value once, in parallel over the read-only
//     index.
//  4. Fan the results back out to rows in input order and attach the output
//     column. Every input row yields exactly one output row.
package batch
