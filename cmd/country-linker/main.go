// Package main provides the CLI entrypoint for country-linker.
//
// country-linker attaches ISO 3166-1 alpha-3 codes to the free-text country
// names of an ILO labor-statistics export:
//   - Normalizes names into matching keys
//   - Fuzzy-matches each key against a country reference table
//   - Applies hand-authored overrides before scoring
//   - Writes the augmented table, the unresolved names and a JSON report
package main

import "country-linker/internal/cli"

func main() {
	cli.Execute()
}
