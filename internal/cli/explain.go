package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"country-linker/internal/batch"
	"country-linker/internal/config"
	"country-linker/internal/linker"
	"country-linker/internal/reference"
	"country-linker/internal/table"
)

func explainCmd(a *app) *cobra.Command {
	var (
		policy         policyFlags
		countries      string
		countriesSheet string
		top            int
		dump           bool
	)

	c := &cobra.Command{
		Use:   "explain NAME...",
		Short: "Show how each name would be matched",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			fs := cmd.Flags()
			if fs.Changed("countries") {
				cfg.Countries.Path = countries
			}

			if fs.Changed("countries-sheet") {
				cfg.Countries.Sheet = countriesSheet
			}

			policy.apply(fs, cfg)

			if err := cfg.Validate(); err != nil {
				return err
			}

			if strings.TrimSpace(cfg.Countries.Path) == "" {
				return usageError(fmt.Errorf("%w: missing countries.path", config.ErrInvalid))
			}

			m, err := a.matcher(cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			for _, name := range args {
				d := m.ExplainTop(name, top)
				if dump {
					spew.Fdump(w, d)
					continue
				}

				printDecision(w, name, d)
			}

			return nil
		},
	}

	fs := c.Flags()
	fs.StringVar(&countries, "countries", "", "country reference table (csv, tsv, xlsx, html)")
	fs.StringVar(&countriesSheet, "countries-sheet", "", "xlsx sheet or html table selector of the reference table")
	fs.IntVar(&top, "top", 3, "number of leading candidates to show")
	fs.BoolVar(&dump, "dump", false, "dump the raw decision structure")
	policy.register(fs)

	return c
}

// matcher builds the reference index and matcher described by cfg.
func (a *app) matcher(cfg *config.Config) (*linker.Matcher, error) {
	t, err := table.ReadFile(cfg.Countries.Path, table.ReadOptions{Sheet: cfg.Countries.Sheet})
	if err != nil {
		return nil, fmt.Errorf("failed to read countries table: %w", err)
	}

	records, err := batch.Records(t, batch.Columns{
		LongName:  cfg.Countries.LongNameColumn,
		ShortName: cfg.Countries.ShortNameColumn,
		ISO3:      cfg.Countries.ISO3Column,
	})
	if err != nil {
		return nil, err
	}

	ix := reference.Build(records, cfg.Normalizer())
	a.log.Debug("index.built", "records", len(records), "keys", ix.Len())

	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	return linker.NewMatcher(ix, policy)
}

func printDecision(w io.Writer, name string, d linker.Decision) {
	fmt.Fprintf(w, "%s\n", name)
	fmt.Fprintf(w, "  key:       %q\n", d.Key)
	fmt.Fprintf(w, "  result:    %s\n", d.Result)
	fmt.Fprintf(w, "  reason:    %s\n", d.Reason)

	if d.Candidate != "" {
		fmt.Fprintf(w, "  candidate: %q (score %d, %d tied)\n", d.Candidate, d.Score, d.Ties)
	}

	if len(d.Codes) > 0 {
		fmt.Fprintf(w, "  codes:     %s\n", strings.Join(d.Codes, ", "))
	}

	for _, c := range d.Top {
		fmt.Fprintf(w, "    %3d  %s\n", c.Score, c.Key)
	}
}
