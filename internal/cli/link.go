package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"country-linker/internal/batch"
	"country-linker/internal/config"
	"country-linker/internal/linker"
	"country-linker/internal/report"
	"country-linker/internal/table"
)

type linkOptions struct {
	policy policyFlags

	areas          string
	areasSheet     string
	areaColumn     string
	countries      string
	countriesSheet string
	out            string
	outputColumn   string
	unresolved     string
	reportPath     string
	workers        int

	failOnUnresolved bool
}

func linkCmd(a *app) *cobra.Command {
	var opts linkOptions

	c := &cobra.Command{
		Use:   "link",
		Short: "Attach ISO3 codes to every row of an areas table",
		Long: `Reads the areas table and the country reference table, matches every
distinct area name and writes the areas table with an ISO3 column.

Exit codes: 0 ok, 1 I/O failure, 2 usage or configuration error,
3 malformed input, 4 unresolved rows with --fail-on-unresolved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			opts.apply(cmd, cfg)

			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := cfg.RequireInputs(); err != nil {
				return err
			}

			if a.debug {
				a.log.Debug("config.effective", "config", spew.Sdump(cfg))
			}

			return a.link(cmd, cfg, opts.failOnUnresolved)
		},
	}

	fs := c.Flags()
	fs.StringVar(&opts.areas, "areas", "", "areas table (csv, tsv, xlsx, html)")
	fs.StringVar(&opts.areasSheet, "areas-sheet", "", "xlsx sheet or html table selector of the areas table")
	fs.StringVar(&opts.areaColumn, "area-column", config.DefaultAreaColumn, "column holding raw area names")
	fs.StringVar(&opts.countries, "countries", "", "country reference table (csv, tsv, xlsx, html)")
	fs.StringVar(&opts.countriesSheet, "countries-sheet", "", "xlsx sheet or html table selector of the reference table")
	fs.StringVarP(&opts.out, "out", "o", "", "output table (default <areas>"+config.DefaultOutputSuffix+")")
	fs.StringVar(&opts.outputColumn, "output-column", config.DefaultISO3Column, "column receiving the ISO3 codes")
	fs.StringVar(&opts.unresolved, "unresolved", "", "write unresolved area names to this table")
	fs.StringVar(&opts.reportPath, "report", "", "write a JSON run report to this path")
	fs.IntVar(&opts.workers, "workers", 0, "parallel matchers (0 = GOMAXPROCS)")
	fs.BoolVar(&opts.failOnUnresolved, "fail-on-unresolved", false, "exit with code 4 when any row stays unresolved")
	opts.policy.register(fs)

	return c
}

// apply copies explicitly set flags onto cfg.
func (o *linkOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()

	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}

	set("areas", &cfg.Areas.Path, o.areas)
	set("areas-sheet", &cfg.Areas.Sheet, o.areasSheet)
	set("area-column", &cfg.Areas.Column, o.areaColumn)
	set("countries", &cfg.Countries.Path, o.countries)
	set("countries-sheet", &cfg.Countries.Sheet, o.countriesSheet)
	set("out", &cfg.Output.Path, o.out)
	set("output-column", &cfg.Output.Column, o.outputColumn)
	set("unresolved", &cfg.Output.Unresolved, o.unresolved)
	set("report", &cfg.Output.Report, o.reportPath)

	if fs.Changed("workers") {
		cfg.Workers = o.workers
	}

	o.policy.apply(fs, cfg)
}

func (a *app) link(cmd *cobra.Command, cfg *config.Config, failOnUnresolved bool) error {
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	rep := report.New(report.Inputs{
		Areas:      cfg.Areas.Path,
		Countries:  cfg.Countries.Path,
		Output:     cfg.OutputPath(),
		Unresolved: cfg.Output.Unresolved,
	}, report.PolicyInfo{
		Threshold: cfg.Threshold,
		Scorer:    cfg.Scorer,
		Overrides: policy.Overrides,
	}, time.Now())

	out, err := a.runBatch(cmd, cfg, policy)
	if err != nil {
		rep.Fail(err)
		a.writeReport(cfg, rep)

		return err
	}

	if err := table.WriteFile(cfg.OutputPath(), out.Table, table.WriteOptions{}); err != nil {
		rep.Fail(err)
		a.writeReport(cfg, rep)

		return err
	}

	a.log.Info("output.written", "path", cfg.OutputPath(), "rows", out.Table.Len())

	if cfg.Output.Unresolved != "" {
		if err := table.WriteFile(cfg.Output.Unresolved, out.UnresolvedTable(), table.WriteOptions{Sheet: "unresolved"}); err != nil {
			rep.Fail(err)
			a.writeReport(cfg, rep)

			return err
		}
	}

	rep.Record(out)

	if err := a.writeReport(cfg, rep); err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), cfg, out)

	if failOnUnresolved && out.Stats.Unresolved > 0 {
		return &exitError{
			code: ExitUnresolved,
			err:  fmt.Errorf("%d of %d row(s) unresolved", out.Stats.Unresolved, out.Stats.Rows),
		}
	}

	return nil
}

func (a *app) runBatch(cmd *cobra.Command, cfg *config.Config, policy linker.Policy) (*batch.Output, error) {
	areas, err := table.ReadFile(cfg.Areas.Path, table.ReadOptions{Sheet: cfg.Areas.Sheet})
	if err != nil {
		return nil, fmt.Errorf("failed to read areas table: %w", err)
	}

	countries, err := table.ReadFile(cfg.Countries.Path, table.ReadOptions{Sheet: cfg.Countries.Sheet})
	if err != nil {
		return nil, fmt.Errorf("failed to read countries table: %w", err)
	}

	return batch.Run(cmd.Context(), batch.Input{
		Areas:     areas,
		Countries: countries,
		Columns: batch.Columns{
			Area:      cfg.Areas.Column,
			LongName:  cfg.Countries.LongNameColumn,
			ShortName: cfg.Countries.ShortNameColumn,
			ISO3:      cfg.Countries.ISO3Column,
			Output:    cfg.Output.Column,
		},
		Policy:    policy,
		Normalize: cfg.Normalizer(),
		Workers:   cfg.Workers,
		Logger:    a.log,
	})
}

// writeReport finalizes and writes the report when a path is configured.
func (a *app) writeReport(cfg *config.Config, rep *report.RunReport) error {
	if cfg.Output.Report == "" {
		return nil
	}

	rep.Finalize(time.Now())

	if err := report.WriteFile(cfg.Output.Report, rep); err != nil {
		a.log.Error("report.failed", "path", cfg.Output.Report, "error", err)
		return err
	}

	a.log.Info("report.written", "path", cfg.Output.Report, "run_id", rep.RunID)

	return nil
}

func printSummary(w io.Writer, cfg *config.Config, out *batch.Output) {
	s := out.Stats

	fmt.Fprintf(w, "Output:     %s\n", cfg.OutputPath())
	fmt.Fprintf(w, "Rows:       %d (%d distinct areas)\n", s.Rows, s.Distinct)
	fmt.Fprintf(w, "Resolved:   %d (%d by override, %d ambiguous)\n", s.Resolved, s.Overridden, s.Ambiguous)
	fmt.Fprintf(w, "Unresolved: %d (%d blank)\n", s.Unresolved, s.EmptyNames)

	if codes := out.Diagnostics.Codes(); len(codes) > 0 {
		notes := make([]string, len(codes))
		for i, code := range codes {
			notes[i] = fmt.Sprintf("%s=%d", code, out.Diagnostics.Count(code))
		}

		fmt.Fprintf(w, "Notes:      %s\n", strings.Join(notes, ", "))
	}

	unresolved := out.Unresolved()
	if len(unresolved) == 0 {
		return
	}

	fmt.Fprintln(w)

	for _, g := range unresolved {
		d := g.Decision
		if d.Candidate == "" {
			fmt.Fprintf(w, "- %q [%s] rows=%d\n", g.Area, d.Reason, len(g.Rows))
			continue
		}

		fmt.Fprintf(w, "- %q [%s] best=%q score=%d rows=%d\n", g.Area, d.Reason, d.Candidate, d.Score, len(g.Rows))
	}
}
