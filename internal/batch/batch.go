package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"country-linker/internal/diagnostic"
	"country-linker/internal/linker"
	"country-linker/internal/logging"
	"country-linker/internal/normalize"
	"country-linker/internal/reference"
	"country-linker/internal/table"
)

// Input is everything one run needs.
type Input struct {
	Areas     *table.Table
	Countries *table.Table
	Columns   Columns
	Policy    linker.Policy
	// Normalize defaults to normalize.Normalize.
	Normalize normalize.Func
	// Workers bounds parallel matching; 0 means GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// Group is one distinct raw area value and every row that carries it.
type Group struct {
	Area string
	// Rows are 1-based data row numbers in the areas table.
	Rows     []int
	Decision linker.Decision
}

// Stats counts rows by outcome. Distinct counts area values.
type Stats struct {
	Rows       int `json:"rows"`
	Distinct   int `json:"distinct"`
	Resolved   int `json:"resolved"`
	Overridden int `json:"overridden"`
	Ambiguous  int `json:"ambiguous"`
	Unresolved int `json:"unresolved"`
	EmptyNames int `json:"empty_names"`
}

// Output is the result of Run.
type Output struct {
	// Table is the areas table with the output column attached.
	Table *table.Table
	// Results holds one result per areas row, in row order.
	Results []linker.Result
	// Groups lists distinct area values in first-seen order.
	Groups      []Group
	Index       *reference.Index
	Stats       Stats
	Diagnostics diagnostic.Diagnostics
}

// Unresolved returns the groups whose result is Unresolved, in first-seen order.
func (o *Output) Unresolved() []Group {
	var out []Group

	for _, g := range o.Groups {
		if !g.Decision.Result.IsResolved() {
			out = append(out, g)
		}
	}

	return out
}

// UnresolvedTable renders Unresolved for manual review.
func (o *Output) UnresolvedTable() *table.Table {
	rows := [][]string{}

	for _, g := range o.Unresolved() {
		score := ""
		if g.Decision.Candidate != "" {
			score = strconv.Itoa(g.Decision.Score)
		}

		rows = append(rows, []string{
			g.Area,
			g.Decision.Key,
			strconv.Itoa(len(g.Rows)),
			g.Decision.Reason.String(),
			g.Decision.Candidate,
			score,
		})
	}

	return table.New([]string{"Area", "NormalizedKey", "Rows", "Reason", "BestCandidate", "BestScore"}, rows)
}

// Run links every row of in.Areas against in.Countries.
//
// Structural problems return an *InputError wrapping ErrMalformedInput
// before any matching. Per-row outcomes never fail the run. A cancelled
// ctx stops matching and returns ctx.Err().
func Run(ctx context.Context, in Input) (*Output, error) {
	log := logging.OrDiscard(in.Logger)
	cols := in.Columns.withDefaults()

	areaCol, err := column(in.Areas, TableAreas, cols.Area)
	if err != nil {
		log.Error("input.malformed", "error", err)
		return nil, err
	}

	records, err := Records(in.Countries, cols)
	if err != nil {
		log.Error("input.malformed", "error", err)
		return nil, err
	}

	ix := reference.Build(records, in.Normalize)
	log.Info("index.built", "records", len(records), "keys", ix.Len(), "collisions", len(ix.Collisions()))

	for _, e := range ix.Collisions() {
		log.Warn("reference.ambiguous", "key", e.Key, "codes", e.Codes())
	}

	matcher, err := linker.NewMatcher(ix, in.Policy)
	if err != nil {
		return nil, fmt.Errorf("failed to create matcher: %w", err)
	}

	groups, rowGroup := groupRows(in.Areas.Values(areaCol))

	if err := decideAll(ctx, matcher, groups, in.Workers); err != nil {
		return nil, err
	}

	out := &Output{
		Results: make([]linker.Result, len(rowGroup)),
		Groups:  groups,
		Index:   ix,
	}

	codes := make([]string, len(rowGroup))
	for i, gi := range rowGroup {
		res := groups[gi].Decision.Result
		out.Results[i] = res
		codes[i], _ = res.ISO3()
	}

	out.Table, err = in.Areas.WithColumn(cols.Output, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to attach column %q: %w", cols.Output, err)
	}

	out.Diagnostics.Merge(ix.Diagnostics())
	summarize(out, log)

	log.Info("batch.done",
		"rows", out.Stats.Rows,
		"distinct", out.Stats.Distinct,
		"resolved", out.Stats.Resolved,
		"unresolved", out.Stats.Unresolved,
	)

	return out, nil
}

// groupRows buckets raw values by exact text. rowGroup[i] is the group of row i.
func groupRows(values []string) ([]Group, []int) {
	var groups []Group

	seen := make(map[string]int)
	rowGroup := make([]int, len(values))

	for i, v := range values {
		gi, ok := seen[v]
		if !ok {
			gi = len(groups)
			seen[v] = gi
			groups = append(groups, Group{Area: v})
		}

		groups[gi].Rows = append(groups[gi].Rows, i+1)
		rowGroup[i] = gi
	}

	return groups, rowGroup
}

// decideAll fills in the decision of every group. Each goroutine writes only
// its own slice element; the matcher is read-only.
func decideAll(ctx context.Context, m *linker.Matcher, groups []Group, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range groups {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			groups[i].Decision = m.Explain(groups[i].Area)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

func summarize(out *Output, log *slog.Logger) {
	s := Stats{Rows: len(out.Results), Distinct: len(out.Groups)}

	for _, g := range out.Groups {
		n := len(g.Rows)
		d := g.Decision
		loc := TableAreas + ":" + strconv.Itoa(g.Rows[0])

		switch d.Reason {
		case linker.ReasonOverride:
			s.Overridden += n
		case linker.ReasonAmbiguous:
			s.Ambiguous += n
			out.Diagnostics.Add(diagnostic.Diagnostic{
				Severity:    diagnostic.SeverityWarning,
				Code:        diagnostic.CodeAmbiguousReference,
				Message:     fmt.Sprintf("matched %q, which is shared by several countries; picked %s", d.Candidate, firstCode(d)),
				Subject:     g.Area,
				Location:    loc,
				Suggestions: d.Codes,
			})
		case linker.ReasonEmptyName:
			s.EmptyNames += n
			out.Diagnostics.AddWarning(diagnostic.CodeEmptyAreaName,
				fmt.Sprintf("%d row(s) with an area name that is blank after normalization", n),
				g.Area, loc)
			log.Warn("area.empty", "area", g.Area, "rows", n)
		}

		if d.Reason.Resolves() {
			s.Resolved += n
			log.Debug("row.resolved", "area", g.Area, "reason", d.Reason, "candidate", d.Candidate, "score", d.Score)

			continue
		}

		s.Unresolved += n

		if d.Reason == linker.ReasonEmptyName {
			continue
		}

		var suggestions []string
		if d.Candidate != "" {
			suggestions = []string{d.Candidate}
		}

		out.Diagnostics.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.SeverityInfo,
			Code:        diagnostic.CodeNoConfidentMatch,
			Message:     fmt.Sprintf("unresolved (%s), best score %d", d.Reason, d.Score),
			Subject:     g.Area,
			Location:    loc,
			Suggestions: suggestions,
		})
		log.Info("row.unresolved", "area", g.Area, "key", d.Key, "reason", d.Reason, "candidate", d.Candidate, "score", d.Score, "rows", n)
	}

	out.Stats = s
}

func firstCode(d linker.Decision) string {
	code, _ := d.Result.ISO3()
	return code
}
