// Package report builds the JSON run report written next to the linked table.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"country-linker/internal/batch"
	"country-linker/internal/diagnostic"
)

// Run statuses. StatusMalformedInput and a completed run with unresolved
// rows are different outcomes and never share a status.
const (
	StatusCompleted      = "completed"
	StatusMalformedInput = "malformed_input"
	StatusFailed         = "failed"
)

// RunReport is the stable report.json payload.
type RunReport struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Inputs  Inputs      `json:"inputs"`
	Policy  PolicyInfo  `json:"policy"`
	Summary batch.Stats `json:"summary"`

	Unresolved  []UnresolvedItem       `json:"unresolved"`
	Diagnostics diagnostic.Diagnostics `json:"diagnostics"`
}

// Inputs records the artifacts of the run.
type Inputs struct {
	Areas      string `json:"areas"`
	Countries  string `json:"countries"`
	Output     string `json:"output,omitempty"`
	Unresolved string `json:"unresolved,omitempty"`
}

// PolicyInfo summarizes the matching policy in effect.
type PolicyInfo struct {
	Threshold int               `json:"threshold"`
	Scorer    string            `json:"scorer"`
	Overrides map[string]string `json:"overrides"`
}

// UnresolvedItem is one distinct area value left without a code.
type UnresolvedItem struct {
	Area          string `json:"area"`
	NormalizedKey string `json:"normalized_key"`
	Reason        string `json:"reason"`
	Rows          []int  `json:"rows"`
	BestCandidate string `json:"best_candidate,omitempty"`
	BestScore     int    `json:"best_score"`
}

// New starts a report for a run beginning at startedAt.
func New(inputs Inputs, policy PolicyInfo, startedAt time.Time) *RunReport {
	return &RunReport{
		RunID:      uuid.NewString(),
		Status:     StatusCompleted,
		StartedAt:  startedAt,
		Inputs:     inputs,
		Policy:     policy,
		Unresolved: []UnresolvedItem{},
	}
}

// Record copies the outcome of a finished batch into the report.
func (r *RunReport) Record(out *batch.Output) {
	r.Summary = out.Stats
	r.Diagnostics = out.Diagnostics
	r.Unresolved = r.Unresolved[:0]

	for _, g := range out.Unresolved() {
		r.Unresolved = append(r.Unresolved, UnresolvedItem{
			Area:          g.Area,
			NormalizedKey: g.Decision.Key,
			Reason:        g.Decision.Reason.String(),
			Rows:          g.Rows,
			BestCandidate: g.Decision.Candidate,
			BestScore:     g.Decision.Score,
		})
	}
}

// Fail marks the run as aborted by err.
func (r *RunReport) Fail(err error) {
	r.Status = StatusFailed
	if errors.Is(err, batch.ErrMalformedInput) {
		r.Status = StatusMalformedInput
		r.Diagnostics.AddError(diagnostic.CodeMalformedInput, err.Error(), "", "")
	}

	r.Error = err.Error()
}

// Finalize stamps the finish time, converts times to UTC and sorts the
// unresolved items by area, blank areas last.
func (r *RunReport) Finalize(finishedAt time.Time) {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = finishedAt.UTC()

	sort.SliceStable(r.Unresolved, func(i, j int) bool {
		a, b := r.Unresolved[i].Area, r.Unresolved[j].Area
		if a == "" || b == "" {
			return a != "" && b == ""
		}

		return a < b
	})
}

// Marshal renders r as indented JSON with a trailing newline.
func Marshal(r *RunReport) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(b, '\n'), nil
}

// WriteFile writes r to path through a temporary file in the same directory.
func WriteFile(path string, r *RunReport) error {
	data, err := Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	return nil
}
