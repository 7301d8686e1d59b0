package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status classifies the outcome of a single stage execution.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StageResult captures the outcome of one stage execution. It is created
// once by the runner and never mutated afterwards.
type StageResult struct {
	Name       string        `json:"name"`
	Variant    string        `json:"variant,omitempty"`
	Status     Status        `json:"status"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	Detail     string        `json:"detail,omitempty"`
	Command    string        `json:"command,omitempty"`
	DryRun     bool          `json:"dry_run,omitempty"`
}

// Label returns the stage name decorated with its matrix variant when present.
func (r StageResult) Label() string {
	if r.Variant == "" {
		return r.Name
	}
	return fmt.Sprintf("%s (%s)", r.Name, r.Variant)
}

// Meta describes the environment a pipeline run executed in. Branch and
// commit come from the orchestrator, platform from the runtime.
type Meta struct {
	RunID    string `json:"run_id"`
	Branch   string `json:"branch,omitempty"`
	Commit   string `json:"commit,omitempty"`
	Platform string `json:"platform,omitempty"`
	Variant  string `json:"variant,omitempty"`
}

// Aggregate groups every matrix variant of one logical stage.
type Aggregate struct {
	Name       string        `json:"name"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
}

// Total returns the number of records aggregated under this stage name.
func (a Aggregate) Total() int {
	return a.Passed + a.Failed + a.Skipped
}

// PipelineReport accumulates stage results in execution order and renders
// the final summary. It never rejects a record and never fails; faults are
// converted to data before they reach the report.
type PipelineReport struct {
	meta    Meta
	records []StageResult
}

// New creates an empty report for one pipeline run. A missing run ID is
// assigned automatically.
func New(meta Meta) *PipelineReport {
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	return &PipelineReport{meta: meta}
}

// Meta returns the run metadata the report was created with.
func (p *PipelineReport) Meta() Meta {
	return p.meta
}

// Record appends a stage result. Insertion order is execution order.
func (p *PipelineReport) Record(result StageResult) {
	p.records = append(p.records, result)
}

// Records returns a copy of the recorded results in execution order.
func (p *PipelineReport) Records() []StageResult {
	out := make([]StageResult, len(p.records))
	copy(out, p.records)
	return out
}

// Len reports how many stage results have been recorded.
func (p *PipelineReport) Len() int {
	return len(p.records)
}

// OverallStatus is failed iff any recorded result failed. An empty report
// passes vacuously.
func (p *PipelineReport) OverallStatus() Status {
	for _, r := range p.records {
		if r.Status == StatusFailed {
			return StatusFailed
		}
	}
	return StatusPassed
}

// TotalDuration sums the duration of every recorded result.
func (p *PipelineReport) TotalDuration() time.Duration {
	var total time.Duration
	for _, r := range p.records {
		total += r.Duration
	}
	return total
}

// AggregateByName groups matrix variants of the same logical stage,
// preserving first-seen order for rendering.
func (p *PipelineReport) AggregateByName() []Aggregate {
	index := make(map[string]int, len(p.records))
	aggs := make([]Aggregate, 0, len(p.records))
	for _, r := range p.records {
		i, ok := index[r.Name]
		if !ok {
			i = len(aggs)
			index[r.Name] = i
			aggs = append(aggs, Aggregate{Name: r.Name})
		}
		switch r.Status {
		case StatusPassed:
			aggs[i].Passed++
		case StatusFailed:
			aggs[i].Failed++
		case StatusSkipped:
			aggs[i].Skipped++
		}
		aggs[i].Duration += r.Duration
		aggs[i].DurationMS = aggs[i].Duration.Milliseconds()
	}
	return aggs
}

// Render produces the final report text: a header, a markdown table with
// one row per stage name, detail lines for failures, and the total
// duration and overall verdict as the last two lines. Render performs no
// I/O and is idempotent; writing the text somewhere is the caller's job.
func (p *PipelineReport) Render() string {
	var b strings.Builder

	b.WriteString(p.headerLine())
	b.WriteString("\n\n")

	b.WriteString("| Stage | Passed | Duration |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, agg := range p.AggregateByName() {
		fmt.Fprintf(&b, "| %s | %d/%d | %s |\n", agg.Name, agg.Passed, agg.Total(), FormatSeconds(agg.Duration))
	}

	var failures []StageResult
	for _, r := range p.records {
		if r.Status == StatusFailed {
			failures = append(failures, r)
		}
	}
	if len(failures) > 0 {
		b.WriteString("\n")
		for _, r := range failures {
			fmt.Fprintf(&b, "- %s: %s\n", r.Label(), r.Detail)
		}
	}

	fmt.Fprintf(&b, "\nTotal duration: %s\n", FormatSeconds(p.TotalDuration()))
	fmt.Fprintf(&b, "Overall: %s\n", strings.ToUpper(string(p.OverallStatus())))

	return b.String()
}

func (p *PipelineReport) headerLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pipeline run %s", p.meta.RunID)
	switch {
	case p.meta.Branch != "" && p.meta.Commit != "":
		fmt.Fprintf(&b, " on %s@%s", p.meta.Branch, shortCommit(p.meta.Commit))
	case p.meta.Branch != "":
		fmt.Fprintf(&b, " on %s", p.meta.Branch)
	case p.meta.Commit != "":
		fmt.Fprintf(&b, " on %s", shortCommit(p.meta.Commit))
	}
	if p.meta.Platform != "" {
		fmt.Fprintf(&b, " (%s)", p.meta.Platform)
	}
	if p.meta.Variant != "" {
		fmt.Fprintf(&b, " variant %s", p.meta.Variant)
	}
	return b.String()
}

func shortCommit(commit string) string {
	if len(commit) > 10 {
		return commit[:10]
	}
	return commit
}

// FormatSeconds renders a duration in seconds with the fixed two-decimal
// precision used throughout report output.
func FormatSeconds(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
