package output

import (
	"encoding/json"
	"io"

	"github.com/foo-mi/cross-platform-ci-pipeline/internal/artifact"
	"github.com/foo-mi/cross-platform-ci-pipeline/internal/report"
)

// JSONRenderer emits structured execution data.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// Report captures the JSON output schema for a pipeline run.
type Report struct {
	Meta            report.Meta          `json:"meta"`
	Stages          []report.StageResult `json:"stages,omitempty"`
	Aggregates      []report.Aggregate   `json:"aggregates,omitempty"`
	TotalDurationMS int64                `json:"total_duration_ms"`
	Overall         report.Status        `json:"overall"`
}

// FromPipeline flattens a pipeline report into the JSON schema.
func FromPipeline(rep *report.PipelineReport) Report {
	return Report{
		Meta:            rep.Meta(),
		Stages:          rep.Records(),
		Aggregates:      rep.AggregateByName(),
		TotalDurationMS: rep.TotalDuration().Milliseconds(),
		Overall:         rep.OverallStatus(),
	}
}

// Render encodes the report as indented JSON.
func (j *JSONRenderer) Render(rep Report) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// RenderVerdict encodes an artifact validation verdict as indented JSON.
func (j *JSONRenderer) RenderVerdict(verdict artifact.Verdict) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(verdict)
}

// RenderList encodes the configured stages as indented JSON.
func (j *JSONRenderer) RenderList(entries []ListEntry) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Stages []ListEntry `json:"stages"`
	}{Stages: entries})
}
