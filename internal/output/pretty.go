package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/foo-mi/cross-platform-ci-pipeline/internal/artifact"
	"github.com/foo-mi/cross-platform-ci-pipeline/internal/report"
)

// ListEntry describes one configured stage for list mode.
type ListEntry struct {
	Name     string   `json:"name"`
	Run      string   `json:"run,omitempty"`
	Variants []string `json:"variants,omitempty"`
	Gating   bool     `json:"gating"`
}

// PrettyRenderer renders execution results in a human-friendly format.
type PrettyRenderer struct {
	out io.Writer
}

// NewPretty creates a PrettyRenderer writing to the provided writer.
func NewPretty(out io.Writer) *PrettyRenderer {
	return &PrettyRenderer{out: out}
}

// RenderList shows the configured stages and their matrix variants.
func (p *PrettyRenderer) RenderList(entries []ListEntry) error {
	for _, entry := range entries {
		label := entry.Name
		if !entry.Gating {
			label += " (continue-on-error)"
		}
		if _, err := fmt.Fprintf(p.out, "Stage %s\n", label); err != nil {
			return err
		}
		for _, variant := range entry.Variants {
			if _, err := fmt.Fprintf(p.out, "  • %s\n", variant); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderResults shows one line per stage execution with a glyph, failure
// details beneath failing lines, and the report's closing verdict lines.
func (p *PrettyRenderer) RenderResults(rep *report.PipelineReport) error {
	for _, res := range rep.Records() {
		if _, err := fmt.Fprintf(p.out, "%s %s (%s)\n", statusGlyph(res.Status), res.Label(), report.FormatSeconds(res.Duration)); err != nil {
			return err
		}
		if res.Detail != "" {
			prefix := "detail"
			if res.Status == report.StatusSkipped {
				prefix = "note"
			}
			if _, err := fmt.Fprintf(p.out, "    %s: %s\n", prefix, indent(res.Detail, "    ")); err != nil {
				return err
			}
		}
		if res.DryRun && res.Command != "" {
			if _, err := fmt.Fprintf(p.out, "    command: %s\n", res.Command); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(p.out, "\nTotal duration: %s\nOverall: %s\n",
		report.FormatSeconds(rep.TotalDuration()), strings.ToUpper(string(rep.OverallStatus())))
	return err
}

// RenderChecks shows individual artifact validation checks with glyphs.
func (p *PrettyRenderer) RenderChecks(checks []artifact.Check) error {
	for _, c := range checks {
		glyph := "✓"
		if !c.Passed {
			glyph = "✗"
		}
		line := fmt.Sprintf("%s %s", glyph, c.Name)
		if c.Message != "" {
			line += ": " + c.Message
		}
		if _, err := fmt.Fprintln(p.out, line); err != nil {
			return err
		}
	}
	return nil
}

func statusGlyph(status report.Status) string {
	switch status {
	case report.StatusPassed:
		return "✓"
	case report.StatusFailed:
		return "✗"
	case report.StatusSkipped:
		return "-"
	default:
		return "?"
	}
}

func indent(s, pad string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}
