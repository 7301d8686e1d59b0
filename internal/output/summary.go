package output

import (
	"fmt"
	"os"
)

// SummaryEnvVar names the orchestrator-provided summary channel, matching
// the file GitHub Actions exposes for job summaries.
const SummaryEnvVar = "GITHUB_STEP_SUMMARY"

// AppendSummary appends the rendered report to the summary file as a
// markdown section. The channel is opaque to the core; this is the only
// write the reporting layer performs.
func AppendSummary(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open summary %q: %w", path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "## Pipeline Report\n\n%s\n", text); err != nil {
		return fmt.Errorf("write summary %q: %w", path, err)
	}
	return nil
}
