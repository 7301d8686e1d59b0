package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/foo-mi/cross-platform-ci-pipeline/internal/report"
)

// Options configure how the runner sequences stages.
type Options struct {
	// Now is the clock used to time stages; injectable for tests.
	Now func() time.Time
	// DryRun records every stage as skipped without executing it.
	DryRun bool
}

// Group is one logical stage and its matrix variants. Variants within a
// group always all run (collect-all semantics); a failure in a gating
// group skips the groups that follow it.
type Group struct {
	Name   string
	Gating bool
	Stages []Stage
}

// Runner executes stage groups sequentially, times each stage, and feeds
// the results into a PipelineReport. Faults never escape it.
type Runner struct {
	opts Options
}

// New creates a runner with the supplied options.
func New(opts Options) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{opts: opts}
}

// Run executes the groups in order, recording one StageResult per stage
// into rep. Once a gating group has a failed stage, the remaining groups
// are recorded as skipped without executing. The returned exit code is 0
// iff the report's overall status is passed.
func (r *Runner) Run(ctx context.Context, groups []Group, rep *report.PipelineReport) int {
	halted := false
	for _, group := range groups {
		groupFailed := false
		for _, stage := range group.Stages {
			if halted {
				rep.Record(report.StageResult{
					Name:    stage.Name(),
					Variant: stage.Variant(),
					Status:  report.StatusSkipped,
					Detail:  "skipped after earlier stage failure",
					Command: stage.Command(),
				})
				continue
			}
			if r.opts.DryRun {
				rep.Record(report.StageResult{
					Name:    stage.Name(),
					Variant: stage.Variant(),
					Status:  report.StatusSkipped,
					Command: stage.Command(),
					DryRun:  true,
				})
				continue
			}

			result := r.execute(ctx, stage)
			if result.Status == report.StatusFailed {
				groupFailed = true
			}
			rep.Record(result)
		}
		if groupFailed && group.Gating {
			halted = true
		}
	}

	if rep.OverallStatus() == report.StatusFailed {
		return 1
	}
	return 0
}

func (r *Runner) execute(ctx context.Context, stage Stage) report.StageResult {
	start := r.opts.Now()
	status, detail, err := runStage(ctx, stage)
	duration := r.opts.Now().Sub(start)
	if duration < 0 {
		duration = 0
	}

	if err != nil {
		status = report.StatusFailed
		detail = err.Error()
	}
	if status == report.StatusFailed && detail == "" {
		detail = "stage failed"
	}

	return report.StageResult{
		Name:       stage.Name(),
		Variant:    stage.Variant(),
		Status:     status,
		Duration:   duration,
		DurationMS: duration.Milliseconds(),
		Detail:     detail,
		Command:    stage.Command(),
	}
}

// runStage converts a panic into a fault so both are handled in one place.
func runStage(ctx context.Context, stage Stage) (status report.Status, detail string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("stage panicked: %v", p)
		}
	}()
	return stage.Execute(ctx)
}
