package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/foo-mi/cross-platform-ci-pipeline/internal/buildinfo"
	"github.com/foo-mi/cross-platform-ci-pipeline/internal/config"
	"github.com/foo-mi/cross-platform-ci-pipeline/internal/output"
	"github.com/foo-mi/cross-platform-ci-pipeline/internal/report"
	"github.com/foo-mi/cross-platform-ci-pipeline/internal/runner"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute the configured pipeline stages",
		RunE:  runExecute,
	}
}

func runExecute(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var stageOut, stageErr io.Writer
	if cfg.Verbose {
		stageOut = cmd.OutOrStdout()
		stageErr = cmd.ErrOrStderr()
	}
	groups := buildGroups(cfg, root, stageOut, stageErr)

	info := buildinfo.Detect(nil)
	rep := report.New(report.Meta{
		Branch:   info.Branch,
		Commit:   info.Commit,
		Platform: info.Platform,
		Variant:  info.Variant,
	})

	execRunner := runner.New(runner.Options{DryRun: cfg.DryRun})
	exitCode := execRunner.Run(cmd.Context(), groups, rep)

	switch cfg.Format {
	case config.FormatPretty:
		if err := output.NewPretty(cmd.OutOrStdout()).RenderResults(rep); err != nil {
			return err
		}
	case config.FormatMarkdown:
		if _, err := fmt.Fprint(cmd.OutOrStdout(), rep.Render()); err != nil {
			return err
		}
	case config.FormatJSON:
		if err := output.NewJSON(cmd.OutOrStdout()).Render(output.FromPipeline(rep)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}

	if path := summaryPath(cfg); path != "" {
		if err := output.AppendSummary(path, rep.Render()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", err)
		}
	}

	if exitCode != 0 {
		return fmt.Errorf("one or more stages failed")
	}
	return nil
}

func summaryPath(cfg config.Config) string {
	if cfg.SummaryPath != "" {
		return cfg.SummaryPath
	}
	return os.Getenv(output.SummaryEnvVar)
}
