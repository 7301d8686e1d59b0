package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foo-mi/cross-platform-ci-pipeline/internal/artifact"
	"github.com/foo-mi/cross-platform-ci-pipeline/internal/config"
	"github.com/foo-mi/cross-platform-ci-pipeline/internal/output"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [artifact]",
		Short: "Validate a packaged artifact without running the pipeline",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := cfg.Artifact.Path
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no artifact path; pass one or configure artifact.path")
	}

	verdict, err := artifact.Validate(resolvePath(root, path), cfg.Artifact.Expectations)
	if err != nil {
		return err
	}

	switch cfg.Format {
	case config.FormatJSON:
		enc := output.NewJSON(cmd.OutOrStdout())
		if err := enc.RenderVerdict(verdict); err != nil {
			return err
		}
	default:
		renderer := output.NewPretty(cmd.OutOrStdout())
		if err := renderer.RenderChecks(verdict.Checks); err != nil {
			return err
		}
		label := "VALID"
		if !verdict.Valid {
			label = "INVALID"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Artifact: %s\n", label); err != nil {
			return err
		}
	}

	if !verdict.Valid {
		return fmt.Errorf("artifact %q is invalid", path)
	}
	return nil
}
