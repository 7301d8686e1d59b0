package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foo-mi/cross-platform-ci-pipeline/internal/config"
	"github.com/foo-mi/cross-platform-ci-pipeline/internal/output"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured stages without executing them",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	entries := listEntries(cfg)
	switch cfg.Format {
	case config.FormatPretty, config.FormatMarkdown:
		return output.NewPretty(cmd.OutOrStdout()).RenderList(entries)
	case config.FormatJSON:
		return output.NewJSON(cmd.OutOrStdout()).RenderList(entries)
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}
}
