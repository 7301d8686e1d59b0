package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/foo-mi/cross-platform-ci-pipeline/internal/config"
	"github.com/foo-mi/cross-platform-ci-pipeline/internal/output"
	"github.com/foo-mi/cross-platform-ci-pipeline/internal/runner"
)

func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	root, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, "", err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, "", err
	}
	config.ApplyFlags(&cfg, flags)

	return cfg, root, nil
}

// buildGroups turns the configuration into executable stage groups: one
// group per configured stage (one stage per matrix variant), plus the
// artifact gate group when an artifact path is configured.
func buildGroups(cfg config.Config, root string, stageOut, stageErr io.Writer) []runner.Group {
	groups := make([]runner.Group, 0, len(cfg.Stages)+1)

	for _, sc := range cfg.Stages {
		group := runner.Group{Name: sc.Name, Gating: !sc.ContinueOnError}
		variants := sc.Matrix
		if len(variants) == 0 {
			variants = []string{""}
		}
		for _, variant := range variants {
			group.Stages = append(group.Stages, &runner.CommandStage{
				StageName:     sc.Name,
				MatrixVariant: variant,
				Script:        sc.Run,
				Shell:         sc.Shell,
				Dir:           root,
				Stdout:        stageOut,
				Stderr:        stageErr,
			})
		}
		groups = append(groups, group)
	}

	if cfg.Artifact.Path != "" {
		groups = append(groups, runner.Group{
			Name:   config.GateStageName,
			Gating: true,
			Stages: []runner.Stage{&runner.GateStage{
				StageName:    config.GateStageName,
				Path:         resolvePath(root, cfg.Artifact.Path),
				Expectations: cfg.Artifact.Expectations,
			}},
		})
	}

	return groups
}

func listEntries(cfg config.Config) []output.ListEntry {
	entries := make([]output.ListEntry, 0, len(cfg.Stages)+1)
	for _, sc := range cfg.Stages {
		entries = append(entries, output.ListEntry{
			Name:     sc.Name,
			Run:      sc.Run,
			Variants: sc.Matrix,
			Gating:   !sc.ContinueOnError,
		})
	}
	if cfg.Artifact.Path != "" {
		entries = append(entries, output.ListEntry{
			Name:   config.GateStageName,
			Run:    "validate " + cfg.Artifact.Path,
			Gating: true,
		})
	}
	return entries
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
