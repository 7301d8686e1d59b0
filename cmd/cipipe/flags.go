package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foo-mi/cross-platform-ci-pipeline/internal/config"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	if flags.Changed("format") {
		v, err := flags.GetString("format")
		if err != nil {
			return values, fmt.Errorf("parse --format: %w", err)
		}
		values.Format = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("summary") {
		v, err := flags.GetString("summary")
		if err != nil {
			return values, fmt.Errorf("parse --summary: %w", err)
		}
		values.Summary = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("artifact") {
		v, err := flags.GetString("artifact")
		if err != nil {
			return values, fmt.Errorf("parse --artifact: %w", err)
		}
		values.Artifact = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("require") {
		v, err := flags.GetStringArray("require")
		if err != nil {
			return values, fmt.Errorf("parse --require: %w", err)
		}
		values.Require = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("min-size") {
		v, err := flags.GetInt64("min-size")
		if err != nil {
			return values, fmt.Errorf("parse --min-size: %w", err)
		}
		values.MinSize = config.Int64Flag{Value: v, Set: true}
	}

	if flags.Changed("dry-run") {
		v, err := flags.GetBool("dry-run")
		if err != nil {
			return values, fmt.Errorf("parse --dry-run: %w", err)
		}
		values.DryRun = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("verbose") {
		v, err := flags.GetBool("verbose")
		if err != nil {
			return values, fmt.Errorf("parse --verbose: %w", err)
		}
		values.Verbose = config.BoolFlag{Value: v, Set: true}
	}

	return values, nil
}
