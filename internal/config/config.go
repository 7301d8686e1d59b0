package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/foo-mi/cross-platform-ci-pipeline/internal/artifact"
)

// Config captures the pipeline definition sourced from the config file or
// CLI flags.
type Config struct {
	Stages   []StageConfig  `yaml:"stages"`
	Artifact ArtifactConfig `yaml:"artifact"`

	Format      string `yaml:"format"`
	SummaryPath string `yaml:"summary_path"`
	DryRun      bool   `yaml:"dry_run"`
	Verbose     bool   `yaml:"verbose"`
}

// StageConfig defines one logical stage. Matrix lists variant labels; one
// execution per variant, all of which run regardless of earlier variant
// failures. ContinueOnError makes the stage non-gating.
type StageConfig struct {
	Name            string   `yaml:"name"`
	Run             string   `yaml:"run"`
	Shell           string   `yaml:"shell"`
	Matrix          []string `yaml:"matrix"`
	ContinueOnError bool     `yaml:"continue_on_error"`
}

// ArtifactConfig describes the packaged artifact the gate stage validates.
// An empty path disables the gate.
type ArtifactConfig struct {
	Path         string                `yaml:"path"`
	Expectations artifact.Expectations `yaml:",inline"`
}

const (
	// FormatPretty renders human readable output.
	FormatPretty = "pretty"
	// FormatMarkdown renders the raw report text.
	FormatMarkdown = "markdown"
	// FormatJSON renders machine readable output.
	FormatJSON = "json"

	// GateStageName is the reserved name of the artifact validation stage.
	GateStageName = "gate"
)

// ConfigFileName is the pipeline definition looked up at the root.
const ConfigFileName = ".cipipe.yml"

// ErrNoStages indicates the configuration defines no stages to run.
var ErrNoStages = errors.New("no stages configured")

// Default returns the baseline configuration used when no file or flags
// specify values.
func Default() Config {
	return Config{
		Format: FormatPretty,
	}
}

// Load reads .cipipe.yml from the root when present. A missing file is not
// an error; flags may still supply a complete configuration.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	cfg = merge(cfg, fileCfg)
	return cfg, nil
}

func merge(base, override Config) Config {
	out := base

	if len(override.Stages) > 0 {
		out.Stages = append([]StageConfig{}, override.Stages...)
	}
	if override.Artifact.Path != "" {
		out.Artifact.Path = override.Artifact.Path
	}
	if len(override.Artifact.Expectations.RequiredEntries) > 0 {
		out.Artifact.Expectations.RequiredEntries = append([]string{}, override.Artifact.Expectations.RequiredEntries...)
	}
	if override.Artifact.Expectations.MinSizeBytes != 0 {
		out.Artifact.Expectations.MinSizeBytes = override.Artifact.Expectations.MinSizeBytes
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.SummaryPath != "" {
		out.SummaryPath = override.SummaryPath
	}
	if override.DryRun {
		out.DryRun = true
	}
	if override.Verbose {
		out.Verbose = true
	}

	return out
}

// Validate fails fast on malformed configuration so errors surface before
// any stage executes.
func (c Config) Validate() error {
	if len(c.Stages) == 0 {
		return ErrNoStages
	}

	seen := make(map[string]struct{}, len(c.Stages))
	for i, stage := range c.Stages {
		name := strings.TrimSpace(stage.Name)
		if name == "" {
			return fmt.Errorf("stage %d has no name", i)
		}
		if name == GateStageName {
			return fmt.Errorf("stage name %q is reserved for artifact validation", GateStageName)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("duplicate stage name %q", name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(stage.Run) == "" {
			return fmt.Errorf("stage %q has no run command", name)
		}
		for _, variant := range stage.Matrix {
			if strings.TrimSpace(variant) == "" {
				return fmt.Errorf("stage %q has an empty matrix variant", name)
			}
		}
	}

	if err := c.Artifact.Expectations.Validate(); err != nil {
		return fmt.Errorf("artifact expectations: %w", err)
	}
	if c.Artifact.Path == "" && len(c.Artifact.Expectations.RequiredEntries) > 0 {
		return errors.New("artifact required_entries configured without artifact path")
	}

	switch c.Format {
	case FormatPretty, FormatMarkdown, FormatJSON:
	default:
		return fmt.Errorf("unsupported format %q", c.Format)
	}

	return nil
}

// ApplyFlags mutates cfg by applying values from CLI flags when they were
// set explicitly.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.Summary.Set {
		cfg.SummaryPath = flags.Summary.Value
	}
	if flags.Artifact.Set {
		cfg.Artifact.Path = flags.Artifact.Value
	}
	if len(flags.Require.Values) > 0 {
		cfg.Artifact.Expectations.RequiredEntries = append([]string{}, flags.Require.Values...)
	}
	if flags.MinSize.Set {
		cfg.Artifact.Expectations.MinSizeBytes = flags.MinSize.Value
	}
	if flags.DryRun.Set {
		cfg.DryRun = flags.DryRun.Value
	}
	if flags.Verbose.Set {
		cfg.Verbose = flags.Verbose.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag
// was set explicitly.
type FlagValues struct {
	Format   StringFlag
	Summary  StringFlag
	Artifact StringFlag
	Require  SliceFlag
	MinSize  Int64Flag
	DryRun   BoolFlag
	Verbose  BoolFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// SliceFlag represents a repeatable flag and the values it captured.
type SliceFlag struct {
	Values []string
}

// Int64Flag represents an integer flag and whether it was set.
type Int64Flag struct {
	Value int64
	Set   bool
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
