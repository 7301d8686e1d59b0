package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Format != FormatPretty {
		t.Fatalf("expected default format pretty, got %q", cfg.Format)
	}
	if len(cfg.Stages) != 0 {
		t.Fatalf("expected no stages, got %+v", cfg.Stages)
	}
}

func TestLoadParsesPipelineDefinition(t *testing.T) {
	root := t.TempDir()
	definition := `stages:
  - name: lint
    run: make lint
    continue_on_error: true
  - name: test
    run: make test
    matrix: ["py3.10", "py3.11"]
  - name: build
    run: make dist
artifact:
  path: dist/app.zip
  required_entries:
    - bin/app
    - metrics.json
  min_size_bytes: 1024
format: json
summary_path: out/summary.md
`
	if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte(definition), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if len(cfg.Stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(cfg.Stages))
	}
	if !cfg.Stages[0].ContinueOnError {
		t.Fatalf("expected lint to continue on error")
	}
	if got := cfg.Stages[1].Matrix; len(got) != 2 || got[0] != "py3.10" {
		t.Fatalf("unexpected matrix: %v", got)
	}
	if cfg.Artifact.Path != "dist/app.zip" {
		t.Fatalf("unexpected artifact path %q", cfg.Artifact.Path)
	}
	if len(cfg.Artifact.Expectations.RequiredEntries) != 2 {
		t.Fatalf("unexpected required entries: %v", cfg.Artifact.Expectations.RequiredEntries)
	}
	if cfg.Artifact.Expectations.MinSizeBytes != 1024 {
		t.Fatalf("unexpected min size %d", cfg.Artifact.Expectations.MinSizeBytes)
	}
	if cfg.Format != FormatJSON || cfg.SummaryPath != "out/summary.md" {
		t.Fatalf("unexpected output config: %+v", cfg)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte("stages: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(root); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Format: FormatPretty,
		Stages: []StageConfig{{Name: "lint", Run: "make lint"}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty stage list",
			mutate:  func(c *Config) { c.Stages = nil },
			wantErr: ErrNoStages.Error(),
		},
		{
			name:    "unnamed stage",
			mutate:  func(c *Config) { c.Stages[0].Name = " " },
			wantErr: "has no name",
		},
		{
			name:    "reserved gate name",
			mutate:  func(c *Config) { c.Stages[0].Name = GateStageName },
			wantErr: "reserved",
		},
		{
			name: "duplicate stage name",
			mutate: func(c *Config) {
				c.Stages = append(c.Stages, StageConfig{Name: "lint", Run: "make lint"})
			},
			wantErr: "duplicate stage name",
		},
		{
			name:    "missing run command",
			mutate:  func(c *Config) { c.Stages[0].Run = "" },
			wantErr: "no run command",
		},
		{
			name:    "empty matrix variant",
			mutate:  func(c *Config) { c.Stages[0].Matrix = []string{"py3.10", ""} },
			wantErr: "empty matrix variant",
		},
		{
			name: "negative min size",
			mutate: func(c *Config) {
				c.Artifact.Path = "dist/app.zip"
				c.Artifact.Expectations.MinSizeBytes = -5
			},
			wantErr: "non-negative",
		},
		{
			name: "required entries without artifact path",
			mutate: func(c *Config) {
				c.Artifact.Expectations.RequiredEntries = []string{"bin/app"}
			},
			wantErr: "without artifact path",
		},
		{
			name:    "unsupported format",
			mutate:  func(c *Config) { c.Format = "xml" },
			wantErr: "unsupported format",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{
				Format: FormatPretty,
				Stages: []StageConfig{{Name: "lint", Run: "make lint"}},
			}
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateEmptyStagesIsSentinel(t *testing.T) {
	err := Config{Format: FormatPretty}.Validate()
	if !errors.Is(err, ErrNoStages) {
		t.Fatalf("expected ErrNoStages, got %v", err)
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := Default()
	cfg.Stages = []StageConfig{{Name: "lint", Run: "make lint"}}

	ApplyFlags(&cfg, FlagValues{
		Format:   StringFlag{Value: FormatJSON, Set: true},
		Summary:  StringFlag{Value: "summary.md", Set: true},
		Artifact: StringFlag{Value: "dist/app.zip", Set: true},
		Require:  SliceFlag{Values: []string{"bin/app"}},
		MinSize:  Int64Flag{Value: 2048, Set: true},
		DryRun:   BoolFlag{Value: true, Set: true},
		Verbose:  BoolFlag{Value: true, Set: true},
	})

	if cfg.Format != FormatJSON {
		t.Fatalf("format flag not applied: %q", cfg.Format)
	}
	if cfg.SummaryPath != "summary.md" {
		t.Fatalf("summary flag not applied: %q", cfg.SummaryPath)
	}
	if cfg.Artifact.Path != "dist/app.zip" {
		t.Fatalf("artifact flag not applied: %q", cfg.Artifact.Path)
	}
	if len(cfg.Artifact.Expectations.RequiredEntries) != 1 {
		t.Fatalf("require flag not applied: %v", cfg.Artifact.Expectations.RequiredEntries)
	}
	if cfg.Artifact.Expectations.MinSizeBytes != 2048 {
		t.Fatalf("min-size flag not applied: %d", cfg.Artifact.Expectations.MinSizeBytes)
	}
	if !cfg.DryRun || !cfg.Verbose {
		t.Fatalf("bool flags not applied: %+v", cfg)
	}
}

func TestApplyFlagsLeavesUnsetValues(t *testing.T) {
	cfg := Default()
	cfg.Format = FormatMarkdown
	cfg.SummaryPath = "from-file.md"

	ApplyFlags(&cfg, FlagValues{})

	if cfg.Format != FormatMarkdown || cfg.SummaryPath != "from-file.md" {
		t.Fatalf("unset flags must not override config: %+v", cfg)
	}
}
