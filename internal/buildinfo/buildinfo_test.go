package buildinfo

import (
	"strings"
	"testing"
)

func envFromMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestDetectFromOrchestratorEnv(t *testing.T) {
	info := Detect(envFromMap(map[string]string{
		"CIPIPE_BRANCH":  "release/1.2",
		"CIPIPE_COMMIT":  "0db13f7",
		"CIPIPE_VARIANT": "py3.11",
	}))

	if info.Branch != "release/1.2" {
		t.Fatalf("unexpected branch %q", info.Branch)
	}
	if info.Commit != "0db13f7" {
		t.Fatalf("unexpected commit %q", info.Commit)
	}
	if info.Variant != "py3.11" {
		t.Fatalf("unexpected variant %q", info.Variant)
	}
	if !strings.Contains(info.Platform, "/") {
		t.Fatalf("expected os/arch platform, got %q", info.Platform)
	}
}

func TestDetectPrefersExplicitOverGitHubEnv(t *testing.T) {
	info := Detect(envFromMap(map[string]string{
		"CIPIPE_BRANCH":   "explicit",
		"GITHUB_REF_NAME": "from-github",
		"CIPIPE_COMMIT":   "aaa",
		"GITHUB_SHA":      "bbb",
	}))

	if info.Branch != "explicit" || info.Commit != "aaa" {
		t.Fatalf("explicit env must win: %+v", info)
	}
}

func TestDetectFallsBackToGitHubEnv(t *testing.T) {
	info := Detect(envFromMap(map[string]string{
		"GITHUB_REF_NAME": "main",
		"GITHUB_SHA":      "0db13f7aa91c2",
	}))

	if info.Branch != "main" || info.Commit != "0db13f7aa91c2" {
		t.Fatalf("expected github env fallback: %+v", info)
	}
}
