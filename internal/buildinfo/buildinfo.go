package buildinfo

import (
	"bytes"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Info captures the environment a pipeline run executes in. Branch and
// commit come from the orchestrator when it supplies them, with a git
// fallback for local runs.
type Info struct {
	Branch   string
	Commit   string
	Platform string
	Variant  string
}

// Detect resolves run metadata from the environment. env is injectable
// for tests; pass nil to use os.Getenv.
func Detect(env func(string) string) Info {
	if env == nil {
		env = os.Getenv
	}

	info := Info{
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Variant:  env("CIPIPE_VARIANT"),
	}

	info.Branch = firstNonEmpty(env("CIPIPE_BRANCH"), env("GITHUB_REF_NAME"))
	if info.Branch == "" {
		if out, err := runCommand("git", "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
			info.Branch = out
		}
	}

	info.Commit = firstNonEmpty(env("CIPIPE_COMMIT"), env("GITHUB_SHA"))
	if info.Commit == "" {
		if out, err := runCommand("git", "rev-parse", "--short", "HEAD"); err == nil {
			info.Commit = out
		}
	}

	return info
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func runCommand(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
