package runner

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/foo-mi/cross-platform-ci-pipeline/internal/artifact"
	"github.com/foo-mi/cross-platform-ci-pipeline/internal/report"
)

// Stage is one unit of pipeline work. Execute returns the stage outcome as
// data; a non-nil error is a fault (an unexpected condition, not an
// ordinary failure) and is caught exactly once, by the Runner. Command
// describes what the stage would run, for dry-run output.
type Stage interface {
	Name() string
	Variant() string
	Command() string
	Execute(ctx context.Context) (report.Status, string, error)
}

// StageFunc adapts a plain function into a Stage.
type StageFunc struct {
	StageName     string
	MatrixVariant string
	Fn            func(ctx context.Context) (report.Status, string, error)
}

func (s StageFunc) Name() string    { return s.StageName }
func (s StageFunc) Variant() string { return s.MatrixVariant }
func (s StageFunc) Command() string { return "" }

func (s StageFunc) Execute(ctx context.Context) (report.Status, string, error) {
	return s.Fn(ctx)
}

// CommandStage runs a shell command, the lint/test/build family of stages.
// A non-zero exit is an ordinary failure; the tail of the command's output
// becomes the failure detail.
type CommandStage struct {
	StageName     string
	MatrixVariant string
	Script        string
	Shell         string
	Dir           string
	Env           []string
	Stdout        io.Writer
	Stderr        io.Writer
	TailLines     int
}

func (s *CommandStage) Name() string    { return s.StageName }
func (s *CommandStage) Variant() string { return s.MatrixVariant }
func (s *CommandStage) Command() string { return s.Script }

func (s *CommandStage) Execute(ctx context.Context) (report.Status, string, error) {
	args := commandArgs(s.Shell, s.Script)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = s.Dir

	env := s.Env
	if env == nil {
		env = os.Environ()
	}
	env = append(append([]string{}, env...), "CIPIPE_STAGE="+s.StageName)
	if s.MatrixVariant != "" {
		env = append(env, "CIPIPE_VARIANT="+s.MatrixVariant)
	}
	cmd.Env = env

	var stdoutBuf, stderrBuf strings.Builder
	if s.Stdout != nil {
		cmd.Stdout = io.MultiWriter(s.Stdout, &stdoutBuf)
	} else {
		cmd.Stdout = &stdoutBuf
	}
	if s.Stderr != nil {
		cmd.Stderr = io.MultiWriter(s.Stderr, &stderrBuf)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Run(); err != nil {
		tail := s.TailLines
		if tail <= 0 {
			tail = 20
		}
		detail := tailLines(stderrBuf.String(), tail)
		if detail == "" {
			detail = tailLines(stdoutBuf.String(), tail)
		}
		if detail == "" {
			detail = err.Error()
		}
		return report.StatusFailed, detail, nil
	}
	return report.StatusPassed, "", nil
}

// GateStage validates the packaged artifact and converts the verdict into
// a stage outcome. A ValidationError surfaces as a fault.
type GateStage struct {
	StageName    string
	Path         string
	Expectations artifact.Expectations
}

func (g *GateStage) Name() string    { return g.StageName }
func (g *GateStage) Variant() string { return "" }
func (g *GateStage) Command() string { return "validate " + g.Path }

func (g *GateStage) Execute(ctx context.Context) (report.Status, string, error) {
	verdict, err := artifact.Validate(g.Path, g.Expectations)
	if err != nil {
		return report.StatusFailed, "", err
	}
	if !verdict.Valid {
		return report.StatusFailed, verdict.Summary(), nil
	}
	return report.StatusPassed, "", nil
}

func commandArgs(shellSpec, script string) []string {
	if strings.TrimSpace(shellSpec) == "" {
		if runtime.GOOS == "windows" {
			return []string{"cmd", "/C", script}
		}
		return []string{"sh", "-c", script}
	}

	fields := strings.Fields(shellSpec)
	shell := fields[0]
	args := append([]string{}, fields[1:]...)

	switch strings.ToLower(filepath.Base(shell)) {
	case "cmd", "cmd.exe":
		args = append(args, "/C", script)
	case "pwsh", "powershell", "powershell.exe":
		args = append(args, "-Command", script)
	case "python", "python3", "python.exe":
		args = append(args, "-c", script)
	default:
		args = append(args, "-c", script)
	}
	return append([]string{shell}, args...)
}

func tailLines(input string, maxLines int) string {
	input = strings.TrimRight(input, "\n")
	if input == "" {
		return ""
	}
	lines := strings.Split(input, "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-maxLines:], "\n")
}
