package artifact

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Expectations describe what a packaged artifact must contain to be
// considered releasable. Exact requirements are configuration, not policy
// baked into the validator.
type Expectations struct {
	RequiredEntries []string `yaml:"required_entries"`
	MinSizeBytes    int64    `yaml:"min_size_bytes"`
}

// Validate rejects expectations that cannot be satisfied by any artifact.
func (e Expectations) Validate() error {
	if e.MinSizeBytes < 0 {
		return fmt.Errorf("min_size_bytes must be non-negative, got %d", e.MinSizeBytes)
	}
	for _, entry := range e.RequiredEntries {
		if strings.TrimSpace(entry) == "" {
			return errors.New("required_entries must not contain empty names")
		}
	}
	return nil
}

// Check records the outcome of one integrity check. Message is empty when
// the check passed.
type Check struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// Verdict is the structured result of validating one artifact. An invalid
// artifact is a normal verdict, not an error.
type Verdict struct {
	Valid  bool    `json:"valid"`
	Checks []Check `json:"checks"`
}

// Failures returns the checks that did not pass.
func (v Verdict) Failures() []Check {
	var out []Check
	for _, c := range v.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// Summary flattens the failed checks into a single diagnostic line.
func (v Verdict) Summary() string {
	failures := v.Failures()
	if len(failures) == 0 {
		return ""
	}
	parts := make([]string, 0, len(failures))
	for _, c := range failures {
		parts = append(parts, fmt.Sprintf("%s: %s", c.Name, c.Message))
	}
	return strings.Join(parts, "; ")
}

// ValidationError signals an unexpected I/O condition while inspecting an
// artifact, as opposed to an ordinary invalid verdict.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("inspect artifact %q: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate inspects the packaged artifact at path against the supplied
// expectations. Checks that gate further inspection (existence, archive
// well-formedness) short-circuit; content checks do not, so one run
// surfaces every missing entry. The artifact is only ever read.
func Validate(path string, exp Expectations) (Verdict, error) {
	if err := exp.Validate(); err != nil {
		return Verdict{}, err
	}

	var verdict Verdict
	record := func(name string, passed bool, message string) {
		verdict.Checks = append(verdict.Checks, Check{Name: name, Passed: passed, Message: message})
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		record("exists", false, "artifact not found")
		return verdict, nil
	case err != nil:
		return Verdict{}, &ValidationError{Path: path, Err: err}
	case info.IsDir():
		return Verdict{}, &ValidationError{Path: path, Err: errors.New("artifact is a directory")}
	case info.Size() == 0:
		record("exists", false, "artifact is empty")
		return verdict, nil
	}
	record("exists", true, "")

	reader, err := zip.OpenReader(path)
	if err != nil {
		if isCorruptArchive(err) {
			record("archive", false, fmt.Sprintf("not a valid zip archive: %v", err))
			return verdict, nil
		}
		return Verdict{}, &ValidationError{Path: path, Err: err}
	}
	defer reader.Close()
	record("archive", true, "")

	entries := make(map[string]struct{}, len(reader.File))
	var uncompressed uint64
	for _, f := range reader.File {
		entries[f.Name] = struct{}{}
		uncompressed += f.UncompressedSize64
	}

	for _, required := range exp.RequiredEntries {
		if _, ok := entries[required]; ok {
			record("entry:"+required, true, "")
			continue
		}
		record("entry:"+required, false, "missing")
	}

	if exp.MinSizeBytes > 0 {
		if uncompressed >= uint64(exp.MinSizeBytes) {
			record("min_size", true, "")
		} else {
			record("min_size", false, fmt.Sprintf("uncompressed size %d below required %d", uncompressed, exp.MinSizeBytes))
		}
	}

	verdict.Valid = true
	for _, c := range verdict.Checks {
		if !c.Passed {
			verdict.Valid = false
			break
		}
	}
	return verdict, nil
}

func isCorruptArchive(err error) bool {
	return errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrAlgorithm)
}
