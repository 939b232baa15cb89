// Package vmaf locates and drives the VMAF quality scorer.
package vmaf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/psantana5/encoder-quality/internal/command"
)

// ErrUnparsable reports scorer output with no readable score in it. Callers
// treat it as a soft failure of the scoring step, distinct from the scorer
// process failing outright.
var ErrUnparsable = errors.New("unparsable VMAF output")

const binaryName = "vmaf"

// Locate finds the VMAF binary: first on PATH, then inside the resources
// directory. A run cannot start without it.
func Locate(resourcesDir string) (string, error) {
	bin := command.Normalize(binaryName)

	if path, err := exec.LookPath(bin); err == nil {
		return path, nil
	}

	candidate := filepath.Join(resourcesDir, bin)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Mode()&0o111 != 0 {
		return candidate, nil
	}

	return "", fmt.Errorf("no VMAF binary found in PATH or in %s", resourcesDir)
}

// Scorer runs the VMAF binary against a reference/distorted pair.
type Scorer struct {
	Binary  string
	Verbose bool
}

// Score computes the quality score of distorted against reference. The
// scorer runs under ctx only; encode timeouts do not apply here.
func (s *Scorer) Score(ctx context.Context, reference, distorted string) (float64, error) {
	out, err := command.Output(ctx, command.Options{Verbose: s.Verbose}, s.Binary,
		"--quiet",
		"--reference", reference,
		"--distorted", distorted,
	)
	if err != nil {
		return 0, fmt.Errorf("vmaf failed: %w", err)
	}
	return ParseScore(out)
}

// ParseScore extracts the quality score from scorer output shaped like
// "VMAF score: 87.65432": the text between the first and second colon must
// parse as a float.
func ParseScore(output string) (float64, error) {
	parts := strings.Split(output, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnparsable, firstLine(output))
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparsable, firstLine(output))
	}
	return score, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
