package vmaf

import (
	"context"
	"errors"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    float64
		wantErr bool
	}{
		{name: "plain score line", output: "VMAF score:87.65432", want: 87.65432},
		{name: "space after colon", output: "VMAF score: 93.1", want: 93.1},
		{name: "surrounding noise keeps first colon", output: "vmaf v2.3\nVMAF score:12.5", wantErr: false, want: 12.5},
		{name: "garbage", output: "garbage", wantErr: true},
		{name: "empty", output: "", wantErr: true},
		{name: "colon without number", output: "VMAF score:n/a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScore(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got %v", tt.output, got)
				}
				if !errors.Is(err, ErrUnparsable) {
					t.Errorf("Expected ErrUnparsable, got %v", err)
				}
				if got != 0 {
					t.Errorf("Expected zero score on parse failure, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseScore(%q) failed: %v", tt.output, err)
			}
			if math.Abs(got-tt.want) > 1e-5 {
				t.Errorf("ParseScore(%q) = %v, want %v", tt.output, got, tt.want)
			}
		})
	}
}

// fakeScorer writes a shell script standing in for the vmaf binary.
func fakeScorer(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vmaf")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("Failed to write fake scorer: %v", err)
	}
	return path
}

func TestScorerScore(t *testing.T) {
	s := &Scorer{Binary: fakeScorer(t, `echo "VMAF score:87.65432"`)}

	score, err := s.Score(context.Background(), "/ref.y4m", "/dist.y4m")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if math.Abs(score-87.65432) > 1e-5 {
		t.Errorf("Score = %v, want 87.65432", score)
	}
}

func TestScorerScoreUnparsable(t *testing.T) {
	s := &Scorer{Binary: fakeScorer(t, `echo "garbage"`)}

	_, err := s.Score(context.Background(), "/ref.y4m", "/dist.y4m")
	if !errors.Is(err, ErrUnparsable) {
		t.Errorf("Expected ErrUnparsable, got %v", err)
	}
}

func TestScorerScoreProcessError(t *testing.T) {
	s := &Scorer{Binary: fakeScorer(t, `echo "boom" >&2; exit 1`)}

	_, err := s.Score(context.Background(), "/ref.y4m", "/dist.y4m")
	if err == nil {
		t.Fatal("Expected error for failing scorer")
	}
	if errors.Is(err, ErrUnparsable) {
		t.Error("Process failure must not look like a parse failure")
	}
}

func TestScorerPassesArguments(t *testing.T) {
	// The scorer contract: --quiet --reference <ref> --distorted <dist>
	s := &Scorer{Binary: fakeScorer(t, `
case "$1 $2 $3 $4 $5" in
  "--quiet --reference /ref.y4m --distorted /dist.y4m") echo "VMAF score:50.0" ;;
  *) echo "bad args: $@" >&2; exit 1 ;;
esac`)}

	if _, err := s.Score(context.Background(), "/ref.y4m", "/dist.y4m"); err != nil {
		t.Errorf("Expected argument order --quiet --reference <ref> --distorted <dist>, got error: %v", err)
	}
}

func TestLocateFallsBackToResources(t *testing.T) {
	if _, err := exec.LookPath("vmaf"); err == nil {
		t.Skip("vmaf on PATH shadows the resources fallback")
	}

	resources := t.TempDir()
	if _, err := Locate(resources); err == nil {
		t.Error("Expected error with no vmaf anywhere")
	}

	bin := filepath.Join(resources, "vmaf")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Locate(resources)
	if err != nil {
		t.Fatalf("Locate failed with resources copy present: %v", err)
	}
	if got != bin {
		t.Errorf("Locate = %s, want %s", got, bin)
	}
}
