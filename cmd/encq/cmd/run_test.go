package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/psantana5/encoder-quality/internal/suite"
)

func passed(score float64) *suite.Result {
	return &suite.Result{
		EncodeResult: suite.OutcomeSuccess,
		VMAFResult:   suite.OutcomeSuccess,
		VMAFScore:    score,
	}
}

func failedEncode() *suite.Result {
	return &suite.Result{
		EncodeResult: suite.OutcomeError,
		VMAFResult:   suite.OutcomeNotRun,
	}
}

func TestEvaluateThresholds(t *testing.T) {
	tests := []struct {
		name          string
		threshold     float64
		timeThreshold float64
		results       []*suite.Result
		elapsed       time.Duration
		expectedCode  int
		expectedMsg   string
	}{
		{
			name:         "no thresholds ignore failures",
			results:      []*suite.Result{failedEncode()},
			elapsed:      time.Hour,
			expectedCode: 0,
		},
		{
			name:         "quality threshold met",
			threshold:    90,
			results:      []*suite.Result{passed(95), passed(90)},
			expectedCode: 0,
		},
		{
			name:         "score below quality threshold",
			threshold:    90,
			results:      []*suite.Result{passed(95), passed(85), passed(92)},
			expectedCode: 2,
			expectedMsg:  "1 of 3 tests below VMAF threshold 90.00",
		},
		{
			name:         "failed test counts against quality threshold",
			threshold:    90,
			results:      []*suite.Result{passed(95), failedEncode()},
			expectedCode: 2,
		},
		{
			name:          "time threshold exceeded",
			timeThreshold: 1,
			results:       []*suite.Result{passed(99)},
			elapsed:       1500 * time.Millisecond,
			expectedCode:  3,
		},
		{
			name:          "time threshold met",
			timeThreshold: 10,
			results:       []*suite.Result{passed(99)},
			elapsed:       time.Second,
			expectedCode:  0,
		},
		{
			name:          "quality violation wins over time violation",
			threshold:     90,
			timeThreshold: 1,
			results:       []*suite.Result{passed(50)},
			elapsed:       time.Hour,
			expectedCode:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prevThreshold, prevTime := runThreshold, runTimeThreshold
			defer func() { runThreshold, runTimeThreshold = prevThreshold, prevTime }()
			runThreshold, runTimeThreshold = tt.threshold, tt.timeThreshold

			err := evaluateThresholds(tt.results, tt.elapsed)

			if tt.expectedCode == 0 {
				if err != nil {
					t.Fatalf("Expected no threshold violation, got %v", err)
				}
				return
			}

			var ec *ExitCodeError
			if !errors.As(err, &ec) {
				t.Fatalf("Expected an ExitCodeError, got %v", err)
			}
			if ec.Code != tt.expectedCode {
				t.Errorf("Expected exit code %d, got %d", tt.expectedCode, ec.Code)
			}
			if tt.expectedMsg != "" && !strings.Contains(ec.Error(), tt.expectedMsg) {
				t.Errorf("Expected message %q in %q", tt.expectedMsg, ec.Error())
			}
		})
	}
}

func TestBuildRegistryWithoutCatalog(t *testing.T) {
	registry, err := buildRegistry("")
	if err != nil {
		t.Fatalf("buildRegistry failed: %v", err)
	}
	if len(registry.Encoders()) == 0 {
		t.Error("Expected builtin encoders in the registry")
	}
}

func TestBuildRegistryMergesCatalog(t *testing.T) {
	catalog := filepath.Join(t.TempDir(), "encoders.yaml")
	content := `encoders:
  - provider: gstreamer
    codec: AV1
    variant: lp
    element: vaav1lpenc
    caps: "video/x-av1"
`
	if err := os.WriteFile(catalog, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	base, err := buildRegistry("")
	if err != nil {
		t.Fatal(err)
	}
	merged, err := buildRegistry(catalog)
	if err != nil {
		t.Fatalf("buildRegistry with catalog failed: %v", err)
	}
	if len(merged.Encoders()) != len(base.Encoders())+1 {
		t.Errorf("Expected %d encoders after merge, got %d",
			len(base.Encoders())+1, len(merged.Encoders()))
	}
}

func TestBuildRegistryRejectsDuplicateCatalogEntry(t *testing.T) {
	// Same codec, variant and API as a builtin variant, so the generated
	// name collides.
	catalog := filepath.Join(t.TempDir(), "encoders.yaml")
	content := `encoders:
  - provider: gstreamer
    codec: H.264
    variant: main
    api: VA
    element: vah264enc
`
	if err := os.WriteFile(catalog, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := buildRegistry(catalog); err == nil {
		t.Error("Expected duplicate catalog entry to fail registration")
	}
}
