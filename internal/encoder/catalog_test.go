package encoder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "encoders.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeCatalog(t, `encoders:
  - provider: gstreamer
    codec: H.264
    variant: baseline
    element: vah264enc
    caps: "video/x-h264, profile=baseline"
  - provider: vkvs
    codec: AV1
    variant: main-10
`)

	encoders, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(encoders) != 2 {
		t.Fatalf("Expected 2 encoders, got %d", len(encoders))
	}

	if encoders[0].Name() != "GStreamer-H.264-baseline-VA-Gst1.0" {
		t.Errorf("Expected default VA api in name, got %s", encoders[0].Name())
	}
	if encoders[1].Name() != "VKVS-AV1-main-10" {
		t.Errorf("Unexpected vkvs name: %s", encoders[1].Name())
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "unknown provider",
			content: `encoders:
  - provider: nvenc
    codec: H.264
    variant: main
`,
			wantErr: `unknown provider "nvenc"`,
		},
		{
			name: "unknown codec",
			content: `encoders:
  - provider: vkvs
    codec: H.263
    variant: main
`,
			wantErr: `unknown codec "H.263"`,
		},
		{
			name: "gstreamer without element",
			content: `encoders:
  - provider: gstreamer
    codec: H.264
    variant: main
`,
			wantErr: "needs an element",
		},
		{
			name: "missing variant",
			content: `encoders:
  - provider: vkvs
    codec: H.264
`,
			wantErr: "missing variant",
		},
		{
			name:    "broken yaml",
			content: "encoders: [",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(writeCatalog(t, tt.content))
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing catalog file")
	}
}

func TestExampleCatalogLoads(t *testing.T) {
	encoders, err := LoadCatalog(writeCatalog(t, ExampleCatalog))
	if err != nil {
		t.Fatalf("Example catalog should load: %v", err)
	}
	if len(encoders) != 3 {
		t.Errorf("Expected 3 example encoders, got %d", len(encoders))
	}
}
