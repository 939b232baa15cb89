package encoder

import (
	"strings"
	"sync"
	"testing"
)

func TestGstEncoderIdentity(t *testing.T) {
	enc := newGstEncoder(GstVariant{
		Codec:   CodecH264,
		Variant: "main",
		API:     "VA",
		Element: "vah264enc",
		Caps:    "video/x-h264, profile=main",
	})

	if enc.Name() != "GStreamer-H.264-main-VA-Gst1.0" {
		t.Errorf("Name() = %s, want GStreamer-H.264-main-VA-Gst1.0", enc.Name())
	}
	if enc.Codec() != CodecH264 {
		t.Errorf("Codec() = %s, want %s", enc.Codec(), CodecH264)
	}
	if enc.Description() != "GStreamer H.264 main VA encoder for GStreamer 1.0" {
		t.Errorf("Unexpected description: %s", enc.Description())
	}
}

func TestGstEncoderBin(t *testing.T) {
	tests := []struct {
		name    string
		variant GstVariant
		want    string
	}{
		{
			name:    "element with caps",
			variant: GstVariant{Codec: CodecH265, Variant: "main", API: "VA", Element: "vah265enc", Caps: "video/x-h265, profile=main"},
			want:    "vah265enc ! video/x-h265, profile=main",
		},
		{
			name:    "element without caps",
			variant: GstVariant{Codec: CodecVP9, Variant: "lp", API: "VA", Element: "vavp9lpenc"},
			want:    "vavp9lpenc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := newGstEncoder(tt.variant)
			if got := enc.encoderBin(); got != tt.want {
				t.Errorf("encoderBin() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGstEncodePipeline(t *testing.T) {
	enc := newGstEncoder(gstVariants[0])
	pipeline := enc.encodePipeline("/res/list/in.y4m", "/out/in.y4m")

	wantFragments := []string{
		"gst-launch-1.0 --eos-on-shutdown --no-fault",
		"filesrc location=/res/list/in.y4m",
		"y4mdec",
		"videoconvert dither=none",
		"vah264enc ! video/x-h264, profile=main",
		"decodebin",
		"y4menc",
		"filesink location=/out/in.y4m",
	}
	for _, frag := range wantFragments {
		if !strings.Contains(pipeline, frag) {
			t.Errorf("Pipeline missing %q:\n%s", frag, pipeline)
		}
	}

	// The encoded stream must be decoded back before scoring
	encPos := strings.Index(pipeline, "vah264enc")
	decPos := strings.Index(pipeline, "decodebin")
	if encPos < 0 || decPos < 0 || encPos > decPos {
		t.Errorf("Expected encoder before decodebin in pipeline:\n%s", pipeline)
	}
}

func TestGstProbePipeline(t *testing.T) {
	enc := newGstEncoder(gstVariants[0])
	probe := enc.probePipeline()

	if !strings.Contains(probe, "appsrc num-buffers=0") {
		t.Errorf("Probe should push zero buffers: %s", probe)
	}
	if !strings.Contains(probe, "vah264enc") {
		t.Errorf("Probe should exercise the element: %s", probe)
	}
	if !strings.Contains(probe, "fakesink") {
		t.Errorf("Probe should end in fakesink: %s", probe)
	}
	if strings.Contains(probe, "--eos-on-shutdown") {
		t.Errorf("Probe should not use the encode pipeline flags: %s", probe)
	}
}

func TestGstVariantTableNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, v := range gstVariants {
		name := newGstEncoder(v).Name()
		if seen[name] {
			t.Errorf("Duplicate variant name: %s", name)
		}
		seen[name] = true
	}
	if len(seen) != 9 {
		t.Errorf("Expected 9 GStreamer variants, got %d", len(seen))
	}
}

func TestCheckCacheRunsProbeOnce(t *testing.T) {
	var cache checkCache
	var mu sync.Mutex
	calls := 0

	probe := func() bool {
		mu.Lock()
		calls++
		mu.Unlock()
		return true
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !cache.run(probe) {
				t.Error("Expected cached probe to report true")
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("Expected exactly one probe call, got %d", calls)
	}
}
