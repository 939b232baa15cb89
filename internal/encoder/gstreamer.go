package encoder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/psantana5/encoder-quality/internal/command"
)

const (
	gstBinary = "gst-launch-1.0"

	gstEncodeTpl = "%s --eos-on-shutdown --no-fault filesrc location=%s ! " +
		"y4mdec ! videoconvert dither=none ! " +
		"%s ! decodebin ! " +
		"videoconvert dither=none ! y4menc ! filesink location=%s"

	gstProbeTpl = "%s --no-fault appsrc num-buffers=0 ! %s ! fakesink"
)

// GstVariant describes one GStreamer encoder configuration: which element to
// run and the caps that pin the profile.
type GstVariant struct {
	Codec   Codec
	Variant string
	API     string
	Element string
	Caps    string
}

// gstVariants is the built-in table. One gstEncoder implementation covers
// them all; adding a profile is one more row, not one more type.
var gstVariants = []GstVariant{
	{Codec: CodecH264, Variant: "main", API: "VA", Element: "vah264enc", Caps: "video/x-h264, profile=main"},
	{Codec: CodecH264, Variant: "high", API: "VA", Element: "vah264enc", Caps: "video/x-h264, profile=high"},
	{Codec: CodecH264, Variant: "constrained-baseline", API: "VA", Element: "vah264enc", Caps: "video/x-h264, profile=constrained-baseline"},
	{Codec: CodecH264, Variant: "lp-main", API: "VA", Element: "vah264lpenc", Caps: "video/x-h264, profile=main"},
	{Codec: CodecH264, Variant: "lp-high", API: "VA", Element: "vah264lpenc", Caps: "video/x-h264, profile=high"},
	{Codec: CodecH264, Variant: "lp-constrained-baseline", API: "VA", Element: "vah264lpenc", Caps: "video/x-h264, profile=constrained-baseline"},
	{Codec: CodecH265, Variant: "main", API: "VA", Element: "vah265enc", Caps: "video/x-h265, profile=main"},
	{Codec: CodecH265, Variant: "lp-main", API: "VA", Element: "vah265lpenc", Caps: "video/x-h265, profile=main"},
	{Codec: CodecVP9, Variant: "lp", API: "VA", Element: "vavp9lpenc", Caps: "video/x-vp9"},
}

// gstEncoder runs an encode through a gst-launch-1.0 pipeline and decodes the
// result back to Y4M in the same pass, so the scorer can compare like with
// like.
type gstEncoder struct {
	variant GstVariant
	name    string
	desc    string
	bin     string
	avail   checkCache
}

func newGstEncoder(v GstVariant) *gstEncoder {
	return &gstEncoder{
		variant: v,
		name: fmt.Sprintf("GStreamer-%s-%s-%s-Gst1.0",
			v.Codec, v.Variant, v.API),
		desc: fmt.Sprintf("GStreamer %s %s %s encoder for GStreamer 1.0",
			v.Codec, v.Variant, v.API),
		bin: command.Normalize(gstBinary),
	}
}

func (e *gstEncoder) Name() string {
	return e.name
}

func (e *gstEncoder) Codec() Codec {
	return e.variant.Codec
}

func (e *gstEncoder) Description() string {
	return e.desc
}

// encoderBin renders the encoder element plus its caps filter as a pipeline
// fragment.
func (e *gstEncoder) encoderBin() string {
	if e.variant.Caps == "" {
		return e.variant.Element
	}
	return e.variant.Element + " ! " + e.variant.Caps
}

// encodePipeline builds the full encode-decode pipeline for one asset.
func (e *gstEncoder) encodePipeline(inputFile, outputFile string) string {
	return fmt.Sprintf(gstEncodeTpl, e.bin, inputFile, e.encoderBin(), outputFile)
}

// probePipeline builds the zero-buffer availability probe.
func (e *gstEncoder) probePipeline() string {
	return fmt.Sprintf(gstProbeTpl, e.bin, e.encoderBin())
}

// Check probes the element with an empty appsrc pipeline, which exercises
// element negotiation against the real driver, unlike gst-inspect.
func (e *gstEncoder) Check(ctx context.Context, verbose bool) bool {
	return e.avail.run(func() bool {
		args := strings.Fields(e.probePipeline())

		err := command.Run(ctx, command.Options{Timeout: probeTimeout, Verbose: verbose}, args[0], args[1:]...)
		if err != nil {
			if verbose {
				fmt.Printf("%s unavailable: %v\n", e.name, err)
			}
			return false
		}
		return true
	})
}

func (e *gstEncoder) Encode(ctx context.Context, inputFile, outputFile string, timeout time.Duration, verbose bool) error {
	args := strings.Fields(e.encodePipeline(inputFile, outputFile))

	return command.Run(ctx, command.Options{Timeout: timeout, Verbose: verbose}, args[0], args[1:]...)
}
