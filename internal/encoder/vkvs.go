package encoder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/psantana5/encoder-quality/internal/command"
)

const (
	vkvsEncodeBinary = "vk-video-enc-test"
	vkvsDecodeBinary = "vk-video-dec-test"

	vkvsEncodeTpl = "%s -c %s -i %s -o %s --profile %s"
	vkvsDecodeTpl = "%s -i %s -o %s --y4m --noPresent --enablePostProcessFilter 0"
)

// VKVSVariant describes one Vulkan Video Samples encoder configuration.
type VKVSVariant struct {
	Codec   Codec
	Variant string
}

var vkvsVariants = []VKVSVariant{
	{Codec: CodecH264, Variant: "main"},
	{Codec: CodecH265, Variant: "main"},
	{Codec: CodecAV1, Variant: "main"},
}

// vkvsEncoder drives the Vulkan Video Samples tools. The samples encoder
// emits a raw bitstream, so Encode runs a decode pass afterwards to land on
// the Y4M the scorer expects.
type vkvsEncoder struct {
	variant VKVSVariant
	name    string
	desc    string
	encBin  string
	decBin  string
	avail   checkCache
}

func newVKVSEncoder(v VKVSVariant) *vkvsEncoder {
	return &vkvsEncoder{
		variant: v,
		name:    fmt.Sprintf("VKVS-%s-%s", v.Codec, v.Variant),
		desc:    fmt.Sprintf("VKVS %s %s encoder", v.Codec, v.Variant),
		encBin:  command.Normalize(vkvsEncodeBinary),
		decBin:  command.Normalize(vkvsDecodeBinary),
	}
}

func (e *vkvsEncoder) Name() string {
	return e.name
}

func (e *vkvsEncoder) Codec() Codec {
	return e.variant.Codec
}

func (e *vkvsEncoder) Description() string {
	return e.desc
}

// codecArg maps a Codec to the encoder tool's -c argument.
func codecArg(c Codec) string {
	switch c {
	case CodecH264:
		return "h264"
	case CodecH265:
		return "h265"
	case CodecAV1:
		return "av1"
	}
	return "unknown"
}

// encodeCmd builds the bitstream-producing encode command.
func (e *vkvsEncoder) encodeCmd(inputFile, encodedFile string) string {
	return fmt.Sprintf(vkvsEncodeTpl, e.encBin, codecArg(e.variant.Codec), inputFile, encodedFile, e.variant.Variant)
}

// decodeCmd builds the decode-back-to-Y4M command.
func (e *vkvsEncoder) decodeCmd(encodedFile, outputFile string) string {
	return fmt.Sprintf(vkvsDecodeTpl, e.decBin, encodedFile, outputFile)
}

func (e *vkvsEncoder) Check(ctx context.Context, verbose bool) bool {
	return e.avail.run(func() bool {
		err := command.Run(ctx, command.Options{Timeout: probeTimeout, Verbose: verbose}, e.encBin, "--help")
		if err != nil {
			if verbose {
				fmt.Printf("%s unavailable: %v\n", e.name, err)
			}
			return false
		}
		return true
	})
}

func (e *vkvsEncoder) Encode(ctx context.Context, inputFile, outputFile string, timeout time.Duration, verbose bool) error {
	encodedFile := outputFile + ".enc"

	args := strings.Fields(e.encodeCmd(inputFile, encodedFile))
	if err := command.Run(ctx, command.Options{Timeout: timeout, Verbose: verbose}, args[0], args[1:]...); err != nil {
		return err
	}

	args = strings.Fields(e.decodeCmd(encodedFile, outputFile))
	return command.Run(ctx, command.Options{Timeout: timeout, Verbose: verbose}, args[0], args[1:]...)
}
