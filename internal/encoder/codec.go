package encoder

import "fmt"

// Codec identifies the compressed format an encoder produces.
type Codec string

const (
	CodecNone  Codec = "None"
	CodecDummy Codec = "Dummy"
	CodecH264  Codec = "H.264"
	CodecH265  Codec = "H.265"
	CodecH266  Codec = "H.266"
	CodecVP8   Codec = "VP8"
	CodecVP9   Codec = "VP9"
	CodecAV1   Codec = "AV1"
	CodecMPEG2 Codec = "MPEG2_VIDEO"
)

func (c Codec) String() string {
	return string(c)
}

// ParseCodec maps a codec name from a catalog file to a known Codec.
func ParseCodec(s string) (Codec, error) {
	switch Codec(s) {
	case CodecNone, CodecDummy, CodecH264, CodecH265, CodecH266,
		CodecVP8, CodecVP9, CodecAV1, CodecMPEG2:
		return Codec(s), nil
	}
	return CodecNone, fmt.Errorf("unknown codec %q", s)
}
