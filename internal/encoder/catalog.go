package encoder

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CatalogEntry is one extra encoder variant declared in a catalog file.
// GStreamer entries need an element; VKVS entries only a codec and variant.
type CatalogEntry struct {
	Provider string `yaml:"provider"`
	Codec    string `yaml:"codec"`
	Variant  string `yaml:"variant"`
	API      string `yaml:"api,omitempty"`
	Element  string `yaml:"element,omitempty"`
	Caps     string `yaml:"caps,omitempty"`
}

type catalogFile struct {
	Encoders []CatalogEntry `yaml:"encoders"`
}

// LoadCatalog reads extra encoder variants from a YAML file and returns
// encoders ready for registration. It lets a site probe profiles the
// built-in table doesn't carry without rebuilding the tool.
func LoadCatalog(path string) ([]Encoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encoder catalog: %w", err)
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse encoder catalog: %w", err)
	}

	encoders := make([]Encoder, 0, len(catalog.Encoders))
	for i, entry := range catalog.Encoders {
		enc, err := entry.build()
		if err != nil {
			return nil, fmt.Errorf("encoder catalog entry %d: %w", i+1, err)
		}
		encoders = append(encoders, enc)
	}
	return encoders, nil
}

func (e CatalogEntry) build() (Encoder, error) {
	codec, err := ParseCodec(e.Codec)
	if err != nil {
		return nil, err
	}
	if e.Variant == "" {
		return nil, fmt.Errorf("missing variant")
	}

	switch strings.ToLower(e.Provider) {
	case "gstreamer":
		if e.Element == "" {
			return nil, fmt.Errorf("gstreamer entry needs an element")
		}
		api := e.API
		if api == "" {
			api = "VA"
		}
		return newGstEncoder(GstVariant{
			Codec:   codec,
			Variant: e.Variant,
			API:     api,
			Element: e.Element,
			Caps:    e.Caps,
		}), nil
	case "vkvs":
		return newVKVSEncoder(VKVSVariant{
			Codec:   codec,
			Variant: e.Variant,
		}), nil
	}
	return nil, fmt.Errorf("unknown provider %q", e.Provider)
}

// ExampleCatalog documents the catalog file format.
const ExampleCatalog = `# Extra encoder variants for encq
#
# Providers: gstreamer (element + optional caps), vkvs (codec + variant).

encoders:
  - provider: gstreamer
    codec: H.264
    variant: baseline
    api: VA
    element: vah264enc
    caps: "video/x-h264, profile=baseline"

  - provider: gstreamer
    codec: AV1
    variant: lp
    api: VA
    element: vaav1lpenc
    caps: "video/x-av1"

  - provider: vkvs
    codec: H.265
    variant: main-10
`
