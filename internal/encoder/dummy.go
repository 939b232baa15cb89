package encoder

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Dummy copies its input straight to the output. Always available; useful
// for pipeline smoke checks and as the reference encoder in tests.
type Dummy struct{}

// NewDummy returns the dummy encoder.
func NewDummy() *Dummy {
	return &Dummy{}
}

func (d *Dummy) Name() string {
	return "Dummy"
}

func (d *Dummy) Codec() Codec {
	return CodecDummy
}

func (d *Dummy) Description() string {
	return "This is a dummy implementation for the dummy codec"
}

func (d *Dummy) Check(ctx context.Context, verbose bool) bool {
	return true
}

func (d *Dummy) Encode(ctx context.Context, inputFile, outputFile string, timeout time.Duration, verbose bool) error {
	src, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", inputFile, outputFile, err)
	}
	return dst.Close()
}
