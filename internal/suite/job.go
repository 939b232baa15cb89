package suite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/psantana5/encoder-quality/internal/asset"
	"github.com/psantana5/encoder-quality/internal/command"
	"github.com/psantana5/encoder-quality/internal/encoder"
	"github.com/psantana5/encoder-quality/internal/vmaf"
)

// Scorer computes the quality score of an encoded file against its
// reference. *vmaf.Scorer is the production implementation.
type Scorer interface {
	Score(ctx context.Context, reference, distorted string) (float64, error)
}

// Job binds one encoder to one asset. Running it encodes the asset, scores
// the output, and cleans up.
type Job struct {
	Encoder      encoder.Encoder
	Entry        asset.Entry
	Scorer       Scorer
	ResourcesDir string
	OutputDir    string
	Timeout      time.Duration
	KeepFiles    bool
	Verbose      bool
}

// Run executes the job and always returns a completed Result; every failure
// mode lands in the result's outcomes rather than escaping. Timeout and
// error outcomes are terminal for their step.
func (j *Job) Run(ctx context.Context) *Result {
	result := NewResult()
	result.AssetFile = j.Entry.Asset.Filename
	result.EncoderName = j.Encoder.Name()

	inputFile := j.Entry.InputPath(j.ResourcesDir)
	outputFile := filepath.Join(j.OutputDir, j.Entry.Asset.Name+".y4m")

	defer func() {
		if !j.KeepFiles {
			os.Remove(outputFile)
		}
	}()

	start := time.Now()
	err := j.Encoder.Encode(ctx, inputFile, outputFile, j.Timeout, j.Verbose)
	result.EncodeTime = time.Since(start)
	if err != nil {
		if errors.Is(err, command.ErrTimeout) {
			result.EncodeResult = OutcomeTimeout
		} else {
			result.EncodeResult = OutcomeError
		}
		return result
	}
	result.EncodeResult = OutcomeSuccess

	start = time.Now()
	score, err := j.Scorer.Score(ctx, inputFile, outputFile)
	result.VMAFTime = time.Since(start)
	switch {
	case err == nil:
		result.VMAFScore = score
		result.VMAFResult = OutcomeSuccess
	case errors.Is(err, vmaf.ErrUnparsable):
		// The scorer ran but printed nothing usable
		result.VMAFResult = OutcomeFail
	default:
		result.VMAFResult = OutcomeError
	}
	return result
}
