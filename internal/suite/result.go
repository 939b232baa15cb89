// Package suite is the execution core of the harness: jobs that encode one
// asset with one encoder and score the result, an engine that runs jobs on a
// bounded worker pool, and the controller that ties one encoder to an asset
// set.
package suite

import (
	"fmt"
	"time"
)

// Outcome classifies one step of a job.
type Outcome string

const (
	OutcomeNotRun  Outcome = "Not Run"
	OutcomeSuccess Outcome = "Success"
	OutcomeFail    Outcome = "Fail"
	OutcomeTimeout Outcome = "Timeout"
	OutcomeError   Outcome = "Error"
)

func (o Outcome) String() string {
	return string(o)
}

// Result is the record of one job. It is created at job start and filled in
// step order: identity first, then encode outcome, then score outcome, so a
// partially-run job still renders meaningfully.
type Result struct {
	AssetFile    string        `json:"asset_file"`
	EncoderName  string        `json:"encoder_name"`
	EncodeTime   time.Duration `json:"encode_time"`
	EncodeResult Outcome       `json:"encode_result"`
	VMAFResult   Outcome       `json:"vmaf_result"`
	VMAFScore    float64       `json:"vmaf_score"`
	VMAFTime     time.Duration `json:"vmaf_time"`
}

// NewResult returns a result with both steps marked not run.
func NewResult() *Result {
	return &Result{
		EncodeResult: OutcomeNotRun,
		VMAFResult:   OutcomeNotRun,
	}
}

// Passed reports whether both steps finished successfully.
func (r *Result) Passed() bool {
	return r.EncodeResult == OutcomeSuccess && r.VMAFResult == OutcomeSuccess
}

// String renders the result in the harness's report line format. The shape
// is stable: downstream threshold logic and humans both read it.
func (r *Result) String() string {
	s := fmt.Sprintf("%s — %s ", r.EncoderName, r.AssetFile)
	if r.EncodeResult != OutcomeSuccess {
		return fmt.Sprintf("%s → Encode %s", s, r.EncodeResult)
	}
	if r.VMAFResult != OutcomeSuccess {
		return fmt.Sprintf("%s → VMAF %s", s, r.VMAFResult)
	}
	total := r.EncodeTime + r.VMAFTime
	return fmt.Sprintf("%s [%.3fs] → %.5f", s, total.Seconds(), r.VMAFScore)
}
