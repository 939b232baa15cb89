package suite

import (
	"testing"
	"time"
)

func TestResultString(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   string
	}{
		{
			name: "encode not run",
			result: &Result{
				AssetFile:    "ducks.y4m",
				EncoderName:  "Dummy",
				EncodeResult: OutcomeNotRun,
				VMAFResult:   OutcomeNotRun,
			},
			want: "Dummy — ducks.y4m  → Encode Not Run",
		},
		{
			name: "encode error",
			result: &Result{
				AssetFile:    "ducks.y4m",
				EncoderName:  "VKVS-H.264-main",
				EncodeResult: OutcomeError,
				VMAFResult:   OutcomeNotRun,
			},
			want: "VKVS-H.264-main — ducks.y4m  → Encode Error",
		},
		{
			name: "encode timeout",
			result: &Result{
				AssetFile:    "park.y4m",
				EncoderName:  "Dummy",
				EncodeResult: OutcomeTimeout,
				VMAFResult:   OutcomeNotRun,
			},
			want: "Dummy — park.y4m  → Encode Timeout",
		},
		{
			name: "vmaf fail",
			result: &Result{
				AssetFile:    "ducks.y4m",
				EncoderName:  "Dummy",
				EncodeResult: OutcomeSuccess,
				VMAFResult:   OutcomeFail,
			},
			want: "Dummy — ducks.y4m  → VMAF Fail",
		},
		{
			name: "success with combined time and score",
			result: &Result{
				AssetFile:    "ducks.y4m",
				EncoderName:  "Dummy",
				EncodeTime:   700 * time.Millisecond,
				EncodeResult: OutcomeSuccess,
				VMAFResult:   OutcomeSuccess,
				VMAFScore:    87.65432,
				VMAFTime:     534 * time.Millisecond,
			},
			want: "Dummy — ducks.y4m  [1.234s] → 87.65432",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResultPassed(t *testing.T) {
	tests := []struct {
		name   string
		encode Outcome
		vmaf   Outcome
		want   bool
	}{
		{name: "both success", encode: OutcomeSuccess, vmaf: OutcomeSuccess, want: true},
		{name: "encode failed", encode: OutcomeError, vmaf: OutcomeNotRun, want: false},
		{name: "encode timed out", encode: OutcomeTimeout, vmaf: OutcomeNotRun, want: false},
		{name: "score failed", encode: OutcomeSuccess, vmaf: OutcomeFail, want: false},
		{name: "fresh result", encode: OutcomeNotRun, vmaf: OutcomeNotRun, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Result{EncodeResult: tt.encode, VMAFResult: tt.vmaf}
			if got := r.Passed(); got != tt.want {
				t.Errorf("Passed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewResultStartsNotRun(t *testing.T) {
	r := NewResult()
	if r.EncodeResult != OutcomeNotRun || r.VMAFResult != OutcomeNotRun {
		t.Errorf("NewResult() outcomes = %s/%s, want Not Run/Not Run", r.EncodeResult, r.VMAFResult)
	}
	if r.VMAFScore != 0 {
		t.Errorf("NewResult() score = %v, want 0", r.VMAFScore)
	}
}
