package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"
	"time"
)

// ErrTimeout reports that a command was killed because its deadline expired.
var ErrTimeout = errors.New("command timed out")

// ExitError carries the exit code and captured stderr of a command that
// started fine but exited non-zero.
type ExitError struct {
	Cmd    string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with code %d: %s", e.Cmd, e.Code, e.Stderr)
	}
	return fmt.Sprintf("%s exited with code %d", e.Cmd, e.Code)
}

// Options controls how a command is run.
type Options struct {
	// Timeout bounds the whole run. Zero means no deadline beyond the
	// caller's context.
	Timeout time.Duration
	// Verbose echoes the command line and forwards the child's output
	// instead of discarding it.
	Verbose bool
}

// Run executes name with args, discarding output unless verbose. A non-zero
// exit becomes an *ExitError with the captured stderr; a blown deadline
// becomes ErrTimeout.
func Run(ctx context.Context, opts Options, name string, args ...string) error {
	_, err := run(ctx, opts, false, name, args...)
	return err
}

// Output executes name with args and returns its combined stdout+stderr,
// trimmed. The text is returned even when the command fails so callers can
// inspect partial output.
func Output(ctx context.Context, opts Options, name string, args ...string) (string, error) {
	return run(ctx, opts, true, name, args...)
}

func run(parent context.Context, opts Options, capture bool, name string, args ...string) (string, error) {
	runCtx := parent
	cancel := context.CancelFunc(func() {})
	if opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(parent, opts.Timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)

	// Own process group, so killing on timeout takes the tool's helper
	// children down with it (gst-launch spawns its pipeline elements as
	// subprocesses).
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var combined, stderr bytes.Buffer
	switch {
	case capture:
		cmd.Stdout = &combined
		cmd.Stderr = &combined
	case opts.Verbose:
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	default:
		cmd.Stdout = io.Discard
		cmd.Stderr = &stderr
	}

	if opts.Verbose {
		fmt.Printf("Running command %q\n", name+" "+strings.Join(args, " "))
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start %s: %w", name, err)
	}

	// CommandContext only kills the direct child; take out the whole group
	// when the context goes.
	waited := make(chan struct{})
	go func() {
		select {
		case <-runCtx.Done():
			killGroup(cmd.Process.Pid)
		case <-waited:
		}
	}()

	waitErr := cmd.Wait()
	close(waited)

	text := strings.TrimSpace(combined.String())
	if capture && opts.Verbose && text != "" {
		fmt.Println(text)
	}

	if waitErr == nil {
		return text, nil
	}

	if runCtx.Err() == context.DeadlineExceeded {
		return text, fmt.Errorf("%s: %w", name, ErrTimeout)
	}
	if err := parent.Err(); err != nil {
		return text, fmt.Errorf("%s: %w", name, err)
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return text, &ExitError{
			Cmd:    name + " " + strings.Join(args, " "),
			Code:   exitErr.ExitCode(),
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}
	return text, fmt.Errorf("%s: %w", name, waitErr)
}

func killGroup(pid int) {
	pgid, err := syscall.Getpgid(pid)
	if err == nil {
		syscall.Kill(-pgid, syscall.SIGKILL)
		return
	}
	syscall.Kill(pid, syscall.SIGKILL)
}

// Normalize returns the platform form of a binary name: ".exe" appended on
// Windows, stripped elsewhere.
func Normalize(bin string) string {
	if runtime.GOOS == "windows" {
		if strings.HasSuffix(bin, ".exe") {
			return bin
		}
		return bin + ".exe"
	}
	return strings.TrimSuffix(bin, ".exe")
}
