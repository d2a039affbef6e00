package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"

	"clipcutter/domain/video"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	// Run executes a command and returns its captured stderr along with any error
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	// Output executes a command and returns its stdout
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command, capturing stderr for diagnostics
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// Runner implements video.Executor by invoking ffmpeg as a blocking subprocess
type Runner struct {
	ffmpegPath string
	runner     CommandRunner
}

// RunnerOption is a functional option for configuring Runner
type RunnerOption func(*Runner)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) RunnerOption {
	return func(r *Runner) {
		r.ffmpegPath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) RunnerOption {
	return func(r *Runner) {
		r.runner = runner
	}
}

// NewRunner creates a new ffmpeg-backed executor
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Execute implements video.Executor. The call blocks until ffmpeg exits;
// on a non-zero exit the tail of the captured stderr is logged and the
// error returned for the caller to record.
func (r *Runner) Execute(ctx context.Context, op video.Operation, inputPath, outputPath string) error {
	stderr, err := r.runner.Run(ctx, r.ffmpegPath, op.Args(inputPath, outputPath)...)
	if err != nil {
		log.Printf("FFmpeg %s failed: %v | stderr: %s", op.Kind(), err, tail(stderr, 1000))
		return fmt.Errorf("ffmpeg %s failed: %w", op.Kind(), err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (r *Runner) VerifyInstalled(ctx context.Context) error {
	_, err := r.runner.Output(ctx, r.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// tail returns the last n bytes of b
func tail(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}

// Ensure Runner implements video.Executor
var _ video.Executor = (*Runner)(nil)
