//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clipcutter/cmd"
	"clipcutter/domain/video"
	"clipcutter/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

// recordingExecutor implements video.Executor, recording every invocation
// instead of running ffmpeg. Failures can be injected per output base name.
type recordingExecutor struct {
	calls   []executorCall
	failFor map[string]error
}

type executorCall struct {
	op         video.Operation
	inputPath  string
	outputPath string
	args       []string
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{failFor: make(map[string]error)}
}

func (m *recordingExecutor) Execute(ctx context.Context, op video.Operation, inputPath, outputPath string) error {
	m.calls = append(m.calls, executorCall{
		op:         op,
		inputPath:  inputPath,
		outputPath: outputPath,
		args:       op.Args(inputPath, outputPath),
	})
	if err, ok := m.failFor[filepath.Base(outputPath)]; ok {
		return err
	}
	return nil
}

// trimContext holds test state for trim scenarios
type trimContext struct {
	sharedDir string
	executor  *recordingExecutor
	output    *bytes.Buffer
	err       error
}

// SharedTrimContext is reset around each scenario via Before/After hooks
var SharedTrimContext *trimContext

func getTrimContext() *trimContext {
	return SharedTrimContext
}

func InitializeTrimScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "trim-test-*")
		if err != nil {
			return c, err
		}
		SharedTrimContext = &trimContext{
			sharedDir: dir,
			executor:  newRecordingExecutor(),
			output:    &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedTrimContext != nil && SharedTrimContext.sharedDir != "" {
			os.RemoveAll(SharedTrimContext.sharedDir)
		}
		SharedTrimContext = nil
		return c, nil
	})

	ctx.Step(`^a shared folder containing "([^"]*)"$`, aSharedFolderContaining)
	ctx.Step(`^I trim "([^"]*)" from "([^"]*)" to "([^"]*)" into "([^"]*)"$`, iTrimFromToInto)
	ctx.Step(`^I attempt to trim "([^"]*)" from "([^"]*)" to "([^"]*)" into "([^"]*)"$`, iAttemptToTrimFromToInto)
	ctx.Step(`^the trim output should be "([^"]*)"$`, theTrimOutputShouldBe)
	ctx.Step(`^ffmpeg should have been called with trim arguments:$`, ffmpegShouldHaveBeenCalledWithTrimArguments)
	ctx.Step(`^the trim should fail with "([^"]*)"$`, theTrimShouldFailWith)
}

func aSharedFolderContaining(name string) error {
	t := getTrimContext()
	return os.WriteFile(filepath.Join(t.sharedDir, name), []byte("video"), 0644)
}

func iTrimFromToInto(input, start, end, output string) error {
	t := getTrimContext()
	t.err = cmd.RunTrimWithDependencies(
		context.Background(),
		filesystem.NewRoot(t.sharedDir),
		t.executor,
		filesystem.NewChecker(),
		input,
		start,
		end,
		output,
		t.output,
	)
	if t.err != nil {
		return fmt.Errorf("unexpected error: %v", t.err)
	}
	return nil
}

func iAttemptToTrimFromToInto(input, start, end, output string) error {
	t := getTrimContext()
	t.err = cmd.RunTrimWithDependencies(
		context.Background(),
		filesystem.NewRoot(t.sharedDir),
		t.executor,
		filesystem.NewChecker(),
		input,
		start,
		end,
		output,
		t.output,
	)
	return nil
}

func theTrimOutputShouldBe(expected string) error {
	t := getTrimContext()
	if len(t.executor.calls) == 0 {
		return fmt.Errorf("ffmpeg was not called")
	}
	got := filepath.Base(t.executor.calls[0].outputPath)
	if got != expected {
		return fmt.Errorf("expected output file %q, got %q", expected, got)
	}
	if !strings.Contains(t.output.String(), expected) {
		return fmt.Errorf("expected command output to mention %q, got: %s", expected, t.output.String())
	}
	return nil
}

func ffmpegShouldHaveBeenCalledWithTrimArguments(table *godog.Table) error {
	t := getTrimContext()
	if len(t.executor.calls) == 0 {
		return fmt.Errorf("ffmpeg was not called")
	}

	call := t.executor.calls[0]
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		expectedArg := row.Cells[0].Value
		found := false
		for _, arg := range call.args {
			if arg == expectedArg {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("expected argument %q not found in ffmpeg call: %v", expectedArg, call.args)
		}
	}
	return nil
}

func theTrimShouldFailWith(fragment string) error {
	t := getTrimContext()
	if t.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(t.err.Error(), fragment) {
		return fmt.Errorf("expected error containing %q, got: %v", fragment, t.err)
	}
	if len(t.executor.calls) != 0 {
		return fmt.Errorf("ffmpeg should not have been called, got %d calls", len(t.executor.calls))
	}
	return nil
}
