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
	"clipcutter/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

// extractContext holds test state for audio and muted video scenarios
type extractContext struct {
	sharedDir string
	executor  *recordingExecutor
	output    *bytes.Buffer
	err       error
}

// SharedExtractContext is reset around each scenario via Before/After hooks
var SharedExtractContext *extractContext

func getExtractContext() *extractContext {
	return SharedExtractContext
}

func InitializeExtractScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "extract-test-*")
		if err != nil {
			return c, err
		}
		SharedExtractContext = &extractContext{
			sharedDir: dir,
			executor:  newRecordingExecutor(),
			output:    &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedExtractContext != nil && SharedExtractContext.sharedDir != "" {
			os.RemoveAll(SharedExtractContext.sharedDir)
		}
		SharedExtractContext = nil
		return c, nil
	})

	ctx.Step(`^a shared media folder containing "([^"]*)"$`, aSharedMediaFolderContaining)
	ctx.Step(`^I extract audio from "([^"]*)" to "([^"]*)"$`, iExtractAudioFromTo)
	ctx.Step(`^I extract audio from "([^"]*)" to "([^"]*)" as "([^"]*)" at "([^"]*)"$`, iExtractAudioFromToAsAt)
	ctx.Step(`^I attempt to extract audio from "([^"]*)" to "([^"]*)" as "([^"]*)"$`, iAttemptToExtractAudioFromToAs)
	ctx.Step(`^I extract muted video from "([^"]*)" to "([^"]*)"$`, iExtractMutedVideoFromTo)
	ctx.Step(`^the extraction output should be "([^"]*)"$`, theExtractionOutputShouldBe)
	ctx.Step(`^ffmpeg should have been called with extraction arguments:$`, ffmpegShouldHaveBeenCalledWithExtractionArguments)
	ctx.Step(`^the extraction should fail with "([^"]*)"$`, theExtractionShouldFailWith)
}

func aSharedMediaFolderContaining(name string) error {
	e := getExtractContext()
	return os.WriteFile(filepath.Join(e.sharedDir, name), []byte("video"), 0644)
}

func iExtractAudioFromTo(input, output string) error {
	e := getExtractContext()
	e.err = cmd.RunExtractAudioWithDependencies(
		context.Background(),
		filesystem.NewRoot(e.sharedDir),
		e.executor,
		filesystem.NewChecker(),
		input,
		output,
		"",
		"",
		e.output,
	)
	if e.err != nil {
		return fmt.Errorf("unexpected error: %v", e.err)
	}
	return nil
}

func iExtractAudioFromToAsAt(input, output, format, bitrate string) error {
	e := getExtractContext()
	e.err = cmd.RunExtractAudioWithDependencies(
		context.Background(),
		filesystem.NewRoot(e.sharedDir),
		e.executor,
		filesystem.NewChecker(),
		input,
		output,
		format,
		bitrate,
		e.output,
	)
	if e.err != nil {
		return fmt.Errorf("unexpected error: %v", e.err)
	}
	return nil
}

func iAttemptToExtractAudioFromToAs(input, output, format string) error {
	e := getExtractContext()
	e.err = cmd.RunExtractAudioWithDependencies(
		context.Background(),
		filesystem.NewRoot(e.sharedDir),
		e.executor,
		filesystem.NewChecker(),
		input,
		output,
		format,
		"",
		e.output,
	)
	return nil
}

func iExtractMutedVideoFromTo(input, output string) error {
	e := getExtractContext()
	e.err = cmd.RunExtractVideoWithDependencies(
		context.Background(),
		filesystem.NewRoot(e.sharedDir),
		e.executor,
		filesystem.NewChecker(),
		input,
		output,
		e.output,
	)
	if e.err != nil {
		return fmt.Errorf("unexpected error: %v", e.err)
	}
	return nil
}

func theExtractionOutputShouldBe(expected string) error {
	e := getExtractContext()
	if len(e.executor.calls) == 0 {
		return fmt.Errorf("ffmpeg was not called")
	}
	got := filepath.Base(e.executor.calls[0].outputPath)
	if got != expected {
		return fmt.Errorf("expected output file %q, got %q", expected, got)
	}
	return nil
}

func ffmpegShouldHaveBeenCalledWithExtractionArguments(table *godog.Table) error {
	e := getExtractContext()
	if len(e.executor.calls) == 0 {
		return fmt.Errorf("ffmpeg was not called")
	}

	call := e.executor.calls[0]
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

func theExtractionShouldFailWith(fragment string) error {
	e := getExtractContext()
	if e.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(e.err.Error(), fragment) {
		return fmt.Errorf("expected error containing %q, got: %v", fragment, e.err)
	}
	if len(e.executor.calls) != 0 {
		return fmt.Errorf("ffmpeg should not have been called, got %d calls", len(e.executor.calls))
	}
	return nil
}
