//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clipcutter/cmd"
	"clipcutter/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

// cutContext holds test state for cutlist batch scenarios
type cutContext struct {
	sharedDir string
	executor  *recordingExecutor
	output    *bytes.Buffer
	err       error
}

// SharedCutContext is reset around each scenario via Before/After hooks
var SharedCutContext *cutContext

func getCutContext() *cutContext {
	return SharedCutContext
}

func InitializeCutScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "cut-test-*")
		if err != nil {
			return c, err
		}
		SharedCutContext = &cutContext{
			sharedDir: dir,
			executor:  newRecordingExecutor(),
			output:    &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedCutContext != nil && SharedCutContext.sharedDir != "" {
			os.RemoveAll(SharedCutContext.sharedDir)
		}
		SharedCutContext = nil
		return c, nil
	})

	ctx.Step(`^a shared folder with a video "([^"]*)"$`, aSharedFolderWithAVideo)
	ctx.Step(`^a cutlist "([^"]*)" containing:$`, aCutlistContaining)
	ctx.Step(`^ffmpeg will fail for output "([^"]*)"$`, ffmpegWillFailForOutput)
	ctx.Step(`^I cut "([^"]*)" with cutlist "([^"]*)" into folder "([^"]*)"$`, iCutWithCutlistIntoFolder)
	ctx.Step(`^I attempt to cut "([^"]*)" with cutlist "([^"]*)" into folder "([^"]*)"$`, iAttemptToCutWithCutlistIntoFolder)
	ctx.Step(`^ffmpeg should have been invoked (\d+) times?$`, ffmpegShouldHaveBeenInvokedTimes)
	ctx.Step(`^segment "([^"]*)" should span "([^"]*)" to "([^"]*)"$`, segmentShouldSpanTo)
	ctx.Step(`^the cut report should include "([^"]*)"$`, theCutReportShouldInclude)
	ctx.Step(`^the cut should fail with "([^"]*)"$`, theCutShouldFailWith)
}

func aSharedFolderWithAVideo(name string) error {
	c := getCutContext()
	return os.WriteFile(filepath.Join(c.sharedDir, name), []byte("video"), 0644)
}

func aCutlistContaining(name string, doc *godog.DocString) error {
	c := getCutContext()
	return os.WriteFile(filepath.Join(c.sharedDir, name), []byte(doc.Content+"\n"), 0644)
}

func ffmpegWillFailForOutput(name string) error {
	c := getCutContext()
	c.executor.failFor[name] = errors.New("exit status 1")
	return nil
}

func iCutWithCutlistIntoFolder(input, cutlistFile, folder string) error {
	c := getCutContext()
	c.err = cmd.RunCutWithDependencies(
		context.Background(),
		filesystem.NewRoot(c.sharedDir),
		c.executor,
		filesystem.NewChecker(),
		1,
		input,
		cutlistFile,
		folder,
		c.output,
	)
	if c.err != nil {
		return fmt.Errorf("unexpected error: %v", c.err)
	}
	return nil
}

func iAttemptToCutWithCutlistIntoFolder(input, cutlistFile, folder string) error {
	c := getCutContext()
	c.err = cmd.RunCutWithDependencies(
		context.Background(),
		filesystem.NewRoot(c.sharedDir),
		c.executor,
		filesystem.NewChecker(),
		1,
		input,
		cutlistFile,
		folder,
		c.output,
	)
	return nil
}

func ffmpegShouldHaveBeenInvokedTimes(count int) error {
	c := getCutContext()
	if len(c.executor.calls) != count {
		return fmt.Errorf("expected %d ffmpeg invocations, got %d", count, len(c.executor.calls))
	}
	return nil
}

func segmentShouldSpanTo(name, start, end string) error {
	c := getCutContext()
	for _, call := range c.executor.calls {
		if filepath.Base(call.outputPath) != name {
			continue
		}
		if !argsContainPair(call.args, "-ss", start) {
			return fmt.Errorf("expected -ss %s for %s, got args: %v", start, name, call.args)
		}
		if !argsContainPair(call.args, "-to", end) {
			return fmt.Errorf("expected -to %s for %s, got args: %v", end, name, call.args)
		}
		return nil
	}
	return fmt.Errorf("no ffmpeg call produced %s", name)
}

func argsContainPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func theCutReportShouldInclude(fragment string) error {
	c := getCutContext()
	if !strings.Contains(c.output.String(), fragment) {
		return fmt.Errorf("expected report to include %q, got:\n%s", fragment, c.output.String())
	}
	return nil
}

func theCutShouldFailWith(fragment string) error {
	c := getCutContext()
	if c.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(c.err.Error(), fragment) {
		return fmt.Errorf("expected error containing %q, got: %v", fragment, c.err)
	}
	return nil
}
