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
	"clipcutter/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	output     *bytes.Buffer
	err        error
	loadErr    error
}

// SharedConfigContext is reset around each scenario via Before/After hooks
var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config.yaml")
		testCtx.cfg = nil
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		testCtx.loadErr = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		*testCtx = configContext{}
		return c, nil
	})

	ctx.Step(`^a configuration file containing:$`, testCtx.aConfigurationFileContaining)
	ctx.Step(`^a saved default configuration$`, testCtx.aSavedDefaultConfiguration)
	ctx.Step(`^no configuration file exists$`, testCtx.noConfigurationFileExists)
	ctx.Step(`^I load the configuration$`, testCtx.iLoadTheConfiguration)
	ctx.Step(`^I attempt to load the configuration$`, testCtx.iAttemptToLoadTheConfiguration)
	ctx.Step(`^the loaded shared folder should be "([^"]*)"$`, testCtx.theLoadedSharedFolderShouldBe)
	ctx.Step(`^the loaded listen address should be "([^"]*)"$`, testCtx.theLoadedListenAddressShouldBe)
	ctx.Step(`^I should receive an error about missing configuration$`, testCtx.iShouldReceiveAnErrorAboutMissingConfiguration)
	ctx.Step(`^I show the configuration$`, testCtx.iShowTheConfiguration)
	ctx.Step(`^I get the configuration key "([^"]*)"$`, testCtx.iGetTheConfigurationKey)
	ctx.Step(`^I set the configuration key "([^"]*)" to "([^"]*)"$`, testCtx.iSetTheConfigurationKeyTo)
	ctx.Step(`^I attempt to set the configuration key "([^"]*)" to "([^"]*)"$`, testCtx.iAttemptToSetTheConfigurationKeyTo)
	ctx.Step(`^the configuration output should contain "([^"]*)"$`, testCtx.theConfigurationOutputShouldContain)
	ctx.Step(`^the configuration change should fail with "([^"]*)"$`, testCtx.theConfigurationChangeShouldFailWith)
	ctx.Step(`^the saved configuration key "([^"]*)" should be "([^"]*)"$`, testCtx.theSavedConfigurationKeyShouldBe)
}

func (c *configContext) aConfigurationFileContaining(doc *godog.DocString) error {
	return os.WriteFile(c.configPath, []byte(doc.Content+"\n"), 0644)
}

func (c *configContext) aSavedDefaultConfiguration() error {
	cfg := config.Default()
	if err := config.Save(cfg, c.configPath); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *configContext) noConfigurationFileExists() error {
	return nil
}

func (c *configContext) iLoadTheConfiguration() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("unexpected error loading config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func (c *configContext) iAttemptToLoadTheConfiguration() error {
	cfg, err := config.Load(c.configPath)
	c.cfg = cfg
	c.loadErr = err
	return nil
}

func (c *configContext) theLoadedSharedFolderShouldBe(expected string) error {
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	if c.cfg.Paths.SharedDir != expected {
		return fmt.Errorf("expected shared folder %q, got %q", expected, c.cfg.Paths.SharedDir)
	}
	return nil
}

func (c *configContext) theLoadedListenAddressShouldBe(expected string) error {
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	if c.cfg.Server.Listen != expected {
		return fmt.Errorf("expected listen address %q, got %q", expected, c.cfg.Server.Listen)
	}
	return nil
}

func (c *configContext) iShouldReceiveAnErrorAboutMissingConfiguration() error {
	if c.loadErr == nil {
		return fmt.Errorf("expected an error but got none")
	}
	return nil
}

func (c *configContext) iShowTheConfiguration() error {
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	c.err = cmd.RunConfigShowWithDependencies(c.cfg, c.configPath, c.output)
	if c.err != nil {
		return fmt.Errorf("unexpected error: %v", c.err)
	}
	return nil
}

func (c *configContext) iGetTheConfigurationKey(key string) error {
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	c.err = cmd.RunConfigGetWithDependencies(c.cfg, c.configPath, key, c.output)
	if c.err != nil {
		return fmt.Errorf("unexpected error: %v", c.err)
	}
	return nil
}

func (c *configContext) iSetTheConfigurationKeyTo(key, value string) error {
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	c.err = cmd.RunConfigSetWithDependencies(c.cfg, c.configPath, key, value, c.output)
	if c.err != nil {
		return fmt.Errorf("unexpected error: %v", c.err)
	}
	return nil
}

func (c *configContext) iAttemptToSetTheConfigurationKeyTo(key, value string) error {
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	c.err = cmd.RunConfigSetWithDependencies(c.cfg, c.configPath, key, value, c.output)
	return nil
}

func (c *configContext) theConfigurationOutputShouldContain(fragment string) error {
	if !strings.Contains(c.output.String(), fragment) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", fragment, c.output.String())
	}
	return nil
}

func (c *configContext) theConfigurationChangeShouldFailWith(fragment string) error {
	if c.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(c.err.Error(), fragment) {
		return fmt.Errorf("expected error containing %q, got: %v", fragment, c.err)
	}
	return nil
}

func (c *configContext) theSavedConfigurationKeyShouldBe(key, expected string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	mgr := config.NewManager(cfg, c.configPath)
	value, err := mgr.Get(key)
	if err != nil {
		return err
	}
	if value != expected {
		return fmt.Errorf("expected %s to be %q, got %q", key, expected, value)
	}
	return nil
}
