package cmd

import (
	"fmt"
	"os"

	"clipcutter/infrastructure/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "clipcutter",
	Short: "Cut video segments and extract tracks from files in a shared folder",
	Long: `clipcutter drives ffmpeg against a shared folder to cut video
segments and extract tracks:

  - Trim a segment by start/end timestamps (HH:MM:SS)
  - Cut a whole batch of segments described by a cutlist file
  - Extract the audio track as mp3 or wav
  - Strip the audio track for a muted copy
  - Serve all of the above over HTTP

Example:
  clipcutter cut --input recording.mp4 --cutlist cuts.txt --output-folder clips`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	// A .env file may carry CLIPCUTTER_* overrides; a missing one is fine.
	_ = godotenv.Load()

	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	loaded, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		// Config file is unreadable or malformed. Commands that need config
		// will check and error appropriately.
		cfg = nil
		return
	}
	cfg = loaded
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}
