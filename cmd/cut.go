package cmd

import (
	"context"
	"fmt"
	"os"

	"clipcutter/application/batch"
	"clipcutter/domain/video"
	"clipcutter/infrastructure/ffmpeg"
	"clipcutter/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	cutInputFile    string
	cutCutlistFile  string
	cutOutputFolder string
	cutConcurrency  int
)

var cutCmd = &cobra.Command{
	Use:   "cut",
	Short: "Cut video segments listed in a cutlist file",
	Long: `Cut every segment listed in a cutlist file out of one input video.

Each cutlist line is "HH:MM:SS HH:MM:SS output_name". Blank lines and
lines starting with # are skipped; malformed lines are dropped. A failing
segment does not stop the batch: every segment gets its own outcome and
the command exits non-zero if any of them failed.

Example:
  clipcutter cut --input recording.mp4 --cutlist cuts.txt --output-folder clips`,
	RunE: runCut,
}

func init() {
	rootCmd.AddCommand(cutCmd)
	cutCmd.Flags().StringVar(&cutInputFile, "input", "", "Input video, relative to the shared folder (required)")
	cutCmd.Flags().StringVar(&cutCutlistFile, "cutlist", "", "Cutlist file, relative to the shared folder (required)")
	cutCmd.Flags().StringVar(&cutOutputFolder, "output-folder", "", "Folder for the segments, relative to the shared folder")
	cutCmd.Flags().IntVar(&cutConcurrency, "concurrency", 0, "Segments to process in parallel (default from config)")
	cutCmd.MarkFlagRequired("input")
	cutCmd.MarkFlagRequired("cutlist")
}

func runCut(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'clipcutter setup' or pass --config")
	}

	concurrency := cutConcurrency
	if concurrency == 0 {
		concurrency = cfg.Batch.Concurrency
	}

	runner := ffmpeg.NewRunner(ffmpeg.WithFFmpegPath(cfg.FFmpeg.Path))
	fileChecker := filesystem.NewChecker()
	root := filesystem.NewRoot(cfg.Paths.SharedDir)

	return RunCutWithDependencies(
		cmd.Context(),
		root,
		runner,
		fileChecker,
		concurrency,
		cutInputFile,
		cutCutlistFile,
		cutOutputFolder,
		os.Stdout,
	)
}

// RunCutWithDependencies runs the cut command with injected dependencies (for testing)
func RunCutWithDependencies(
	ctx context.Context,
	root filesystem.Root,
	executor video.Executor,
	fileChecker video.FileChecker,
	concurrency int,
	inputFile string,
	cutlistFile string,
	outputFolder string,
	output OutputWriter,
) error {
	if err := verifyExecutor(ctx, executor); err != nil {
		return err
	}

	orchestrator := batch.NewOrchestrator(root, executor, fileChecker, batch.WithConcurrency(concurrency))

	fmt.Fprintf(output, "Cutting %s per %s...\n", inputFile, cutlistFile)

	result, err := orchestrator.RunCutlist(ctx, inputFile, cutlistFile, outputFolder)
	if err != nil {
		return err
	}

	if len(result.Results) == 0 {
		fmt.Fprintln(output, "Cutlist contains no segments.")
		return nil
	}

	fmt.Fprintln(output, renderOutcomeTable(result.Results))

	succeeded := result.Succeeded()
	fmt.Fprintf(output, "%d/%d segments succeeded\n", succeeded, len(result.Results))
	if succeeded < len(result.Results) {
		return fmt.Errorf("%d of %d segments failed", len(result.Results)-succeeded, len(result.Results))
	}
	return nil
}
