package cmd

import (
	"context"
	"fmt"
	"os"

	"clipcutter/application/extract"
	"clipcutter/domain/video"
	"clipcutter/infrastructure/ffmpeg"
	"clipcutter/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	extractVideoInput  string
	extractVideoOutput string
)

var extractVideoCmd = &cobra.Command{
	Use:   "extract-video",
	Short: "Extract a muted copy of a video file",
	Long: `Copy the video stream of a file with the audio track removed.

The video stream is copied without re-encoding, so this is fast and
lossless. Paths are relative to the configured shared folder.

Example:
  clipcutter extract-video --input recording.mp4 --output silent/recording`,
	RunE: runExtractVideo,
}

func init() {
	rootCmd.AddCommand(extractVideoCmd)
	extractVideoCmd.Flags().StringVar(&extractVideoInput, "input", "", "Input video, relative to the shared folder (required)")
	extractVideoCmd.Flags().StringVar(&extractVideoOutput, "output", "", "Output file, relative to the shared folder (required)")
	extractVideoCmd.MarkFlagRequired("input")
	extractVideoCmd.MarkFlagRequired("output")
}

func runExtractVideo(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'clipcutter setup' or pass --config")
	}

	runner := ffmpeg.NewRunner(ffmpeg.WithFFmpegPath(cfg.FFmpeg.Path))
	fileChecker := filesystem.NewChecker()
	root := filesystem.NewRoot(cfg.Paths.SharedDir)

	return RunExtractVideoWithDependencies(
		cmd.Context(),
		root,
		runner,
		fileChecker,
		extractVideoInput,
		extractVideoOutput,
		os.Stdout,
	)
}

// RunExtractVideoWithDependencies runs the extract-video command with injected dependencies (for testing)
func RunExtractVideoWithDependencies(
	ctx context.Context,
	root filesystem.Root,
	executor video.Executor,
	fileChecker video.FileChecker,
	inputFile string,
	outputFile string,
	output OutputWriter,
) error {
	if err := verifyExecutor(ctx, executor); err != nil {
		return err
	}

	service := extract.NewService(root, executor, fileChecker)

	fmt.Fprintf(output, "Extracting muted video from %s...\n", inputFile)

	result, err := service.ExtractMutedVideo(ctx, inputFile, outputFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Successfully created: %s\n", result.OutputFile)
	return nil
}
