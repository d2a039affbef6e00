package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"clipcutter/application/extract"
	"clipcutter/domain/video"
	"clipcutter/infrastructure/ffmpeg"
	"clipcutter/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	trimInputFile  string
	trimStartTime  string
	trimEndTime    string
	trimOutputFile string
)

var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Trim a video to specified timestamps",
	Long: `Trim a video file to the specified start and end timestamps.

Paths are relative to the configured shared folder. When the output name
has no extension, .mp4 is appended.

Example:
  clipcutter trim --input recording.mp4 --start "00:05:30" --end "01:45:00" --output clips/sermon`,
	RunE: runTrim,
}

func init() {
	rootCmd.AddCommand(trimCmd)
	trimCmd.Flags().StringVar(&trimInputFile, "input", "", "Input video, relative to the shared folder (required)")
	trimCmd.Flags().StringVar(&trimStartTime, "start", "", "Start timestamp in HH:MM:SS format (required)")
	trimCmd.Flags().StringVar(&trimEndTime, "end", "", "End timestamp in HH:MM:SS format (required)")
	trimCmd.Flags().StringVar(&trimOutputFile, "output", "", "Output file, relative to the shared folder (required)")
	trimCmd.MarkFlagRequired("input")
	trimCmd.MarkFlagRequired("start")
	trimCmd.MarkFlagRequired("end")
	trimCmd.MarkFlagRequired("output")
}

func runTrim(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'clipcutter setup' or pass --config")
	}

	runner := ffmpeg.NewRunner(ffmpeg.WithFFmpegPath(cfg.FFmpeg.Path))
	fileChecker := filesystem.NewChecker()
	root := filesystem.NewRoot(cfg.Paths.SharedDir)

	return RunTrimWithDependencies(
		cmd.Context(),
		root,
		runner,
		fileChecker,
		trimInputFile,
		trimStartTime,
		trimEndTime,
		trimOutputFile,
		os.Stdout,
	)
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// RunTrimWithDependencies runs the trim command with injected dependencies (for testing)
func RunTrimWithDependencies(
	ctx context.Context,
	root filesystem.Root,
	executor video.Executor,
	fileChecker video.FileChecker,
	inputFile string,
	startTime string,
	endTime string,
	outputFile string,
	output OutputWriter,
) error {
	if err := verifyExecutor(ctx, executor); err != nil {
		return err
	}

	service := extract.NewService(root, executor, fileChecker)

	fmt.Fprintf(output, "Trimming %s from %s to %s...\n", inputFile, startTime, endTime)

	result, err := service.Trim(ctx, inputFile, startTime, endTime, outputFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Successfully created: %s\n", result.OutputFile)
	return nil
}

// verifyExecutor runs the ffmpeg preflight check when the executor supports it
func verifyExecutor(ctx context.Context, executor video.Executor) error {
	verifiable, ok := executor.(interface{ VerifyInstalled(context.Context) error })
	if !ok {
		return nil
	}
	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
		return fmt.Errorf("ffmpeg verification failed: %w", err)
	}
	return nil
}
