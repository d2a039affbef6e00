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
	extractAudioInput   string
	extractAudioOutput  string
	extractAudioFormat  string
	extractAudioBitrate string
)

var extractAudioCmd = &cobra.Command{
	Use:   "extract-audio",
	Short: "Extract the audio track from a video file",
	Long: `Extract the audio track from a video file as mp3 or wav.

Paths are relative to the configured shared folder. When the output name
has no extension, the format's extension is appended.

Example:
  clipcutter extract-audio --input recording.mp4 --output audio/sermon
  clipcutter extract-audio --input recording.mp4 --output audio/sermon --format wav`,
	RunE: runExtractAudio,
}

func init() {
	rootCmd.AddCommand(extractAudioCmd)
	extractAudioCmd.Flags().StringVar(&extractAudioInput, "input", "", "Input video, relative to the shared folder (required)")
	extractAudioCmd.Flags().StringVar(&extractAudioOutput, "output", "", "Output file, relative to the shared folder (required)")
	extractAudioCmd.Flags().StringVar(&extractAudioFormat, "format", "", "Audio format: mp3 or wav (default mp3)")
	extractAudioCmd.Flags().StringVar(&extractAudioBitrate, "bitrate", "", "Audio bitrate for mp3 (default from config or 192k)")
	extractAudioCmd.MarkFlagRequired("input")
	extractAudioCmd.MarkFlagRequired("output")
}

func runExtractAudio(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'clipcutter setup' or pass --config")
	}

	bitrate := extractAudioBitrate
	if bitrate == "" {
		bitrate = cfg.Audio.Bitrate
	}
	if bitrate == "" {
		bitrate = video.DefaultAudioBitrate
	}

	runner := ffmpeg.NewRunner(ffmpeg.WithFFmpegPath(cfg.FFmpeg.Path))
	fileChecker := filesystem.NewChecker()
	root := filesystem.NewRoot(cfg.Paths.SharedDir)

	return RunExtractAudioWithDependencies(
		cmd.Context(),
		root,
		runner,
		fileChecker,
		extractAudioInput,
		extractAudioOutput,
		extractAudioFormat,
		bitrate,
		os.Stdout,
	)
}

// RunExtractAudioWithDependencies runs the extract-audio command with injected dependencies (for testing)
func RunExtractAudioWithDependencies(
	ctx context.Context,
	root filesystem.Root,
	executor video.Executor,
	fileChecker video.FileChecker,
	inputFile string,
	outputFile string,
	format string,
	bitrate string,
	output OutputWriter,
) error {
	if err := verifyExecutor(ctx, executor); err != nil {
		return err
	}

	service := extract.NewService(root, executor, fileChecker)

	fmt.Fprintf(output, "Extracting audio from %s...\n", inputFile)

	result, err := service.ExtractAudio(ctx, inputFile, outputFile, format, bitrate)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Successfully created: %s\n", result.OutputFile)
	return nil
}
