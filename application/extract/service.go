package extract

import (
	"context"
	"fmt"
	"path/filepath"

	"clipcutter/domain/video"
	"clipcutter/infrastructure/filesystem"
)

// Service runs single media operations against the shared root. Unlike a
// batch, there is only one item, so a failure comes back as an error with
// a message the caller can present.
type Service struct {
	root        filesystem.Root
	executor    video.Executor
	fileChecker video.FileChecker
}

// NewService creates a new extract Service
func NewService(root filesystem.Root, executor video.Executor, fileChecker video.FileChecker) *Service {
	return &Service{
		root:        root,
		executor:    executor,
		fileChecker: fileChecker,
	}
}

// Result reports the single output produced
type Result struct {
	OutputFile string `json:"output_file"`
	Success    bool   `json:"success"`
}

// Trim cuts the range between start and end (HH:MM:SS) out of inputFile
// into outputFile
func (s *Service) Trim(ctx context.Context, inputFile, start, end, outputFile string) (*Result, error) {
	op, err := video.ParseTrim(start, end)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, op, inputFile, outputFile)
}

// ExtractAudio strips the video stream of inputFile into outputFile.
// Supported formats are mp3 and wav; an empty format means mp3.
func (s *Service) ExtractAudio(ctx context.Context, inputFile, outputFile, format, bitrate string) (*Result, error) {
	op, err := video.NewAudioExtraction(format, bitrate)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, op, inputFile, outputFile)
}

// ExtractMutedVideo copies the video stream of inputFile into outputFile
// with the audio removed
func (s *Service) ExtractMutedVideo(ctx context.Context, inputFile, outputFile string) (*Result, error) {
	return s.execute(ctx, video.MutedVideo{}, inputFile, outputFile)
}

func (s *Service) execute(ctx context.Context, op video.Operation, inputFile, outputFile string) (*Result, error) {
	inputPath, err := s.root.Resolve(inputFile)
	if err != nil {
		return nil, err
	}
	if !s.fileChecker.Exists(inputPath) {
		return nil, fmt.Errorf("input file %s: %w", inputFile, filesystem.ErrNotFound)
	}

	if filepath.Ext(outputFile) == "" {
		outputFile += op.OutputExt()
	}
	outputPath, err := s.root.Resolve(outputFile)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(outputFile); dir != "." {
		if _, err := s.root.EnsureDir(dir); err != nil {
			return nil, err
		}
	}

	if err := s.executor.Execute(ctx, op, inputPath, outputPath); err != nil {
		return nil, err
	}

	return &Result{OutputFile: outputFile, Success: true}, nil
}
