package video

import "errors"

// ErrUnsupportedFormat is returned when an audio extraction format is not supported
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Kind identifies an operation variant
type Kind string

const (
	KindTrim              Kind = "trim"
	KindExtractAudio      Kind = "extract-audio"
	KindExtractMutedVideo Kind = "extract-muted-video"
)

// Operation describes one transformation of an input media file into one
// output file. Each variant knows the argument list for the external tool
// and the file extension its outputs carry. New variants can be added
// without touching the batch orchestration code.
type Operation interface {
	// Kind identifies the operation variant
	Kind() Kind

	// OutputExt returns the extension (including the dot) appended to
	// output names that do not already carry one
	OutputExt() string

	// Args builds the full external tool argument list for this operation
	Args(inputPath, outputPath string) []string
}
