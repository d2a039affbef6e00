package video

// MutedVideo strips the audio stream and copies the video stream without
// re-encoding, so it is cheap compared to the other operations.
type MutedVideo struct{}

// Kind implements Operation
func (MutedVideo) Kind() Kind { return KindExtractMutedVideo }

// OutputExt implements Operation
func (MutedVideo) OutputExt() string { return ".mp4" }

// Args implements Operation
func (MutedVideo) Args(inputPath, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-an", // No audio
		"-c:v", "copy",
		"-y", // Overwrite output file if it exists
		outputPath,
	}
}

// Ensure MutedVideo implements Operation
var _ Operation = MutedVideo{}
