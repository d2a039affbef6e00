package video

import "fmt"

// Trim re-encodes the segment between Start and End into a new video file.
// Both streams are re-encoded so cuts land on exact timestamps rather than
// the nearest keyframe.
type Trim struct {
	Start Timestamp
	End   Timestamp
}

// NewTrim creates a Trim operation, rejecting ranges that do not end after they start
func NewTrim(start, end Timestamp) (Trim, error) {
	if !end.After(start) {
		return Trim{}, fmt.Errorf("end time %s must be after start time %s", end, start)
	}
	return Trim{Start: start, End: end}, nil
}

// ParseTrim creates a Trim operation from raw HH:MM:SS strings
func ParseTrim(start, end string) (Trim, error) {
	s, err := ParseTimestamp(start)
	if err != nil {
		return Trim{}, fmt.Errorf("invalid start time: %w", err)
	}

	e, err := ParseTimestamp(end)
	if err != nil {
		return Trim{}, fmt.Errorf("invalid end time: %w", err)
	}

	return NewTrim(s, e)
}

// Kind implements Operation
func (t Trim) Kind() Kind { return KindTrim }

// OutputExt implements Operation
func (t Trim) OutputExt() string { return ".mp4" }

// Args implements Operation
func (t Trim) Args(inputPath, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-ss", t.Start.String(),
		"-to", t.End.String(),
		"-c:v", "libx264",
		"-preset", "medium",
		"-c:a", "aac",
		"-y", // Overwrite output file if it exists
		outputPath,
	}
}

// Ensure Trim implements Operation
var _ Operation = Trim{}
