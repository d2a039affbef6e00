package video

import "fmt"

// DefaultAudioBitrate is the default bitrate for lossy audio extraction
const DefaultAudioBitrate = "192k"

// Supported audio extraction formats
const (
	FormatMP3 = "mp3"
	FormatWAV = "wav"
)

// AudioExtraction strips the video stream and writes audio only.
// Format selects the codec: mp3 uses libmp3lame at Bitrate, wav uses
// uncompressed PCM and ignores Bitrate.
type AudioExtraction struct {
	Format  string
	Bitrate string
}

// NewAudioExtraction creates an AudioExtraction operation, rejecting
// unsupported formats before any external tool is involved. An empty
// format defaults to mp3 and an empty bitrate to DefaultAudioBitrate.
func NewAudioExtraction(format, bitrate string) (AudioExtraction, error) {
	if format == "" {
		format = FormatMP3
	}
	if format != FormatMP3 && format != FormatWAV {
		return AudioExtraction{}, fmt.Errorf("%w %q: supported formats are mp3, wav", ErrUnsupportedFormat, format)
	}

	if bitrate == "" {
		bitrate = DefaultAudioBitrate
	}

	return AudioExtraction{Format: format, Bitrate: bitrate}, nil
}

// Kind implements Operation
func (a AudioExtraction) Kind() Kind { return KindExtractAudio }

// OutputExt implements Operation
func (a AudioExtraction) OutputExt() string { return "." + a.Format }

// Args implements Operation
func (a AudioExtraction) Args(inputPath, outputPath string) []string {
	args := []string{
		"-i", inputPath,
		"-vn", // No video
	}

	switch a.Format {
	case FormatWAV:
		args = append(args, "-acodec", "pcm_s16le")
	default:
		args = append(args, "-acodec", "libmp3lame", "-ab", a.Bitrate)
	}

	return append(args,
		"-y", // Overwrite output file if it exists
		outputPath,
	)
}

// Ensure AudioExtraction implements Operation
var _ Operation = AudioExtraction{}
