package batch

import (
	"clipcutter/domain/cutlist"
	"clipcutter/domain/video"
)

// Item is one unit of work in a batch. Implementations carry their raw
// request fields and build their operation on demand, so an invalid field
// fails that item alone when the batch runs instead of aborting the parse
// or the surrounding items.
type Item interface {
	// OutputBase returns the requested output name without any
	// operation extension
	OutputBase() string

	// Operation validates the item's fields and builds its operation
	Operation() (video.Operation, error)

	// Range returns the raw start and end strings, or empty strings
	// when the item has no time range
	Range() (start, end string)
}

// TrimItem cuts one named segment out of the input file
type TrimItem struct {
	Start  string
	End    string
	Output string
}

// OutputBase implements Item
func (i TrimItem) OutputBase() string { return i.Output }

// Operation implements Item
func (i TrimItem) Operation() (video.Operation, error) {
	return video.ParseTrim(i.Start, i.End)
}

// Range implements Item
func (i TrimItem) Range() (string, string) { return i.Start, i.End }

// ExtractAudioItem strips the video stream from the input file
type ExtractAudioItem struct {
	Format  string
	Bitrate string
	Output  string
}

// OutputBase implements Item
func (i ExtractAudioItem) OutputBase() string { return i.Output }

// Operation implements Item
func (i ExtractAudioItem) Operation() (video.Operation, error) {
	return video.NewAudioExtraction(i.Format, i.Bitrate)
}

// Range implements Item
func (i ExtractAudioItem) Range() (string, string) { return "", "" }

// MutedVideoItem copies the video stream of the input file with the audio removed
type MutedVideoItem struct {
	Output string
}

// OutputBase implements Item
func (i MutedVideoItem) OutputBase() string { return i.Output }

// Operation implements Item
func (i MutedVideoItem) Operation() (video.Operation, error) {
	return video.MutedVideo{}, nil
}

// Range implements Item
func (i MutedVideoItem) Range() (string, string) { return "", "" }

// ItemsFromSegments converts parsed cutlist segments into trim items,
// preserving their order
func ItemsFromSegments(segments []cutlist.Segment) []Item {
	items := make([]Item, len(segments))
	for i, seg := range segments {
		items[i] = TrimItem{
			Start:  seg.Start,
			End:    seg.End,
			Output: seg.Output,
		}
	}
	return items
}

// Compile-time checks that every item type satisfies Item
var (
	_ Item = TrimItem{}
	_ Item = ExtractAudioItem{}
	_ Item = MutedVideoItem{}
)
