package cutlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Segment is one named time range parsed from a cutlist line.
// Start and End are kept as raw strings so that a malformed time surfaces
// as that item's failure during execution instead of aborting the parse.
// Output is the bare name from the line; the operation that consumes the
// segment decides the extension.
type Segment struct {
	Start  string
	End    string
	Output string
}

// Parse reads a line-oriented cutlist. Each line is "start end outputName";
// blank lines and lines starting with # are ignored. Lines with any other
// token count are dropped, and the number of dropped lines is returned so
// callers can report the loss.
func Parse(r io.Reader) ([]Segment, int, error) {
	var segments []Segment
	skipped := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) != 3 {
			skipped++
			continue
		}

		segments = append(segments, Segment{
			Start:  parts[0],
			End:    parts[1],
			Output: parts[2],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading cutlist: %w", err)
	}

	return segments, skipped, nil
}

// ParseFile opens and parses the cutlist at path. The file is re-read on
// every call, so parsing the same path twice reproduces the same result.
func ParseFile(path string) ([]Segment, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening cutlist: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
