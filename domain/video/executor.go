package video

import "context"

// Executor defines the interface for running an Operation against real files
// This is a port that can be implemented by different infrastructure adapters
type Executor interface {
	// Execute runs op, reading inputPath and writing outputPath.
	// A non-zero tool exit is returned as an error, never a panic.
	Execute(ctx context.Context, op Operation, inputPath, outputPath string) error
}

// FileChecker defines the interface for checking file existence
// This is used to validate that source files exist before any work starts
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}
