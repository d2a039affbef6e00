package batch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"clipcutter/domain/cutlist"
	"clipcutter/domain/video"
	"clipcutter/infrastructure/filesystem"
)

// CompletionMessage is reported when a batch has run every item. It
// describes orchestration completion, not universal success: individual
// outcomes carry their own success flags.
const CompletionMessage = "Processing complete"

// Outcome records the result of one item
type Outcome struct {
	OutputFile string `json:"output_file"`
	Success    bool   `json:"success"`
	Start      string `json:"start,omitempty"`
	End        string `json:"end,omitempty"`
}

// Result aggregates the outcomes of one batch, in input order
type Result struct {
	Message string    `json:"message"`
	Results []Outcome `json:"results"`
}

// Succeeded returns how many outcomes succeeded
func (r *Result) Succeeded() int {
	n := 0
	for _, oc := range r.Results {
		if oc.Success {
			n++
		}
	}
	return n
}

// Orchestrator runs batches of media operations against a shared root.
// A batch of N items always yields exactly N outcomes in input order:
// item failures are recorded, never propagated.
type Orchestrator struct {
	root        filesystem.Root
	executor    video.Executor
	fileChecker video.FileChecker
	concurrency int
}

// Option is a functional option for configuring the Orchestrator
type Option func(*Orchestrator)

// WithConcurrency bounds how many external tool invocations run at once.
// The default of 1 processes items strictly sequentially.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(root filesystem.Root, executor video.Executor, fileChecker video.FileChecker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		root:        root,
		executor:    executor,
		fileChecker: fileChecker,
		concurrency: 1,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run executes items against inputFile, writing outputs under outputFolder.
// The input must exist before any directory is created or any tool runs;
// after that every item is executed and recorded regardless of how many fail.
func (o *Orchestrator) Run(ctx context.Context, inputFile, outputFolder string, items []Item) (*Result, error) {
	return o.run(ctx, uuid.New().String(), inputFile, outputFolder, items)
}

// RunCutlist parses the cutlist at cutlistFile and trims one segment per
// well-formed line. Both the input and the cutlist must exist before any
// work starts. Malformed lines are dropped; the drop count is logged so
// the loss is visible.
func (o *Orchestrator) RunCutlist(ctx context.Context, inputFile, cutlistFile, outputFolder string) (*Result, error) {
	runID := uuid.New().String()

	inputPath, err := o.root.Resolve(inputFile)
	if err != nil {
		return nil, err
	}
	cutlistPath, err := o.root.Resolve(cutlistFile)
	if err != nil {
		return nil, err
	}
	if !o.fileChecker.Exists(inputPath) {
		return nil, fmt.Errorf("input file %s: %w", inputFile, filesystem.ErrNotFound)
	}
	if !o.fileChecker.Exists(cutlistPath) {
		return nil, fmt.Errorf("cutlist file %s: %w", cutlistFile, filesystem.ErrNotFound)
	}

	segments, skipped, err := cutlist.ParseFile(cutlistPath)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Printf("Batch %s: dropped %d malformed lines from cutlist %s", runID, skipped, cutlistFile)
	}

	return o.run(ctx, runID, inputFile, outputFolder, ItemsFromSegments(segments))
}

func (o *Orchestrator) run(ctx context.Context, runID, inputFile, outputFolder string, items []Item) (*Result, error) {
	inputPath, err := o.root.Resolve(inputFile)
	if err != nil {
		return nil, err
	}
	if !o.fileChecker.Exists(inputPath) {
		return nil, fmt.Errorf("input file %s: %w", inputFile, filesystem.ErrNotFound)
	}

	if outputFolder == "" {
		outputFolder = "."
	}
	if _, err := o.root.EnsureDir(outputFolder); err != nil {
		return nil, err
	}

	log.Printf("Batch %s: processing %d items from %s", runID, len(items), inputFile)

	outcomes := make([]Outcome, len(items))
	if o.concurrency > 1 && len(items) > 1 {
		sem := make(chan struct{}, o.concurrency)
		var wg sync.WaitGroup
		for i, item := range items {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, item Item) {
				defer wg.Done()
				defer func() { <-sem }()
				outcomes[i] = o.runItem(ctx, runID, i, item, inputPath, outputFolder)
			}(i, item)
		}
		wg.Wait()
	} else {
		for i, item := range items {
			outcomes[i] = o.runItem(ctx, runID, i, item, inputPath, outputFolder)
		}
	}

	result := &Result{Message: CompletionMessage, Results: outcomes}
	log.Printf("Batch %s: finished, %d/%d items succeeded", runID, result.Succeeded(), len(items))

	return result, nil
}

// runItem produces exactly one outcome. Validation failures and tool
// failures both land here as Success=false; nothing escapes as an error.
func (o *Orchestrator) runItem(ctx context.Context, runID string, index int, item Item, inputPath, outputFolder string) Outcome {
	start, end := item.Range()
	outcome := Outcome{Start: start, End: end}

	name := item.OutputBase()
	op, opErr := item.Operation()
	if opErr == nil && filepath.Ext(name) == "" {
		name += op.OutputExt()
	}

	// Check the bare name: joining onto the folder would clean a climbing
	// name like ../x back under the root.
	if !filepath.IsLocal(name) {
		outcome.OutputFile = name
		log.Printf("Batch %s: item %d (%s) rejected: %v", runID, index+1, name, filesystem.ErrOutsideRoot)
		return outcome
	}
	outcome.OutputFile = filepath.Join(outputFolder, name)

	if opErr != nil {
		log.Printf("Batch %s: item %d (%s) rejected: %v", runID, index+1, name, opErr)
		return outcome
	}

	outputPath, err := o.root.Resolve(outcome.OutputFile)
	if err != nil {
		log.Printf("Batch %s: item %d (%s) rejected: %v", runID, index+1, name, err)
		return outcome
	}

	if err := o.executor.Execute(ctx, op, inputPath, outputPath); err != nil {
		log.Printf("Batch %s: item %d (%s) failed: %v", runID, index+1, name, err)
		return outcome
	}

	outcome.Success = true
	return outcome
}
