package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"clipcutter/domain/video"
	"clipcutter/infrastructure/filesystem"
)

// mockExecutor implements video.Executor for testing
type mockExecutor struct {
	mu          sync.Mutex
	calls       []executedCall
	failFor     map[string]error // keyed by output file base name
	delay       time.Duration
	inFlight    int
	maxInFlight int
}

type executedCall struct {
	kind       video.Kind
	inputPath  string
	outputPath string
}

func (m *mockExecutor) Execute(ctx context.Context, op video.Operation, inputPath, outputPath string) error {
	m.mu.Lock()
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--
	m.calls = append(m.calls, executedCall{kind: op.Kind(), inputPath: inputPath, outputPath: outputPath})
	return m.failFor[filepath.Base(outputPath)]
}

func (m *mockExecutor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// newTestRoot creates a temp shared root containing input.mp4
func newTestRoot(t *testing.T) (filesystem.Root, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "input.mp4"), []byte("fake video"), 0644); err != nil {
		t.Fatalf("writing input file: %v", err)
	}
	return filesystem.NewRoot(dir), dir
}

func TestOrchestrator_Run_AllSucceed(t *testing.T) {
	root, _ := newTestRoot(t)
	exec := &mockExecutor{}
	orch := NewOrchestrator(root, exec, filesystem.NewChecker())

	items := []Item{
		TrimItem{Start: "00:00:10", End: "00:00:20", Output: "clip1"},
		ExtractAudioItem{Format: "mp3", Output: "audio1"},
		MutedVideoItem{Output: "silent1"},
	}

	result, err := orch.Run(context.Background(), "input.mp4", "out", items)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if result.Message != CompletionMessage {
		t.Errorf("Run() message = %q, want %q", result.Message, CompletionMessage)
	}
	if len(result.Results) != 3 {
		t.Fatalf("Run() returned %d outcomes, want 3", len(result.Results))
	}

	wantFiles := []string{"out/clip1.mp4", "out/audio1.mp3", "out/silent1.mp4"}
	for i, want := range wantFiles {
		if result.Results[i].OutputFile != want {
			t.Errorf("outcome %d OutputFile = %q, want %q", i, result.Results[i].OutputFile, want)
		}
		if !result.Results[i].Success {
			t.Errorf("outcome %d Success = false, want true", i)
		}
	}

	if result.Results[0].Start != "00:00:10" || result.Results[0].End != "00:00:20" {
		t.Errorf("trim outcome range = %q-%q", result.Results[0].Start, result.Results[0].End)
	}
	if result.Results[1].Start != "" || result.Results[1].End != "" {
		t.Errorf("audio outcome should carry no range, got %q-%q", result.Results[1].Start, result.Results[1].End)
	}

	if exec.callCount() != 3 {
		t.Errorf("executor called %d times, want 3", exec.callCount())
	}
}

func TestOrchestrator_Run_FailuresDoNotShortCircuit(t *testing.T) {
	root, _ := newTestRoot(t)
	exec := &mockExecutor{failFor: map[string]error{
		"clip2.mp4": errors.New("exit status 1"),
	}}
	orch := NewOrchestrator(root, exec, filesystem.NewChecker())

	items := []Item{
		TrimItem{Start: "00:00:10", End: "00:00:20", Output: "clip1"},
		TrimItem{Start: "00:00:20", End: "00:00:30", Output: "clip2"},
		TrimItem{Start: "00:00:30", End: "00:00:40", Output: "clip3"},
	}

	result, err := orch.Run(context.Background(), "input.mp4", "out", items)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if len(result.Results) != 3 {
		t.Fatalf("Run() returned %d outcomes, want 3", len(result.Results))
	}

	wantSuccess := []bool{true, false, true}
	for i, want := range wantSuccess {
		if result.Results[i].Success != want {
			t.Errorf("outcome %d Success = %v, want %v", i, result.Results[i].Success, want)
		}
	}

	if exec.callCount() != 3 {
		t.Errorf("executor called %d times, want 3 (no short circuit)", exec.callCount())
	}
}

func TestOrchestrator_Run_ValidationFailureSkipsTool(t *testing.T) {
	root, _ := newTestRoot(t)
	exec := &mockExecutor{}
	orch := NewOrchestrator(root, exec, filesystem.NewChecker())

	items := []Item{
		TrimItem{Start: "00:00:10", End: "00:00:20", Output: "good"},
		TrimItem{Start: "not-a-time", End: "00:00:30", Output: "badtime"},
		TrimItem{Start: "00:00:30", End: "00:00:10", Output: "inverted"},
		ExtractAudioItem{Format: "ogg", Output: "badformat"},
	}

	result, err := orch.Run(context.Background(), "input.mp4", "out", items)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if len(result.Results) != 4 {
		t.Fatalf("Run() returned %d outcomes, want 4", len(result.Results))
	}
	if !result.Results[0].Success {
		t.Error("valid item should succeed")
	}
	for i := 1; i < 4; i++ {
		if result.Results[i].Success {
			t.Errorf("outcome %d Success = true, want false", i)
		}
	}

	// Only the valid item may reach the external tool
	if exec.callCount() != 1 {
		t.Errorf("executor called %d times, want 1", exec.callCount())
	}
}

func TestOrchestrator_Run_MissingInput(t *testing.T) {
	root, dir := newTestRoot(t)
	exec := &mockExecutor{}
	orch := NewOrchestrator(root, exec, filesystem.NewChecker())

	items := []Item{TrimItem{Start: "00:00:10", End: "00:00:20", Output: "clip1"}}

	_, err := orch.Run(context.Background(), "missing.mp4", "out", items)
	if err == nil {
		t.Fatal("Run() expected error for missing input, got nil")
	}
	if !errors.Is(err, filesystem.ErrNotFound) {
		t.Errorf("Run() error = %v, want filesystem.ErrNotFound", err)
	}

	// The batch is rejected atomically: no output directory, no tool calls
	if _, statErr := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(statErr) {
		t.Error("Run() created output directory despite missing input")
	}
	if exec.callCount() != 0 {
		t.Errorf("executor called %d times, want 0", exec.callCount())
	}
}

func TestOrchestrator_Run_PathEscape(t *testing.T) {
	root, _ := newTestRoot(t)
	exec := &mockExecutor{}
	orch := NewOrchestrator(root, exec, filesystem.NewChecker())

	_, err := orch.Run(context.Background(), "../outside.mp4", "out", nil)
	if err == nil {
		t.Fatal("Run() expected error for escaping input path, got nil")
	}
	if !errors.Is(err, filesystem.ErrOutsideRoot) {
		t.Errorf("Run() error = %v, want ErrOutsideRoot", err)
	}
}

func TestOrchestrator_Run_EscapingOutputNameFailsItem(t *testing.T) {
	root, _ := newTestRoot(t)
	exec := &mockExecutor{}
	orch := NewOrchestrator(root, exec, filesystem.NewChecker())

	items := []Item{
		TrimItem{Start: "00:00:10", End: "00:00:20", Output: "../evil"},
		TrimItem{Start: "00:00:20", End: "00:00:30", Output: "fine"},
	}

	result, err := orch.Run(context.Background(), "input.mp4", "out", items)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if result.Results[0].Success {
		t.Error("escaping output name should fail its item")
	}
	if !result.Results[1].Success {
		t.Error("remaining item should still run")
	}
	if exec.callCount() != 1 {
		t.Errorf("executor called %d times, want 1", exec.callCount())
	}
}

func TestOrchestrator_Run_Idempotent(t *testing.T) {
	root, _ := newTestRoot(t)
	exec := &mockExecutor{}
	orch := NewOrchestrator(root, exec, filesystem.NewChecker())

	items := []Item{TrimItem{Start: "00:00:10", End: "00:00:20", Output: "clip1"}}

	for run := 0; run < 2; run++ {
		result, err := orch.Run(context.Background(), "input.mp4", "out", items)
		if err != nil {
			t.Fatalf("Run() pass %d unexpected error: %v", run+1, err)
		}
		if !result.Results[0].Success {
			t.Errorf("Run() pass %d outcome failed", run+1)
		}
	}
}

func TestOrchestrator_Run_NoItems(t *testing.T) {
	root, _ := newTestRoot(t)
	orch := NewOrchestrator(root, &mockExecutor{}, filesystem.NewChecker())

	result, err := orch.Run(context.Background(), "input.mp4", "out", nil)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if result.Results == nil {
		t.Error("Run() Results is nil, want empty slice")
	}
	if len(result.Results) != 0 {
		t.Errorf("Run() returned %d outcomes, want 0", len(result.Results))
	}
}

func TestOrchestrator_Run_ExistingExtensionKept(t *testing.T) {
	root, _ := newTestRoot(t)
	exec := &mockExecutor{}
	orch := NewOrchestrator(root, exec, filesystem.NewChecker())

	items := []Item{
		TrimItem{Start: "00:00:10", End: "00:00:20", Output: "clip1.mp4"},
		ExtractAudioItem{Format: "wav", Output: "voice.wav"},
	}

	result, err := orch.Run(context.Background(), "input.mp4", "out", items)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if result.Results[0].OutputFile != "out/clip1.mp4" {
		t.Errorf("outcome 0 OutputFile = %q, want %q", result.Results[0].OutputFile, "out/clip1.mp4")
	}
	if result.Results[1].OutputFile != "out/voice.wav" {
		t.Errorf("outcome 1 OutputFile = %q, want %q", result.Results[1].OutputFile, "out/voice.wav")
	}
}

func TestOrchestrator_Run_Concurrent(t *testing.T) {
	root, _ := newTestRoot(t)
	exec := &mockExecutor{delay: 5 * time.Millisecond}
	orch := NewOrchestrator(root, exec, filesystem.NewChecker(), WithConcurrency(3))

	var items []Item
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, n := range names {
		items = append(items, TrimItem{Start: "00:00:10", End: "00:00:20", Output: n})
	}

	result, err := orch.Run(context.Background(), "input.mp4", "out", items)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if len(result.Results) != len(names) {
		t.Fatalf("Run() returned %d outcomes, want %d", len(result.Results), len(names))
	}

	// Outcomes stay in input order even when execution interleaves
	for i, n := range names {
		want := filepath.Join("out", n+".mp4")
		if result.Results[i].OutputFile != want {
			t.Errorf("outcome %d OutputFile = %q, want %q", i, result.Results[i].OutputFile, want)
		}
		if !result.Results[i].Success {
			t.Errorf("outcome %d failed", i)
		}
	}

	if exec.maxInFlight > 3 {
		t.Errorf("max in-flight executions = %d, want at most 3", exec.maxInFlight)
	}
	if exec.maxInFlight < 2 {
		t.Errorf("max in-flight executions = %d, expected overlap", exec.maxInFlight)
	}
}

func TestOrchestrator_RunCutlist(t *testing.T) {
	root, dir := newTestRoot(t)
	exec := &mockExecutor{}
	orch := NewOrchestrator(root, exec, filesystem.NewChecker())

	cutlist := "# highlights\n00:00:10 00:00:20 clip1\nbad line\n00:01:00 00:02:00 clip2\n"
	if err := os.WriteFile(filepath.Join(dir, "cuts.txt"), []byte(cutlist), 0644); err != nil {
		t.Fatalf("writing cutlist: %v", err)
	}

	result, err := orch.RunCutlist(context.Background(), "input.mp4", "cuts.txt", "clips")
	if err != nil {
		t.Fatalf("RunCutlist() unexpected error: %v", err)
	}

	if len(result.Results) != 2 {
		t.Fatalf("RunCutlist() returned %d outcomes, want 2", len(result.Results))
	}
	if result.Results[0].OutputFile != "clips/clip1.mp4" {
		t.Errorf("outcome 0 OutputFile = %q", result.Results[0].OutputFile)
	}
	if result.Results[1].OutputFile != "clips/clip2.mp4" {
		t.Errorf("outcome 1 OutputFile = %q", result.Results[1].OutputFile)
	}
}

func TestOrchestrator_RunCutlist_MissingCutlist(t *testing.T) {
	root, dir := newTestRoot(t)
	exec := &mockExecutor{}
	orch := NewOrchestrator(root, exec, filesystem.NewChecker())

	_, err := orch.RunCutlist(context.Background(), "input.mp4", "missing.txt", "clips")
	if err == nil {
		t.Fatal("RunCutlist() expected error, got nil")
	}
	if !errors.Is(err, filesystem.ErrNotFound) {
		t.Errorf("RunCutlist() error = %v, want filesystem.ErrNotFound", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "clips")); !os.IsNotExist(statErr) {
		t.Error("RunCutlist() created output directory despite missing cutlist")
	}
}

func TestOrchestrator_RunCutlist_MissingInput(t *testing.T) {
	root, dir := newTestRoot(t)
	orch := NewOrchestrator(root, &mockExecutor{}, filesystem.NewChecker())

	if err := os.WriteFile(filepath.Join(dir, "cuts.txt"), []byte("00:00:10 00:00:20 clip1\n"), 0644); err != nil {
		t.Fatalf("writing cutlist: %v", err)
	}

	_, err := orch.RunCutlist(context.Background(), "missing.mp4", "cuts.txt", "clips")
	if err == nil {
		t.Fatal("RunCutlist() expected error, got nil")
	}
	if !errors.Is(err, filesystem.ErrNotFound) {
		t.Errorf("RunCutlist() error = %v, want filesystem.ErrNotFound", err)
	}
}

func TestOrchestrator_Run_AllItemsFailStillCompletes(t *testing.T) {
	root, _ := newTestRoot(t)
	exec := &mockExecutor{failFor: map[string]error{
		"a.mp4": errors.New("exit status 1"),
		"b.mp4": errors.New("exit status 1"),
	}}
	orch := NewOrchestrator(root, exec, filesystem.NewChecker())

	items := []Item{
		TrimItem{Start: "00:00:10", End: "00:00:20", Output: "a"},
		TrimItem{Start: "00:00:20", End: "00:00:30", Output: "b"},
	}

	result, err := orch.Run(context.Background(), "input.mp4", "out", items)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if result.Message != CompletionMessage {
		t.Errorf("Run() message = %q, want %q even when every item fails", result.Message, CompletionMessage)
	}
	if result.Succeeded() != 0 {
		t.Errorf("Succeeded() = %d, want 0", result.Succeeded())
	}
	if len(result.Results) != 2 {
		t.Errorf("Run() returned %d outcomes, want 2", len(result.Results))
	}
}
