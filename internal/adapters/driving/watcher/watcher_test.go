package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driving"
)

// recordingProcessor records processed paths. The first busy calls return
// ErrBatchInProgress.
type recordingProcessor struct {
	mu    sync.Mutex
	paths []string
	busy  int
}

func (p *recordingProcessor) ProcessSingle(_ context.Context, path string) (*domain.BatchSummary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy > 0 {
		p.busy--
		return nil, domain.ErrBatchInProgress
	}
	p.paths = append(p.paths, filepath.Base(path))
	return &domain.BatchSummary{Total: 1, Succeeded: 1}, nil
}

func (p *recordingProcessor) ProcessBatch(ctx context.Context, paths []string) (*domain.BatchSummary, error) {
	return p.ProcessSingle(ctx, paths[0])
}

func (p *recordingProcessor) ProcessFolder(_ context.Context, _ string) (*domain.BatchSummary, error) {
	return nil, domain.ErrNoSupportedFiles
}

func (p *recordingProcessor) Stop() bool                           { return false }
func (p *recordingProcessor) Status() domain.BatchStatus           { return domain.BatchStatus{} }
func (p *recordingProcessor) Subscribe(_ driving.ProgressObserver) {}

func (p *recordingProcessor) processed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.paths...)
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("image"), 0o600))
}

func startWatcher(t *testing.T, proc *recordingProcessor, cfg Config) {
	t.Helper()
	w, err := New(proc, cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-errCh)
	})

	select {
	case <-w.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}
}

func TestNew_Validation(t *testing.T) {
	proc := &recordingProcessor{}

	_, err := New(nil, Config{Dir: t.TempDir()})
	assert.Error(t, err)

	_, err = New(proc, Config{Dir: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "a.jpg")
	writeFile(t, file)
	_, err = New(proc, Config{Dir: file})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	w, err := New(proc, Config{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.cfg.Debounce)
	assert.Equal(t, DefaultRetryDelay, w.cfg.RetryDelay)
}

func TestWatcher_ProcessesNewImages(t *testing.T) {
	dir := t.TempDir()
	proc := &recordingProcessor{}
	startWatcher(t, proc, Config{Dir: dir, Debounce: 40 * time.Millisecond})

	writeFile(t, filepath.Join(dir, "pan.jpg"))
	writeFile(t, filepath.Join(dir, "notes.txt"))
	writeFile(t, filepath.Join(dir, ".hidden.png"))

	assert.Eventually(t, func() bool {
		return len(proc.processed()) == 1
	}, 5*time.Second, 20*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []string{"pan.jpg"}, proc.processed())
}

func TestWatcher_InitialScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.png"))
	writeFile(t, filepath.Join(dir, "a.JPG"))
	writeFile(t, filepath.Join(dir, "readme.md"))

	var mu sync.Mutex
	var results []string
	proc := &recordingProcessor{}
	startWatcher(t, proc, Config{
		Dir:         dir,
		Debounce:    40 * time.Millisecond,
		InitialScan: true,
		OnResult: func(path string, summary *domain.BatchSummary, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err == nil && summary.Succeeded == 1 {
				results = append(results, filepath.Base(path))
			}
		},
	})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) == 2
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{"a.JPG", "b.png"}, proc.processed())
}

func TestWatcher_RetriesWhileBatchRunning(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dl.jpeg"))

	proc := &recordingProcessor{busy: 2}
	startWatcher(t, proc, Config{
		Dir:         dir,
		Debounce:    40 * time.Millisecond,
		RetryDelay:  10 * time.Millisecond,
		InitialScan: true,
	})

	assert.Eventually(t, func() bool {
		return len(proc.processed()) == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestAccept(t *testing.T) {
	assert.True(t, accept("/inbox/a.png"))
	assert.True(t, accept("/inbox/a.JPEG"))
	assert.False(t, accept("/inbox/.a.png"))
	assert.False(t, accept("/inbox/a.pdf"))
}
