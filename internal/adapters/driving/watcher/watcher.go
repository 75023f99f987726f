// Package watcher turns a directory into an inbox: every PNG or JPEG image
// dropped into it is processed once it has stopped changing.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driving"
	"github.com/custodia-labs/docfiler/internal/logger"
)

// Defaults for Config.
const (
	DefaultDebounce   = 2 * time.Second
	DefaultRetryDelay = 5 * time.Second
	queueSize         = 256
)

// Config controls an inbox watcher.
type Config struct {
	// Dir is the inbox directory. Subdirectories are not watched.
	Dir string

	// Debounce is how long a file must be quiet before it is processed.
	Debounce time.Duration

	// RetryDelay is how long to wait before retrying a file that could not
	// start because another batch was running.
	RetryDelay time.Duration

	// InitialScan processes images already in Dir at start-up.
	InitialScan bool

	// OnResult, if set, is called after each file is processed.
	OnResult func(path string, summary *domain.BatchSummary, err error)
}

// Watcher feeds new images in an inbox directory to a ProcessingService,
// one at a time.
type Watcher struct {
	cfg        Config
	processing driving.ProcessingService
	log        zerolog.Logger
	ready      chan struct{}
}

// New creates an inbox watcher.
func New(processing driving.ProcessingService, cfg Config) (*Watcher, error) {
	if processing == nil {
		return nil, errors.New("watcher: processing service is required")
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, cfg.Dir)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	return &Watcher{
		cfg:        cfg,
		processing: processing,
		log:        logger.Component("watcher"),
		ready:      make(chan struct{}),
	}, nil
}

// Ready is closed once the directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches the inbox until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close() //nolint:errcheck

	if err := fw.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}

	queue := make(chan string, queueSize)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.work(ctx, queue)
	}()

	if w.cfg.InitialScan {
		for _, path := range w.existing() {
			queue <- path
		}
	}

	w.log.Info().Str("dir", w.cfg.Dir).Msg("watching inbox")
	close(w.ready)

	err = w.loop(ctx, fw, queue)
	close(queue)
	<-done
	return err
}

// loop collects events and releases each path to the queue once it has
// been quiet for the debounce period.
func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, queue chan<- string) error {
	pending := make(map[string]time.Time)
	tick := time.NewTicker(w.cfg.Debounce / 4)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !accept(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")

		case now := <-tick.C:
			for path, last := range pending {
				if now.Sub(last) < w.cfg.Debounce {
					continue
				}
				delete(pending, path)
				select {
				case queue <- path:
				default:
					w.log.Warn().Str("file", path).Msg("inbox queue full, file skipped")
				}
			}
		}
	}
}

// work processes queued files sequentially.
func (w *Watcher) work(ctx context.Context, queue <-chan string) {
	for path := range queue {
		if ctx.Err() != nil {
			continue
		}
		w.process(ctx, path)
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	for {
		if _, err := os.Stat(path); err != nil {
			w.log.Debug().Str("file", path).Msg("file vanished before processing")
			return
		}

		summary, err := w.processing.ProcessSingle(ctx, path)
		if errors.Is(err, domain.ErrBatchInProgress) {
			w.log.Debug().Str("file", path).Msg("batch in progress, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.cfg.RetryDelay):
				continue
			}
		}

		if err != nil {
			w.log.Error().Err(err).Str("file", path).Msg("process failed")
		}
		if w.cfg.OnResult != nil {
			w.cfg.OnResult(path, summary, err)
		}
		return
	}
}

// existing returns the supported images already in the inbox, in name order.
func (w *Watcher) existing() []string {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		w.log.Warn().Err(err).Msg("initial scan")
		return nil
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(w.cfg.Dir, e.Name())
		if accept(path) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// accept reports whether path is a visible supported image.
func accept(path string) bool {
	return !strings.HasPrefix(filepath.Base(path), ".") && domain.IsSupportedImage(path)
}
