package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docfiler/internal/adapters/driven/ai"
	"github.com/custodia-labs/docfiler/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docfiler/internal/adapters/driven/export"
	"github.com/custodia-labs/docfiler/internal/adapters/driven/lock"
	"github.com/custodia-labs/docfiler/internal/adapters/driven/metrics"
	"github.com/custodia-labs/docfiler/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/docfiler/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docfiler/internal/adapters/driving/cli"
	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
	"github.com/custodia-labs/docfiler/internal/core/services"
	"github.com/custodia-labs/docfiler/internal/logger"
)

// bootstrap wires adapters and services from the stored settings.
func bootstrap(opts cli.Options) (*cli.Services, func() error, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}
	root := settings.Storage.Root
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create storage root: %w", err)
	}
	logger.Debug("storage root %s (%s index)", root, settings.Storage.IndexBackend)

	var closers []func() error
	release := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	index, closeIndex, err := openIndex(settings.Storage)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeIndex)

	registry := filesystem.NewPersonRegistry(root)
	filer := filesystem.NewDocumentFiler(root)
	recorder := metrics.NewRecorder()

	promptDir := ""
	if opts.ConfigDir != "" {
		promptDir = filepath.Join(opts.ConfigDir, file.PromptDirName)
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		_ = release()
		return nil, nil, fmt.Errorf("open prompts: %w", err)
	}

	// A broken extraction config must not stop read-only commands; the
	// processing service reports ErrExtractorUnavailable instead.
	extractor, err := ai.CreateExtractor(&settings.Extraction, ai.Options{Prompts: prompts, Recorder: recorder})
	if err != nil {
		logger.Warn("extraction disabled: %v", err)
		extractor = nil
	}
	if extractor != nil {
		closers = append(closers, extractor.Close)
	}

	processLock, err := lock.New(root)
	if err != nil {
		_ = release()
		return nil, nil, fmt.Errorf("create lock: %w", err)
	}

	processing := services.NewProcessingService(extractor, index, registry, filer)
	processing.SetProcessLock(processLock)
	processing.Subscribe(recorder)

	svc := &cli.Services{
		Processing: processing,
		Document:   services.NewDocumentService(index),
		Person:     services.NewPersonService(registry),
		Settings:   settingsService,
		Export:     services.NewExportService(index, registry, export.NewXLSXExporter()),
		Metrics:    recorder.Handler(),
		CheckExtractor: func(_ context.Context) error {
			current, err := settingsService.Get()
			if err != nil {
				return err
			}
			return ai.ValidateExtractionConfig(&current.Extraction)
		},
	}
	return svc, release, nil
}

// openIndex opens the configured index backend under the storage root.
func openIndex(storage domain.StorageSettings) (driven.IndexStore, func() error, error) {
	switch storage.IndexBackend {
	case domain.IndexBackendSQLite:
		store, err := sqlite.NewStore(storage.Root)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite index: %w", err)
		}
		return store.IndexStore(), store.Close, nil
	default:
		index := filesystem.NewIndexStore(storage.Root)
		return index, index.Close, nil
	}
}
