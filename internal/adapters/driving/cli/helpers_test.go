package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"

	"github.com/custodia-labs/docfiler/internal/adapters/driven/export"
	"github.com/custodia-labs/docfiler/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docfiler/internal/adapters/driving/watcher"
	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/services"
)

// stubExtractor returns canned fields keyed by file base name.
type stubExtractor struct {
	fields map[string]domain.ExtractedFields
}

func (e *stubExtractor) Extract(_ context.Context, path string) (*domain.ExtractedFields, error) {
	f, ok := e.fields[filepath.Base(path)]
	if !ok {
		return nil, domain.ErrMalformedResponse
	}
	return &f, nil
}

func (e *stubExtractor) ModelName() string            { return "stub" }
func (e *stubExtractor) Ping(_ context.Context) error { return nil }
func (e *stubExtractor) Close() error                 { return nil }

// testEnv exposes the adapters behind the services installed by
// setupTestServices.
type testEnv struct {
	index    *memory.IndexStore
	registry *memory.PersonRegistry
	config   *memory.ConfigStore
	checkErr error
}

var currentEnv *testEnv

// setupTestServices installs services backed by in-memory adapters and
// returns a function restoring the previous state.
func setupTestServices() func() {
	env := &testEnv{
		index:    memory.NewIndexStore(),
		registry: memory.NewPersonRegistry(),
		config:   memory.NewConfigStore(),
	}
	extractor := &stubExtractor{fields: map[string]domain.ExtractedFields{
		"pan.jpg": {DocType: domain.DocTypePAN, Name: "RAHUL KUMAR", DocNumber: "ABCDE1234F", DOB: "01/02/1985"},
		"dl.png":  {DocType: domain.DocTypeDrivingLicense, Name: "RAHUL KUMAR", DocNumber: "DL0420110012345", DOB: "01/02/1985"},
		"voter.jpg": {
			DocType: domain.DocTypeVoterID, Name: "PRIYA SHARMA", DOB: "05/06/1990",
		},
	}}

	processing := services.NewProcessingService(extractor, env.index, env.registry, memory.NewDocumentFiler())
	SetServices(&Services{
		Processing: processing,
		Document:   services.NewDocumentService(env.index),
		Person:     services.NewPersonService(env.registry),
		Settings:   services.NewSettingsService(env.config),
		Export:     services.NewExportService(env.index, env.registry, export.NewXLSXExporter()),
		CheckExtractor: func(_ context.Context) error {
			return env.checkErr
		},
	})
	currentEnv = env

	return func() {
		SetServices(nil)
		currentEnv = nil
		resetFlags()
	}
}

// resetFlags restores package-level flag values between executions.
func resetFlags() {
	processJSON = false
	searchLimit = 0
	searchJSON = false
	listJSON = false
	listPerson = ""
	personJSON = false
	exportOut = "docfiler-export.xlsx"
	serveHTTP = ""
	serveMetrics = ""
	serveReadOnly = false
	watchDebounce = watcher.DefaultDebounce
	watchExisting = false
	envFile = ".env"
	verbose = false
	configDir = ""
}

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

var errCheckFailed = errors.New("401 unauthorised")
