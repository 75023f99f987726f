// Package cli implements the docfiler command line interface.
package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfiler/internal/core/ports/driving"
	"github.com/custodia-labs/docfiler/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
	envFile   string
)

// Services are the driving ports the commands run against.
type Services struct {
	Processing driving.ProcessingService
	Document   driving.DocumentService
	Person     driving.PersonService
	Settings   driving.SettingsService
	Export     driving.ExportService

	// Metrics serves Prometheus metrics. Nil disables --metrics.
	Metrics http.Handler

	// CheckExtractor builds the configured extractor and pings it.
	CheckExtractor func(ctx context.Context) error
}

// Options are the global flags handed to the bootstrap function.
type Options struct {
	// ConfigDir overrides ~/.docfiler.
	ConfigDir string
}

// Bootstrap builds the services once flags are parsed. The returned
// function releases them.
type Bootstrap func(opts Options) (*Services, func() error, error)

var (
	bootstrap Bootstrap
	release   func() error

	processingService driving.ProcessingService
	documentService   driving.DocumentService
	personService     driving.PersonService
	settingsService   driving.SettingsService
	exportService     driving.ExportService
	metricsHandler    http.Handler
	checkExtractor    func(ctx context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "docfiler",
	Short: "File scanned ID documents into per-person folders",
	Long: `docfiler extracts the holder's name, document type, number, date of birth
and gender from scanned identity documents, works out which person each
document belongs to and files it into that person's folder.

Every filed document is recorded in a searchable index. Files that cannot
be read are copied to _Manual_Review for a human to look at.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.docfiler)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load if present")
}

// SetBootstrap registers the function that wires services for commands.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices installs services directly, bypassing bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	processingService = s.Processing
	documentService = s.Document
	personService = s.Person
	settingsService = s.Settings
	exportService = s.Export
	metricsHandler = s.Metrics
	checkExtractor = s.CheckExtractor
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("load %s: %v", envFile, err)
		}
	}

	if bootstrap == nil || release != nil {
		return nil
	}
	services, cleanup, err := bootstrap(Options{ConfigDir: configDir})
	if err != nil {
		return err
	}
	SetServices(services)
	release = cleanup
	return nil
}

func teardown() error {
	if release == nil {
		return nil
	}
	err := release()
	release = nil
	return err
}

// Execute runs the root command. Ctrl-C cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if cerr := teardown(); err == nil {
		err = cerr
	}
	return err
}
