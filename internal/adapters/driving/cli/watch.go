package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfiler/internal/adapters/driving/watcher"
	"github.com/custodia-labs/docfiler/internal/core/domain"
)

var (
	watchDebounce time.Duration
	watchExisting bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Process images as they arrive in a folder",
	Long: `Watch a folder and process every PNG or JPEG image dropped into it once
the file has stopped changing. Press Ctrl-C to stop watching.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before a new file is processed")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "also process images already in the folder")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if processingService == nil {
		return errors.New("processing service not configured")
	}

	printer := newProgressPrinter(cmd.OutOrStdout())
	processingService.Subscribe(printer)
	defer printer.disable()

	w, err := watcher.New(processingService, watcher.Config{
		Dir:         args[0],
		Debounce:    watchDebounce,
		InitialScan: watchExisting,
		OnResult: func(path string, _ *domain.BatchSummary, err error) {
			if err != nil {
				cmd.PrintErrf("%s: %v\n", path, err)
			}
		},
	})
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", args[0])
	return w.Run(cmd.Context())
}
