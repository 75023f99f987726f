package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfiler/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/docfiler/internal/core/domain"
)

var processJSON bool

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract and file document images",
	Long: `Extract the fields of PNG and JPEG document images and file each one into
the folder of the person it belongs to.

Press Ctrl-C to stop after the file currently being processed.`,
}

var processFileCmd = &cobra.Command{
	Use:   "file [path]",
	Short: "Process one image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, func(ctx context.Context) (*domain.BatchSummary, error) {
			return processingService.ProcessSingle(ctx, args[0])
		})
	},
}

var processBatchCmd = &cobra.Command{
	Use:   "batch [paths...]",
	Short: "Process several images in order",
	Long:  `Process the given images in order. Files that are not PNG or JPEG images are skipped.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, func(ctx context.Context) (*domain.BatchSummary, error) {
			return processingService.ProcessBatch(ctx, args)
		})
	},
}

var processFolderCmd = &cobra.Command{
	Use:   "folder [dir]",
	Short: "Process every image in a folder",
	Long:  `Process the PNG and JPEG images directly inside a folder. Subfolders are not searched.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, func(ctx context.Context) (*domain.BatchSummary, error) {
			return processingService.ProcessFolder(ctx, args[0])
		})
	},
}

func init() {
	processCmd.PersistentFlags().BoolVar(&processJSON, "json", false, "output the batch summary as JSON")
	processCmd.AddCommand(processFileCmd)
	processCmd.AddCommand(processBatchCmd)
	processCmd.AddCommand(processFolderCmd)
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, run func(ctx context.Context) (*domain.BatchSummary, error)) error {
	if processingService == nil {
		return errors.New("processing service not configured")
	}

	if !processJSON {
		printer := newProgressPrinter(cmd.OutOrStdout())
		processingService.Subscribe(printer)
		defer printer.disable()
	}

	// Interrupts request a stop between files; the file in flight is not
	// cancelled.
	ctx := context.WithoutCancel(cmd.Context())
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-cmd.Context().Done():
			if processingService.Stop() {
				cmd.PrintErrln("Stopping after the current file...")
			}
		case <-done:
		}
	}()

	summary, err := run(ctx)
	if summary != nil {
		if processJSON {
			if jerr := printJSON(cmd, summary); jerr != nil {
				return jerr
			}
		} else {
			printSummary(cmd, summary)
		}
	}
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}
	return nil
}

func printSummary(cmd *cobra.Command, summary *domain.BatchSummary) {
	s := styles.NewStyles(cmd.OutOrStdout(), nil)
	style := s.Success
	switch {
	case summary.Stopped:
		style = s.Warning
	case summary.Failed > 0:
		style = s.Error
	}
	cmd.Println()
	cmd.Println(style.Bold(true).Render(summary.Message()))
	if summary.Failed > 0 {
		cmd.Println(s.Muted.Render("Failed files were copied for manual review."))
	}
}
