package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index to a spreadsheet",
	Long: `Writes an Excel workbook with a Documents sheet listing every filed
document and a Persons sheet listing every person folder.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "docfiler-export.xlsx", "output file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}
	if ext := filepath.Ext(exportOut); ext != ".xlsx" {
		return fmt.Errorf("output file must end in .xlsx, got %q", exportOut)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}

	docs, persons, err := exportService.Export(cmd.Context(), f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(exportOut)
		return fmt.Errorf("export failed: %w", err)
	}

	cmd.Printf("Exported %d document(s) and %d person(s) to %s\n", docs, persons, exportOut)
	return nil
}
