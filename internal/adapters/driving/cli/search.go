package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
	listJSON    bool
	listPerson  string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search filed documents",
	Long: `Finds filed documents whose holder name, document type or document
number contains the query. Matching ignores case.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List filed documents",
	Long:  `Lists every filed document in the order it was processed.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = all)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)

	listCmd.Flags().BoolVar(&listJSON, "json", false, "output documents as JSON")
	listCmd.Flags().StringVar(&listPerson, "person", "", "only list documents filed for this person folder")
	rootCmd.AddCommand(listCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if documentService == nil {
		return errors.New("document service not configured")
	}

	records, err := documentService.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if searchLimit > 0 && len(records) > searchLimit {
		records = records[:searchLimit]
	}

	if searchJSON {
		return printJSON(cmd, records)
	}
	if len(records) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	return outputDocumentTable(cmd, records)
}

func runList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	records, err := listRecords(cmd.Context())
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if listJSON {
		return printJSON(cmd, records)
	}
	if len(records) == 0 {
		cmd.Println("No documents filed yet.")
		return nil
	}
	return outputDocumentTable(cmd, records)
}

func listRecords(ctx context.Context) ([]domain.DocumentRecord, error) {
	if listPerson != "" {
		return documentService.ByPerson(ctx, listPerson)
	}
	return documentService.All(ctx)
}

func outputDocumentTable(cmd *cobra.Command, records []domain.DocumentRecord) error {
	rows := make([][]string, len(records))
	for i := range records {
		r := &records[i]
		rows[i] = []string{
			strconv.Itoa(i + 1),
			r.Name,
			r.DocType.String(),
			orDash(r.DocNumber),
			orDash(r.DOB),
			r.PersonFolder,
			r.FileName,
		}
	}

	cmd.Println(renderTable(
		[]string{"#", "Name", "Type", "Number", "DOB", "Person", "File"},
		rows,
		[]columnAlignment{alignRight},
	))
	cmd.Printf("%d document(s)\n", len(records))
	return nil
}
