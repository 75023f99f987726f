package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfiler/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/docfiler/internal/core/domain"
)

var personJSON bool

var personCmd = &cobra.Command{
	Use:   "person",
	Short: "Browse person folders",
}

var personListCmd = &cobra.Command{
	Use:   "list",
	Short: "List person folders",
	Args:  cobra.NoArgs,
	RunE:  runPersonList,
}

var personShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one person folder and its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonShow,
}

func init() {
	personCmd.PersistentFlags().BoolVar(&personJSON, "json", false, "output as JSON")
	personCmd.AddCommand(personListCmd)
	personCmd.AddCommand(personShowCmd)
	rootCmd.AddCommand(personCmd)
}

func runPersonList(cmd *cobra.Command, _ []string) error {
	if personService == nil {
		return errors.New("person service not configured")
	}

	persons, err := personService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list persons failed: %w", err)
	}

	if personJSON {
		return printJSON(cmd, personViews(persons))
	}
	if len(persons) == 0 {
		cmd.Println("No person folders yet.")
		return nil
	}

	rows := make([][]string, len(persons))
	for i := range persons {
		p := &persons[i]
		rows[i] = []string{
			p.ID,
			p.DisplayName,
			orDash(p.DOB),
			strconv.Itoa(len(p.DocNumbers)),
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
		}
	}
	cmd.Println(renderTable(
		[]string{"Folder", "Name", "DOB", "Doc Numbers", "Created"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	))
	cmd.Printf("%d person(s)\n", len(persons))
	return nil
}

func runPersonShow(cmd *cobra.Command, args []string) error {
	if personService == nil {
		return errors.New("person service not configured")
	}

	person, err := personService.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("person %q not found", args[0])
		}
		return fmt.Errorf("get person failed: %w", err)
	}

	var records []domain.DocumentRecord
	if documentService != nil {
		records, err = documentService.ByPerson(cmd.Context(), person.ID)
		if err != nil {
			return fmt.Errorf("list documents failed: %w", err)
		}
	}

	if personJSON {
		view := toPersonView(person)
		view.Documents = records
		return printJSON(cmd, view)
	}

	s := styles.NewStyles(cmd.OutOrStdout(), nil)
	cmd.Println(s.Title.Render(person.DisplayName))
	cmd.Printf("  Folder: %s\n", person.ID)
	cmd.Printf("  DOB: %s\n", orDash(person.DOB))
	cmd.Printf("  Doc numbers: %s\n", orDash(strings.Join(person.DocNumbers, ", ")))
	cmd.Printf("  Created: %s\n", person.CreatedAt.Local().Format("2006-01-02 15:04"))
	cmd.Println()

	if len(records) == 0 {
		cmd.Println("No documents in the index for this person.")
		return nil
	}
	return outputDocumentTable(cmd, records)
}

// personView is the JSON shape of a person folder; the folder ID is not
// part of the on-disk metadata so domain.PersonFolder omits it.
type personView struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	DocNumbers []string                `json:"docNumbers"`
	DOB        string                  `json:"dob,omitempty"`
	Created    string                  `json:"created"`
	Documents  []domain.DocumentRecord `json:"documents,omitempty"`
}

func toPersonView(p *domain.PersonFolder) personView {
	numbers := p.DocNumbers
	if numbers == nil {
		numbers = []string{}
	}
	return personView{
		ID:         p.ID,
		Name:       p.DisplayName,
		DocNumbers: numbers,
		DOB:        p.DOB,
		Created:    p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func personViews(persons []domain.PersonFolder) []personView {
	views := make([]personView, len(persons))
	for i := range persons {
		views[i] = toPersonView(&persons[i])
	}
	return views
}
