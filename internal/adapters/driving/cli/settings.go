package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfiler/internal/adapters/driving/cli/styles"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change where documents are filed and which extraction
provider reads them.

Settings are stored in ~/.docfiler/config.toml. The API key can also be
supplied through DOCFILER_API_KEY, GEMINI_API_KEY or OPENAI_API_KEY.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting. Keys:

  storage.root                     where person folders and the index live
  storage.index_backend            json or sqlite
  extraction.provider              gemini or openai
  extraction.model                 model name
  extraction.base_url              API endpoint (e.g. a local OpenAI-compatible server)
  extraction.api_key               API key
  extraction.timeout_seconds       per-request timeout
  extraction.requests_per_minute   request budget (0 = unlimited)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Restore one setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the extraction provider is reachable",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	keys := settingsService.Keys()
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		value, err := settingsService.Display(key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if value == "" {
			value = "(not set)"
		}
		rows = append(rows, []string{key, value})
	}

	s := styles.NewStyles(cmd.OutOrStdout(), nil)
	cmd.Println(s.Title.Render("Current Settings"))
	cmd.Println(renderTable([]string{"Key", "Value"}, rows, nil))
	cmd.Printf("Provider: %s\n", settings.Extraction.Provider.Description())
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Println(s.Warning.Render(fmt.Sprintf("Warning: %v", err)))
		cmd.Println("Run 'docfiler settings set extraction.api_key <key>' to fix this.")
	} else {
		cmd.Println(s.Success.Render("Configuration is valid."))
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown, err := settingsService.Display(key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	cmd.Printf("%s = %s\n", key, shown)
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	if err := settingsService.Reset(key); err != nil {
		return fmt.Errorf("failed to unset %s: %w", key, err)
	}

	shown, err := settingsService.Display(key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if shown == "" {
		shown = "(not set)"
	}
	cmd.Printf("%s = %s (default)\n", key, shown)
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Validate(); err != nil {
		return err
	}
	if checkExtractor == nil {
		return errors.New("extractor check not configured")
	}

	cmd.Print("Validating configuration... ")
	if err := checkExtractor(cmd.Context()); err != nil {
		cmd.Println("FAILED")
		return fmt.Errorf("extraction provider check failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}
