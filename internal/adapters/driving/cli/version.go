package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfiler/internal/adapters/driving/mcp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("docfiler version %s\n", version)
		cmd.Printf("MCP server %s, %s %s/%s\n", mcp.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
