package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfiler/internal/adapters/driving/mcp"
	"github.com/custodia-labs/docfiler/internal/logger"
)

var (
	serveHTTP     string
	serveMetrics  string
	serveReadOnly bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
filed documents, browse person folders and run processing batches.

By default the server communicates over stdio using JSON-RPC. Use --http
to serve streamable HTTP instead, and --metrics to expose Prometheus
metrics on a separate address.

Examples:
  # Stdio mode (for desktop assistants)
  docfiler serve

  # HTTP mode with metrics
  docfiler serve --http :8080 --metrics :9090

Assistant configuration:
  {
    "mcpServers": {
      "docfiler": {
        "command": "/path/to/docfiler",
        "args": ["serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTP, "http", "", "HTTP listen address (empty = use stdio)")
	serveCmd.Flags().StringVar(&serveMetrics, "metrics", "", "Prometheus metrics listen address (empty = disabled)")
	serveCmd.Flags().BoolVar(&serveReadOnly, "read-only", false, "do not expose processing tools")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ports := &mcp.Ports{
		Document: documentService,
		Person:   personService,
	}
	if !serveReadOnly {
		ports.Processing = processingService
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if serveMetrics != "" {
		if metricsHandler == nil {
			return errors.New("metrics not configured")
		}
		go func() {
			if err := serveMetricsHTTP(ctx, serveMetrics, metricsHandler); err != nil {
				logger.Error("metrics server: %v", err)
			}
		}()
	}

	if serveHTTP != "" {
		var extra map[string]http.Handler
		if metricsHandler != nil {
			extra = map[string]http.Handler{"/metrics": metricsHandler}
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", serveHTTP)
		return server.RunHTTP(ctx, serveHTTP, extra)
	}

	return server.Run(ctx)
}

func serveMetricsHTTP(ctx context.Context, addr string, handler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	return mcp.ListenAndServe(ctx, addr, mux)
}
