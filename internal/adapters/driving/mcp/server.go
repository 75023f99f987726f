package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is the MCP server version.
const Version = "0.1.0"

// shutdownTimeout bounds how long in-flight HTTP requests may take once the
// context is cancelled.
const shutdownTimeout = 5 * time.Second

// Server exposes the document index, person folders and, optionally,
// processing to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "docfiler", Version: Version},
			&mcp.ServerOptions{Instructions: instructions(ports)},
		),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// instructions tells the client what it can do with this server.
func instructions(ports *Ports) string {
	var b strings.Builder
	b.WriteString("docfiler files scanned identity documents into one folder per person. ")
	b.WriteString("Use search_documents or list_documents to find filed documents")
	if ports.Person != nil {
		b.WriteString(", and list_persons or get_person to browse person folders")
	}
	b.WriteString(".")
	if ports.Processing != nil {
		b.WriteString(" process_file and process_folder file new images; only one batch runs at a time, " +
			"so check batch_status before starting another.")
	} else {
		b.WriteString(" This server is read-only.")
	}
	return b.String()
}

// Run serves MCP over stdio until ctx is cancelled or the client leaves.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP endpoint at "/" plus /healthz and
// any extra handlers, such as /metrics.
func (s *Server) Handler(extra map[string]http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok\n") //nolint:errcheck
	})
	for pattern, h := range extra {
		mux.Handle(pattern, h)
	}
	mux.Handle("/", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil))
	return mux
}

// RunHTTP serves Handler(extra) on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string, extra map[string]http.Handler) error {
	return ListenAndServe(ctx, addr, s.Handler(extra))
}

// ListenAndServe serves h on addr and shuts down gracefully when ctx is
// cancelled. A clean shutdown returns nil.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
