package mcp

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil document service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingDocumentService)
	})

	t.Run("document only", func(t *testing.T) {
		server, err := NewServer(&Ports{Document: &mockDocumentService{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("all ports", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Document:   &mockDocumentService{},
			Person:     &mockPersonService{},
			Processing: &mockProcessingService{},
		})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{Person: &mockPersonService{}}).Validate(), ErrMissingDocumentService)
	assert.NoError(t, (&Ports{Document: &mockDocumentService{}}).Validate())
}

func TestInstructions(t *testing.T) {
	readOnly := instructions(&Ports{Document: &mockDocumentService{}})
	assert.Contains(t, readOnly, "search_documents")
	assert.Contains(t, readOnly, "read-only")
	assert.NotContains(t, readOnly, "get_person")
	assert.NotContains(t, readOnly, "process_folder")

	full := instructions(&Ports{
		Document:   &mockDocumentService{},
		Person:     &mockPersonService{},
		Processing: &mockProcessingService{},
	})
	assert.Contains(t, full, "get_person")
	assert.Contains(t, full, "batch_status")
	assert.NotContains(t, full, "read-only")
}

func TestServer_Handler(t *testing.T) {
	server, err := NewServer(&Ports{Document: &mockDocumentService{}})
	require.NoError(t, err)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("docfiler_documents_processed_total 3\n"))
	})
	ts := httptest.NewServer(server.Handler(map[string]http.Handler{"/metrics": metrics}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListenAndServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServe(ctx, addr, http.NotFoundHandler())
	}()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestListenAndServe_BadAddress(t *testing.T) {
	err := ListenAndServe(context.Background(), "not-an-address", http.NotFoundHandler())
	assert.Error(t, err)
}
