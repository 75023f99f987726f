package metrics

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

func TestRecorder_OnEvent(t *testing.T) {
	r := NewRecorder()

	r.OnEvent(domain.BatchEvent{Kind: domain.EventBatchStarted})
	assert.InDelta(t, 1, testutil.ToFloat64(r.BatchInProgress), 0)

	r.OnEvent(domain.BatchEvent{Kind: domain.EventItemStarted})
	r.OnEvent(domain.BatchEvent{Kind: domain.EventItemSucceeded, Duration: time.Second})
	r.OnEvent(domain.BatchEvent{Kind: domain.EventItemSucceeded, Duration: time.Second})
	r.OnEvent(domain.BatchEvent{Kind: domain.EventItemDuplicate})
	r.OnEvent(domain.BatchEvent{Kind: domain.EventItemFailed})
	r.OnEvent(domain.BatchEvent{
		Kind:    domain.EventBatchFinished,
		Summary: &domain.BatchSummary{Stopped: true},
	})

	assert.InDelta(t, 2, testutil.ToFloat64(r.ItemsTotal.WithLabelValues("succeeded")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.ItemsTotal.WithLabelValues("duplicate")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.ItemsTotal.WithLabelValues("failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.BatchesTotal.WithLabelValues("stopped")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(r.BatchInProgress), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(r.ItemDuration))
}

func TestRecorder_ObserveExtraction(t *testing.T) {
	r := NewRecorder()

	r.ObserveExtraction("gemini", time.Second, nil)
	r.ObserveExtraction("gemini", time.Second, fmt.Errorf("call: %w", domain.ErrRateLimited))
	r.ObserveExtraction("gemini", time.Second, domain.ErrMissingField)
	r.ObserveExtraction("openai", time.Second, errors.New("connection refused"))

	assert.InDelta(t, 1, testutil.ToFloat64(r.ExtractionsTotal.WithLabelValues("gemini", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.ExtractionsTotal.WithLabelValues("gemini", "rate_limited")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.ExtractionsTotal.WithLabelValues("gemini", "unreadable")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.ExtractionsTotal.WithLabelValues("openai", "error")), 0)
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.OnEvent(domain.BatchEvent{Kind: domain.EventItemSucceeded})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `docfiler_items_total{status="succeeded"} 1`)
}

func TestNewRecorder_Independent(t *testing.T) {
	a := NewRecorder()
	b := NewRecorder()
	a.OnEvent(domain.BatchEvent{Kind: domain.EventItemFailed})

	assert.InDelta(t, 0, testutil.ToFloat64(b.ItemsTotal.WithLabelValues("failed")), 0)
	assert.NotSame(t, a.Registry(), b.Registry())
}
