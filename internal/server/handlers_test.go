package server

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplex/perfmetrics/internal/crypto"
	"github.com/eduplex/perfmetrics/internal/model"
	"github.com/eduplex/perfmetrics/internal/services"
)

type mockStore struct {
	written  [][]model.Metric
	writeErr error
	pingErr  error
}

func (m *mockStore) Write(_ context.Context, batch []model.Metric) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, batch)
	return nil
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }

type mockReports struct {
	report *services.Report
	err    error
}

func (m *mockReports) BuildReport(context.Context) (*services.Report, error) {
	return m.report, m.err
}

func validBatch() []byte {
	batch := []model.Metric{{
		Name:      "FCP",
		Value:     1200,
		Kind:      model.KindTiming,
		PageURL:   "/home",
		UserAgent: "agent",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}}
	body, _ := json.Marshal(batch)
	return body
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.GetRouter().ServeHTTP(rec, req)
	return rec
}

func TestIngestHandler(t *testing.T) {
	t.Run("accepts valid batch", func(t *testing.T) {
		store := &mockStore{}
		s := NewServer("localhost:0", store, &mockReports{}, "")

		req := httptest.NewRequest(http.MethodPost, "/api/performance-metrics/", bytes.NewReader(validBatch()))
		rec := doRequest(s, req)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		require.Len(t, store.written, 1)
		assert.Equal(t, "FCP", store.written[0][0].Name)
	})

	t.Run("accepts gzip body", func(t *testing.T) {
		store := &mockStore{}
		s := NewServer("localhost:0", store, &mockReports{}, "")

		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, err := gz.Write(validBatch())
		require.NoError(t, err)
		require.NoError(t, gz.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/performance-metrics/", &buf)
		req.Header.Set("Content-Encoding", "gzip")
		rec := doRequest(s, req)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		require.Len(t, store.written, 1)
	})

	t.Run("rejects bad signature", func(t *testing.T) {
		store := &mockStore{}
		s := NewServer("localhost:0", store, &mockReports{}, "secret")

		req := httptest.NewRequest(http.MethodPost, "/api/performance-metrics/", bytes.NewReader(validBatch()))
		req.Header.Set("HashSHA256", "deadbeef")
		rec := doRequest(s, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, store.written)
	})

	t.Run("accepts valid signature", func(t *testing.T) {
		store := &mockStore{}
		s := NewServer("localhost:0", store, &mockReports{}, "secret")

		body := validBatch()
		req := httptest.NewRequest(http.MethodPost, "/api/performance-metrics/", bytes.NewReader(body))
		req.Header.Set("HashSHA256", crypto.SignPayload(body, "secret"))
		rec := doRequest(s, req)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		require.Len(t, store.written, 1)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		s := NewServer("localhost:0", &mockStore{}, &mockReports{}, "")

		req := httptest.NewRequest(http.MethodPost, "/api/performance-metrics/", bytes.NewReader([]byte("{broken")))
		rec := doRequest(s, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		s := NewServer("localhost:0", &mockStore{}, &mockReports{}, "")

		req := httptest.NewRequest(http.MethodPost, "/api/performance-metrics/", bytes.NewReader([]byte("[]")))
		rec := doRequest(s, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects record without name", func(t *testing.T) {
		s := NewServer("localhost:0", &mockStore{}, &mockReports{}, "")

		req := httptest.NewRequest(http.MethodPost, "/api/performance-metrics/",
			bytes.NewReader([]byte(`[{"metric_value":1,"metric_type":"timing"}]`)))
		rec := doRequest(s, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		store := &mockStore{writeErr: errors.New("db down")}
		s := NewServer("localhost:0", store, &mockReports{}, "")

		req := httptest.NewRequest(http.MethodPost, "/api/performance-metrics/", bytes.NewReader(validBatch()))
		rec := doRequest(s, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestReportHandler(t *testing.T) {
	t.Run("returns report", func(t *testing.T) {
		reports := &mockReports{report: &services.Report{
			Summary: map[string]services.Summary{
				"LCP": {Count: 2, Avg: 2500, Min: 2000, Max: 3000},
			},
		}}
		s := NewServer("localhost:0", &mockStore{}, reports, "")

		req := httptest.NewRequest(http.MethodGet, "/api/performance-metrics/report", nil)
		rec := doRequest(s, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got services.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 2, got.Summary["LCP"].Count)
	})

	t.Run("build failure returns 500", func(t *testing.T) {
		reports := &mockReports{err: errors.New("store down")}
		s := NewServer("localhost:0", &mockStore{}, reports, "")

		req := httptest.NewRequest(http.MethodGet, "/api/performance-metrics/report", nil)
		rec := doRequest(s, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestPingHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s := NewServer("localhost:0", &mockStore{}, &mockReports{}, "")

		rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unhealthy", func(t *testing.T) {
		s := NewServer("localhost:0", &mockStore{pingErr: errors.New("not connected")}, &mockReports{}, "")

		rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestNotFound(t *testing.T) {
	s := NewServer("localhost:0", &mockStore{}, &mockReports{}, "")

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
