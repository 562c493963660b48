package sink

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplex/perfmetrics/internal/crypto"
	"github.com/eduplex/perfmetrics/internal/model"
)

func TestBeaconSinkWrite(t *testing.T) {
	var (
		gotBody []byte
		gotSig  string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "gzip", r.Header.Get("Content-Encoding"))
		gotSig = r.Header.Get("HashSHA256")

		gz, err := gzip.NewReader(r.Body)
		require.NoError(t, err)
		gotBody, err = io.ReadAll(gz)
		require.NoError(t, err)

		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	b := NewBeaconSink(srv.URL, "secret")

	batch := []model.Metric{{
		Name:      "page_load_time",
		Value:     1234,
		Kind:      model.KindTiming,
		PageURL:   "/home",
		UserAgent: "agent",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}}

	require.NoError(t, b.Write(context.Background(), batch))

	var decoded []model.Metric
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "page_load_time", decoded[0].Name)
	assert.Equal(t, float64(1234), decoded[0].Value)

	assert.True(t, crypto.VerifyPayload(gotBody, "secret", gotSig))
}

func TestBeaconSinkWriteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := NewBeaconSink(srv.URL, "")

	err := b.Write(context.Background(), []model.Metric{{Name: "x"}})
	assert.Error(t, err)
}

func TestBeaconSinkSendSwallowsFailure(t *testing.T) {
	b := NewBeaconSink("http://127.0.0.1:1/api/performance-metrics", "")

	// Must not panic or block; failure is logged only.
	b.Send([]model.Metric{{Name: "x"}})
}

func TestBeaconSinkWriteEmptyBatch(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	b := NewBeaconSink(srv.URL, "")
	require.NoError(t, b.Write(context.Background(), nil))
	assert.False(t, called)
}
