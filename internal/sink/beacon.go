package sink

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/eduplex/perfmetrics/internal/crypto"
	"github.com/eduplex/perfmetrics/internal/logger"
	"github.com/eduplex/perfmetrics/internal/model"
)

// BeaconSink posts metric batches as a JSON array to the beacon ingest
// endpoint. Write is the confirmed path (error returned, batch eligible
// for requeue); Send is the fire-and-forget path used at shutdown,
// where failure handling is no longer possible.
type BeaconSink struct {
	url     string
	hashKey string
	client  *http.Client
}

func NewBeaconSink(url, hashKey string) *BeaconSink {
	return &BeaconSink{
		url:     url,
		hashKey: hashKey,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (b *BeaconSink) Write(ctx context.Context, batch []model.Metric) error {
	if len(batch) == 0 {
		return nil
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	compressed, err := compress(body)
	if err != nil {
		return fmt.Errorf("compress batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	if b.hashKey != "" {
		req.Header.Set("HashSHA256", crypto.SignPayload(body, b.hashKey))
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("post batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("beacon endpoint returned %s", resp.Status)
	}
	return nil
}

// Send delivers without confirmation: any failure is logged and
// swallowed, since the caller is tearing down and cannot retry.
func (b *BeaconSink) Send(batch []model.Metric) {
	if err := b.Write(context.Background(), batch); err != nil {
		logger.Log.Error().Err(err).Int("batch", len(batch)).Msg("beacon delivery failed")
	}
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)

	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
