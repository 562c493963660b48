package services

import (
	"context"
	"time"

	"github.com/eduplex/perfmetrics/internal/model"
)

// ReportWindow is how far back the operator report looks.
const ReportWindow = 24 * time.Hour

// Lister is the read side of the metric store.
type Lister interface {
	ListSince(ctx context.Context, since time.Time) ([]model.Metric, error)
}

// Summary aggregates all observations sharing a metric name.
type Summary struct {
	Count int     `json:"count"`
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Report is the operator-facing view: the raw window newest-first plus
// per-name aggregates.
type Report struct {
	GeneratedAt time.Time          `json:"generated_at"`
	WindowStart time.Time          `json:"window_start"`
	Metrics     []model.Metric     `json:"metrics"`
	Summary     map[string]Summary `json:"summary"`
}

type ReportService struct {
	store Lister
	now   func() time.Time
}

func NewReportService(store Lister) *ReportService {
	return &ReportService{store: store, now: time.Now}
}

// BuildReport fetches the last 24 hours of metrics and computes the
// per-name summaries.
func (s *ReportService) BuildReport(ctx context.Context) (*Report, error) {
	now := s.now()
	since := now.Add(-ReportWindow)

	metrics, err := s.store.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}

	summary := make(map[string]Summary)
	for _, m := range metrics {
		agg, ok := summary[m.Name]
		if !ok {
			summary[m.Name] = Summary{Count: 1, Avg: m.Value, Min: m.Value, Max: m.Value}
			continue
		}
		total := agg.Avg*float64(agg.Count) + m.Value
		agg.Count++
		agg.Avg = total / float64(agg.Count)
		if m.Value < agg.Min {
			agg.Min = m.Value
		}
		if m.Value > agg.Max {
			agg.Max = m.Value
		}
		summary[m.Name] = agg
	}

	return &Report{
		GeneratedAt: now,
		WindowStart: since,
		Metrics:     metrics,
		Summary:     summary,
	}, nil
}
