package model

import "time"

// Metric kinds classify the originating observer, not the unit of Value.
const (
	KindTiming     = "timing"
	KindNavigation = "navigation"
	KindResource   = "resource"
	KindCustom     = "custom"
)

// Metric represents a single performance observation.
// Value is milliseconds for timing metrics, a unitless score for layout
// shift, and bytes for size-oriented custom metrics. A Metric is treated
// as immutable once handed to the pipeline.
type Metric struct {
	Name      string    `json:"metric_name"`
	Value     float64   `json:"metric_value"`
	Kind      string    `json:"metric_type"`
	PageURL   string    `json:"page_url"`
	UserID    string    `json:"user_id,omitempty"`
	UserAgent string    `json:"user_agent"`
	Timestamp time.Time `json:"timestamp"`
	Extra     Extra     `json:"additional_data,omitempty"`
}

// PageContext is the ambient capture context stamped onto every Metric:
// the active page, the client user agent, and the session user if any.
// UserID is empty for anonymous sessions.
type PageContext struct {
	PageURL   string
	UserAgent string
	UserID    string
}

// NewMetric builds a Metric stamped with the given context and the
// current time.
func NewMetric(name string, value float64, kind string, pc PageContext, extra Extra) Metric {
	return Metric{
		Name:      name,
		Value:     value,
		Kind:      kind,
		PageURL:   pc.PageURL,
		UserAgent: pc.UserAgent,
		UserID:    pc.UserID,
		Timestamp: time.Now(),
		Extra:     extra,
	}
}
