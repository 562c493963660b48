package model

import (
	"encoding/json"
	"time"
)

// Extra is the supplementary payload attached to a Metric. Each metric
// family carries its own typed variant; on the wire every variant
// flattens into the open additional_data object, so consumers must not
// assume a fixed key set.
type Extra interface {
	Fields() map[string]any
}

// VitalExtra accompanies web-vital metrics (FCP, LCP, CLS, FID).
type VitalExtra struct {
	Rating    string // classification from the vitals package
	Element   string // LCP paint target tag name, when known
	EventType string // FID input event name
}

func (e VitalExtra) Fields() map[string]any {
	f := map[string]any{}
	if e.Rating != "" {
		f["rating"] = e.Rating
	}
	if e.Element != "" {
		f["element"] = e.Element
	}
	if e.EventType != "" {
		f["eventType"] = e.EventType
	}
	return f
}

// ResourceTimingExtra accompanies resource_timing metrics.
type ResourceTimingExtra struct {
	Resource     string
	ResourceType string
	TransferSize int64
	EncodedSize  int64
	DecodedSize  int64
}

func (e ResourceTimingExtra) Fields() map[string]any {
	return map[string]any{
		"resource":     e.Resource,
		"resourceType": e.ResourceType,
		"transferSize": e.TransferSize,
		"encodedSize":  e.EncodedSize,
		"decodedSize":  e.DecodedSize,
	}
}

// APICallExtra accompanies api_response_time metrics.
type APICallExtra struct {
	Status int
	APIURL string
	Method string
}

func (e APICallExtra) Fields() map[string]any {
	return map[string]any{
		"status": e.Status,
		"apiUrl": e.APIURL,
		"method": e.Method,
	}
}

// APIErrorExtra accompanies api_error metrics. Message holds the
// transport error text in place of a status code.
type APIErrorExtra struct {
	Message string
	APIURL  string
	Method  string
}

func (e APIErrorExtra) Fields() map[string]any {
	return map[string]any{
		"error":  e.Message,
		"apiUrl": e.APIURL,
		"method": e.Method,
	}
}

// RenderExtra accompanies component_render_time metrics.
type RenderExtra struct {
	Component string
}

func (e RenderExtra) Fields() map[string]any {
	return map[string]any{"component": e.Component}
}

// CustomExtra is the open-map variant for caller-supplied custom
// metrics and for records decoded from the wire, where the original
// variant is not recoverable.
type CustomExtra map[string]any

func (e CustomExtra) Fields() map[string]any { return e }

// wireMetric is the JSON/DB shape from the remote store contract.
type wireMetric struct {
	Name      string         `json:"metric_name"`
	Value     float64        `json:"metric_value"`
	Kind      string         `json:"metric_type"`
	PageURL   string         `json:"page_url"`
	UserID    string         `json:"user_id,omitempty"`
	UserAgent string         `json:"user_agent"`
	Timestamp time.Time      `json:"timestamp"`
	Extra     map[string]any `json:"additional_data,omitempty"`
}

// MarshalJSON flattens the typed Extra variant into additional_data.
func (m Metric) MarshalJSON() ([]byte, error) {
	w := wireMetric{
		Name:      m.Name,
		Value:     m.Value,
		Kind:      m.Kind,
		PageURL:   m.PageURL,
		UserID:    m.UserID,
		UserAgent: m.UserAgent,
		Timestamp: m.Timestamp,
	}
	if m.Extra != nil {
		if f := m.Extra.Fields(); len(f) > 0 {
			w.Extra = f
		}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes additional_data into the open CustomExtra
// variant; the originating typed variant is not recoverable on the
// read side.
func (m *Metric) UnmarshalJSON(data []byte) error {
	var w wireMetric
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.Name = w.Name
	m.Value = w.Value
	m.Kind = w.Kind
	m.PageURL = w.PageURL
	m.UserID = w.UserID
	m.UserAgent = w.UserAgent
	m.Timestamp = w.Timestamp
	m.Extra = nil
	if len(w.Extra) > 0 {
		m.Extra = CustomExtra(w.Extra)
	}
	return nil
}
