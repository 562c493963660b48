package model

// Raw performance entries as reported by the client runtime, before
// translation into Metrics. Field names follow the performance-timeline
// conventions; all times are milliseconds relative to navigation start
// unless stated otherwise.

// PaintEntry is a paint-timing entry ("first-paint",
// "first-contentful-paint").
type PaintEntry struct {
	Name      string
	StartTime float64
}

// LargestContentfulPaintEntry is one LCP candidate. A single callback
// may carry several candidates; only the last is authoritative.
type LargestContentfulPaintEntry struct {
	StartTime float64
	Element   string // tag name of the paint target, may be empty
}

// LayoutShiftEntry is one layout-shift record. Shifts that happened
// within the input-exclusion window do not count toward CLS.
type LayoutShiftEntry struct {
	Value          float64
	HadRecentInput bool
}

// InputEntry is a first-input timing record.
type InputEntry struct {
	EventType       string
	StartTime       float64
	ProcessingStart float64
}

// NavigationEntry is the single navigation-timing record for a page
// load.
type NavigationEntry struct {
	DomainLookupStart     float64
	DomainLookupEnd       float64
	ConnectStart          float64
	ConnectEnd            float64
	SecureConnectionStart float64
	RequestStart          float64
	ResponseStart         float64
	DOMInteractive        float64
	DOMComplete           float64
	LoadEventEnd          float64
}

// ResourceEntry is one resource-timing record.
type ResourceEntry struct {
	Name            string // resource URL
	Duration        float64
	TransferSize    int64
	EncodedBodySize int64
	DecodedBodySize int64
}
