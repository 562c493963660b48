// Package vitals classifies web-vital measurements against the
// externally defined good/poor thresholds.
package vitals

// Score is a qualitative rating bucket for a measurement.
type Score string

const (
	Good             Score = "good"
	NeedsImprovement Score = "needs-improvement"
	Poor             Score = "poor"
)

type threshold struct {
	good float64 // inclusive upper bound for Good
	poor float64 // exclusive lower bound for Poor
}

// Thresholds for the standard web vitals. Timing vitals are in
// milliseconds; CLS is a unitless score.
var thresholds = map[string]threshold{
	"FCP":  {good: 1800, poor: 3000},
	"LCP":  {good: 2500, poor: 4000},
	"FID":  {good: 100, poor: 300},
	"CLS":  {good: 0.1, poor: 0.25},
	"TTFB": {good: 800, poor: 1800},
}

// Rating maps a metric name and value to a Score. Names without a known
// threshold rate Good, so unknown custom metrics are never flagged poor
// by accident.
func Rating(name string, value float64) Score {
	t, ok := thresholds[name]
	if !ok {
		return Good
	}
	switch {
	case value <= t.good:
		return Good
	case value > t.poor:
		return Poor
	default:
		return NeedsImprovement
	}
}
