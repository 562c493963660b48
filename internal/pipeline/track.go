package pipeline

import (
	"time"

	"github.com/eduplex/perfmetrics/internal/model"
)

// Manual instrumentation surface for application code. These never
// return errors and never panic; a failing pipeline degrades to metrics
// silently not being recorded.

// TrackCustomMetric records one caller-defined observation.
func (p *Pipeline) TrackCustomMetric(name string, value float64, extra model.CustomExtra) {
	var e model.Extra
	if len(extra) > 0 {
		e = extra
	}
	p.Emit(name, value, model.KindCustom, e)
}

// TrackPageLoadTime records the full page-load duration.
func (p *Pipeline) TrackPageLoadTime(d time.Duration) {
	p.Emit("page_load_time", float64(d.Milliseconds()), model.KindTiming, nil)
}

// TrackComponentRenderTime records how long a single UI component took
// to render.
func (p *Pipeline) TrackComponentRenderTime(component string, d time.Duration) {
	p.Emit("component_render_time", float64(d.Milliseconds()), model.KindCustom, model.RenderExtra{Component: component})
}
