package observer

import (
	"github.com/eduplex/perfmetrics/internal/model"
	"github.com/eduplex/perfmetrics/internal/vitals"
)

// ObservePaint emits FCP for the first-contentful-paint entry of a
// paint-timing callback. Other paint entries are ignored.
func ObservePaint(e Emitter, entries []model.PaintEntry) {
	for _, entry := range entries {
		if entry.Name != "first-contentful-paint" {
			continue
		}
		e.Emit("FCP", entry.StartTime, model.KindTiming, model.VitalExtra{
			Rating: string(vitals.Rating("FCP", entry.StartTime)),
		})
	}
}

// ObserveLargestContentfulPaint emits one LCP per callback, using only
// the last candidate; earlier candidates in the same firing are
// superseded.
func ObserveLargestContentfulPaint(e Emitter, entries []model.LargestContentfulPaintEntry) {
	if len(entries) == 0 {
		return
	}
	last := entries[len(entries)-1]
	e.Emit("LCP", last.StartTime, model.KindTiming, model.VitalExtra{
		Rating:  string(vitals.Rating("LCP", last.StartTime)),
		Element: last.Element,
	})
}

// ObserveLayoutShift accumulates shift values across a callback,
// skipping shifts caused by recent user input, and emits CLS only when
// the sum is positive.
func ObserveLayoutShift(e Emitter, entries []model.LayoutShiftEntry) {
	var total float64
	for _, entry := range entries {
		if entry.HadRecentInput {
			continue
		}
		total += entry.Value
	}
	if total <= 0 {
		return
	}
	e.Emit("CLS", total, model.KindTiming, model.VitalExtra{
		Rating: string(vitals.Rating("CLS", total)),
	})
}

// ObserveInput emits one FID per qualifying input entry; the value is
// the delay between the event and the start of its processing.
func ObserveInput(e Emitter, entries []model.InputEntry) {
	for _, entry := range entries {
		delay := entry.ProcessingStart - entry.StartTime
		if delay < 0 {
			continue
		}
		e.Emit("FID", delay, model.KindTiming, model.VitalExtra{
			Rating:    string(vitals.Rating("FID", delay)),
			EventType: entry.EventType,
		})
	}
}
