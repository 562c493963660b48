// Package observer translates raw runtime performance signals into
// pipeline metrics. Each observer handles one callback batch of entries
// the way the browser performance timeline delivers them.
package observer

import (
	"errors"
	"time"

	"github.com/eduplex/perfmetrics/internal/logger"
	"github.com/eduplex/perfmetrics/internal/model"
)

// Emitter receives translated metrics; the pipeline implements it.
type Emitter interface {
	Emit(name string, value float64, kind string, extra model.Extra)
}

// ErrUnsupported is returned by an EntrySource when the runtime lacks a
// given performance capability.
var ErrUnsupported = errors.New("performance source unsupported")

// EntrySource delivers raw performance entries from the client runtime.
// Each On* method registers a callback for one entry class and returns
// ErrUnsupported when that class is unavailable.
type EntrySource interface {
	OnPaint(func([]model.PaintEntry)) error
	OnLargestContentfulPaint(func([]model.LargestContentfulPaintEntry)) error
	OnLayoutShift(func([]model.LayoutShiftEntry)) error
	OnInput(func([]model.InputEntry)) error
	OnNavigation(func(model.NavigationEntry)) error
	OnResource(func([]model.ResourceEntry)) error
}

// Options tune observer attachment.
type Options struct {
	// NavigationDelay postpones navigation-timing translation after the
	// load signal so the runtime can finalize timing data. Default 1s.
	NavigationDelay time.Duration
}

// Attach registers every observer against the source. A source class
// that is unavailable is logged at warn and skipped; the rest keep
// working.
func Attach(src EntrySource, e Emitter, opts Options) {
	if opts.NavigationDelay <= 0 {
		opts.NavigationDelay = time.Second
	}

	register := func(name string, err error) {
		if err != nil {
			logger.Log.Warn().Err(err).Str("observer", name).Msg("performance observer unavailable")
		}
	}

	register("paint", src.OnPaint(func(entries []model.PaintEntry) {
		ObservePaint(e, entries)
	}))
	register("largest-contentful-paint", src.OnLargestContentfulPaint(func(entries []model.LargestContentfulPaintEntry) {
		ObserveLargestContentfulPaint(e, entries)
	}))
	register("layout-shift", src.OnLayoutShift(func(entries []model.LayoutShiftEntry) {
		ObserveLayoutShift(e, entries)
	}))
	register("first-input", src.OnInput(func(entries []model.InputEntry) {
		ObserveInput(e, entries)
	}))
	register("navigation", src.OnNavigation(func(entry model.NavigationEntry) {
		time.AfterFunc(opts.NavigationDelay, func() {
			ObserveNavigation(e, entry)
		})
	}))
	register("resource", src.OnResource(func(entries []model.ResourceEntry) {
		ObserveResource(e, entries)
	}))
}
