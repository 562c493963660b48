package observer

import (
	"github.com/eduplex/perfmetrics/internal/model"
	"github.com/eduplex/perfmetrics/internal/vitals"
)

// ObserveNavigation derives the fixed set of navigation durations from
// the page's single navigation-timing record. Durations that come out
// negative (missing phases, e.g. no TLS on plain HTTP) are skipped.
func ObserveNavigation(e Emitter, n model.NavigationEntry) {
	emit := func(name string, value float64) {
		if value <= 0 {
			return
		}
		e.Emit(name, value, model.KindNavigation, nil)
	}

	emit("dns_lookup", n.DomainLookupEnd-n.DomainLookupStart)
	emit("tcp_connect", n.ConnectEnd-n.ConnectStart)
	if n.SecureConnectionStart > 0 {
		emit("ssl_negotiation", n.ConnectEnd-n.SecureConnectionStart)
	}
	emit("dom_interactive", n.DOMInteractive)
	emit("dom_complete", n.DOMComplete)
	emit("load_complete", n.LoadEventEnd)

	ttfb := n.ResponseStart - n.RequestStart
	if ttfb > 0 {
		e.Emit("TTFB", ttfb, model.KindNavigation, model.VitalExtra{
			Rating: string(vitals.Rating("TTFB", ttfb)),
		})
	}
}
