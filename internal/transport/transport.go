// Package transport instruments an HTTP client so API calls are timed
// into the metrics pipeline. It replaces the original global-fetch
// patching with an explicit RoundTripper decorator the application
// injects into its client.
package transport

import (
	"net/http"
	"strings"
	"time"

	"github.com/eduplex/perfmetrics/internal/model"
)

// Emitter receives call timings; the pipeline implements it.
type Emitter interface {
	Emit(name string, value float64, kind string, extra model.Extra)
}

type roundTripper struct {
	base    http.RoundTripper
	emitter Emitter
	hosts   []string
}

// New wraps base so requests to instrumented targets are timed. A
// request is instrumented when its path contains "/api/" or its host is
// one of hosts (the remote-store host, typically). base defaults to
// http.DefaultTransport.
func New(base http.RoundTripper, e Emitter, hosts ...string) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &roundTripper{base: base, emitter: e, hosts: hosts}
}

// InstrumentClient swaps the client's transport for an instrumented one.
func InstrumentClient(c *http.Client, e Emitter, hosts ...string) {
	c.Transport = New(c.Transport, e, hosts...)
}

// RoundTrip is transparent to the caller: the response and any error
// pass through unchanged, with a metric emitted on the side.
func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if !rt.instrumented(req) {
		return rt.base.RoundTrip(req)
	}

	start := time.Now()
	resp, err := rt.base.RoundTrip(req)
	elapsed := float64(time.Since(start).Milliseconds())

	if err != nil {
		rt.emitter.Emit("api_error", elapsed, model.KindCustom, model.APIErrorExtra{
			Message: err.Error(),
			APIURL:  req.URL.String(),
			Method:  req.Method,
		})
		return resp, err
	}

	rt.emitter.Emit("api_response_time", elapsed, model.KindCustom, model.APICallExtra{
		Status: resp.StatusCode,
		APIURL: req.URL.String(),
		Method: req.Method,
	})
	return resp, nil
}

func (rt *roundTripper) instrumented(req *http.Request) bool {
	if strings.Contains(req.URL.Path, "/api/") {
		return true
	}
	for _, h := range rt.hosts {
		if req.URL.Host == h {
			return true
		}
	}
	return false
}
