package middleware

import (
	"compress/gzip"
	"net/http"

	"github.com/eduplex/perfmetrics/internal/customerrors"
)

// Decompress transparently unwraps gzip-encoded request bodies, which
// is how beacon batches arrive.
func Decompress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Encoding") != "gzip" {
			next.ServeHTTP(w, r)
			return
		}

		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			customerrors.WriteError(w, http.StatusBadRequest, "malformed gzip body")
			return
		}
		defer gz.Close()

		r.Body = gz
		r.Header.Del("Content-Encoding")
		next.ServeHTTP(w, r)
	})
}
