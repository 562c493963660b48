package observer

import (
	"strings"

	"github.com/eduplex/perfmetrics/internal/model"
)

// Sampling thresholds: trivial asset loads below both bounds are not
// worth a queue slot.
const (
	resourceMinDuration = 100    // ms
	resourceMinTransfer = 50_000 // bytes
)

// ObserveResource emits resource_timing for each entry that clears the
// sampling filter: duration over 100ms or more than 50KB transferred.
func ObserveResource(e Emitter, entries []model.ResourceEntry) {
	for _, entry := range entries {
		if entry.Duration <= resourceMinDuration && entry.TransferSize <= resourceMinTransfer {
			continue
		}
		e.Emit("resource_timing", entry.Duration, model.KindResource, model.ResourceTimingExtra{
			Resource:     entry.Name,
			ResourceType: inferResourceType(entry.Name),
			TransferSize: entry.TransferSize,
			EncodedSize:  entry.EncodedBodySize,
			DecodedSize:  entry.DecodedBodySize,
		})
	}
}

// inferResourceType guesses a resource class from the URL: API calls by
// path prefix, assets by filename extension.
func inferResourceType(url string) string {
	if strings.Contains(url, "/api/") {
		return "api"
	}

	path := url
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	ext := ""
	if i := strings.LastIndex(path, "."); i >= 0 {
		ext = strings.ToLower(path[i+1:])
	}

	switch ext {
	case "js", "mjs":
		return "script"
	case "css":
		return "stylesheet"
	case "png", "jpg", "jpeg", "gif", "webp", "svg", "ico", "avif":
		return "image"
	case "woff", "woff2", "ttf", "otf", "eot":
		return "font"
	default:
		return "other"
	}
}
