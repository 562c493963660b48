package observer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeStopWithoutStart(t *testing.T) {
	rt := NewRuntime(&syncRecorder{}, time.Second)

	done := make(chan struct{})
	go func() {
		defer close(done)
		rt.Stop()
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Stop blocked without a prior Start")
	}
}

func TestRuntimeStartStop(t *testing.T) {
	rec := &syncRecorder{}
	rt := NewRuntime(rec, 5*time.Millisecond)

	rt.Start()
	rt.Start() // second Start is a no-op

	assert.Eventually(t, func() bool {
		return len(rec.names()) > 0
	}, time.Second, 5*time.Millisecond, "runtime observer should emit process samples")

	rt.Stop()

	for _, name := range rec.names() {
		assert.Contains(t, []string{"process_cpu_percent", "process_rss_bytes"}, name)
	}
}
