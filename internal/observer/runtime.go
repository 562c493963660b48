package observer

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eduplex/perfmetrics/internal/logger"
	"github.com/eduplex/perfmetrics/internal/model"
)

// Runtime samples the collector's own process on a fixed interval and
// emits the readings as custom metrics. It runs only when explicitly
// started, so environments without process introspection simply leave
// it off.
type Runtime struct {
	emitter  Emitter
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
	started  bool
}

func NewRuntime(e Emitter, interval time.Duration) *Runtime {
	return &Runtime{
		emitter:  e,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins sampling. Failure to open the process handle follows the
// observer-unavailable policy: a warning, then the observer never fires.
func (r *Runtime) Start() {
	if r.started {
		return
	}
	r.started = true

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logger.Log.Warn().Err(err).Msg("runtime observer unavailable")
		close(r.done)
		return
	}

	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.sample(proc)
			case <-r.stopChan:
				return
			}
		}
	}()
}

// Stop halts sampling and waits for the last tick to finish. Safe to
// call even when Start never ran.
func (r *Runtime) Stop() {
	close(r.stopChan)
	if r.started {
		<-r.done
	}
}

func (r *Runtime) sample(proc *process.Process) {
	if cpu, err := proc.CPUPercent(); err == nil {
		r.emitter.Emit("process_cpu_percent", cpu, model.KindCustom, nil)
	}
	if mem, err := proc.MemoryInfo(); err == nil {
		r.emitter.Emit("process_rss_bytes", float64(mem.RSS), model.KindCustom, nil)
	}
}
