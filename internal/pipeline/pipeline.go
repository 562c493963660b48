// Package pipeline buffers performance metrics in memory and delivers
// them to a sink in batches, triggered by queue size or a flush timer.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/eduplex/perfmetrics/internal/logger"
	"github.com/eduplex/perfmetrics/internal/model"
)

// Sink persists one batch of metrics. A returned error means the whole
// batch failed and is eligible for requeue; partial delivery is not a
// sink concern.
type Sink interface {
	Write(ctx context.Context, batch []model.Metric) error
}

// Beacon is the fire-and-forget delivery path used at shutdown, when a
// confirmed round trip can no longer be waited for.
type Beacon interface {
	Send(batch []model.Metric)
}

const (
	defaultBatchSize     = 10
	defaultFlushInterval = 30 * time.Second
	defaultQueueCap      = 1000
)

// Options tune a Pipeline. Zero values fall back to defaults.
type Options struct {
	BatchSize     int
	FlushInterval time.Duration
	QueueCap      int
	Page          model.PageContext
	Beacon        Beacon
	Clock         Clock
}

// Pipeline is the owned singleton replacing the usual module-level
// metrics globals: one queue, one timer, explicit Start/Stop.
type Pipeline struct {
	mu    sync.Mutex
	queue []model.Metric
	page  model.PageContext

	batchSize     int
	flushInterval time.Duration
	queueCap      int

	sink   Sink
	beacon Beacon
	clock  Clock

	startOnce sync.Once
	stopOnce  sync.Once
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

func New(sink Sink, opts Options) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = defaultFlushInterval
	}
	if opts.QueueCap <= 0 {
		opts.QueueCap = defaultQueueCap
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}

	return &Pipeline{
		page:          opts.Page,
		batchSize:     opts.BatchSize,
		flushInterval: opts.FlushInterval,
		queueCap:      opts.QueueCap,
		sink:          sink,
		beacon:        opts.Beacon,
		clock:         opts.Clock,
		stopChan:      make(chan struct{}),
	}
}

// Start arms the flush timer. Metrics may be tracked before Start; they
// simply wait for the first trigger.
func (p *Pipeline) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		tick, stop := p.clock.Tick(p.flushInterval)

		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			defer stop()

			for {
				select {
				case <-tick:
					p.Flush(ctx)
				case <-p.stopChan:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	})
}

// Stop disarms the timer, performs a final flush through the normal
// sink, and hands anything still undelivered to the beacon path.
// Idempotent.
func (p *Pipeline) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
		p.wg.Wait()

		p.Flush(context.Background())

		p.mu.Lock()
		rest := p.queue
		p.queue = nil
		p.mu.Unlock()

		if len(rest) > 0 && p.beacon != nil {
			p.beacon.Send(rest)
		}
	})
}

// Track appends a metric to the queue and flushes immediately once the
// batch-size threshold is reached. It never returns an error; a full
// queue drops the new record with a log line.
func (p *Pipeline) Track(m model.Metric) {
	p.mu.Lock()
	if len(p.queue) >= p.queueCap {
		p.mu.Unlock()
		logger.Log.Warn().Str("metric", m.Name).Msg("metric queue full, dropping record")
		return
	}
	p.queue = append(p.queue, m)
	full := len(p.queue) >= p.batchSize
	p.mu.Unlock()

	if full {
		p.Flush(context.Background())
	}
}

// Flush snapshots and clears the queue in one critical section, then
// hands the snapshot to the sink. A failed batch goes back to the front
// of the live queue, whole, for the next trigger. Empty queue is a
// no-op.
func (p *Pipeline) Flush(ctx context.Context) {
	p.mu.Lock()
	if len(p.queue) == 0 {
		p.mu.Unlock()
		return
	}
	batch := p.queue
	p.queue = nil
	p.mu.Unlock()

	if err := p.sink.Write(ctx, batch); err != nil {
		logger.Log.Error().Err(err).Int("batch", len(batch)).Msg("metric batch delivery failed, requeueing")
		p.requeue(batch)
	}
}

// requeue puts a failed batch back ahead of records that arrived while
// it was in flight. When the merge would overflow the cap, the oldest
// requeued records are dropped first.
func (p *Pipeline) requeue(batch []model.Metric) {
	p.mu.Lock()
	defer p.mu.Unlock()

	merged := append(batch, p.queue...)
	if len(merged) > p.queueCap {
		dropped := len(merged) - p.queueCap
		merged = merged[dropped:]
		logger.Log.Warn().Int("dropped", dropped).Msg("metric queue overflow on requeue")
	}
	p.queue = merged
}

// Len reports the number of queued metrics.
func (p *Pipeline) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// SetPage updates the active page URL stamped onto new metrics.
func (p *Pipeline) SetPage(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page.PageURL = url
}

// SetUser records the active session user; ClearUser reverts to
// anonymous capture.
func (p *Pipeline) SetUser(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page.UserID = id
}

func (p *Pipeline) ClearUser() {
	p.SetUser("")
}

func (p *Pipeline) pageContext() model.PageContext {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Emit constructs a metric from the pipeline's capture context and
// tracks it. Observers and the transport wrapper go through here.
func (p *Pipeline) Emit(name string, value float64, kind string, extra model.Extra) {
	m := model.NewMetric(name, value, kind, p.pageContext(), extra)
	m.Timestamp = p.clock.Now()
	p.Track(m)
}
