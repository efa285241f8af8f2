package usecase

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/evolvus/dateformats/domain"
	"github.com/evolvus/dateformats/ports"
)

// AuditEmitter decouples audit delivery from request paths. Publish enqueues
// without blocking; a background loop forwards events to the sink. When the
// queue is full events are dropped with a log line, and sink failures are
// logged, never propagated.
type AuditEmitter struct {
	sink    ports.AuditPublisher
	queue   chan domain.AuditEvent
	timeout time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	publishedTotal atomic.Int64
	failedTotal    atomic.Int64
	droppedTotal   atomic.Int64
}

// AuditEmitterMetrics is a snapshot of delivery counters.
type AuditEmitterMetrics struct {
	PublishedTotal int64
	FailedTotal    int64
	DroppedTotal   int64
}

func NewAuditEmitter(sink ports.AuditPublisher, queueSize int, publishTimeout time.Duration) *AuditEmitter {
	if queueSize <= 0 {
		queueSize = 256
	}
	if publishTimeout <= 0 {
		publishTimeout = 5 * time.Second
	}
	return &AuditEmitter{
		sink:    sink,
		queue:   make(chan domain.AuditEvent, queueSize),
		timeout: publishTimeout,
	}
}

func (e *AuditEmitter) Start(parent context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	e.cancel = cancel
	e.wg.Add(1)
	go e.loop(ctx)
}

// Close stops the loop after draining whatever is already queued.
func (e *AuditEmitter) Close() error {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
	return nil
}

// Publish enqueues the event. It never blocks and never returns an error;
// a full queue drops the event with a log line.
func (e *AuditEmitter) Publish(_ context.Context, event domain.AuditEvent) error {
	select {
	case e.queue <- event:
	default:
		e.droppedTotal.Add(1)
		log.Printf("audit queue full, dropping event %s", event.Name)
	}
	return nil
}

var _ ports.AuditPublisher = (*AuditEmitter)(nil)

func (e *AuditEmitter) loop(ctx context.Context) {
	defer e.wg.Done()
	for {
		select {
		case event := <-e.queue:
			e.deliver(event)
		case <-ctx.Done():
			e.drain()
			return
		}
	}
}

// drain flushes queued events after cancellation so Close does not lose the
// tail of the audit trail.
func (e *AuditEmitter) drain() {
	for {
		select {
		case event := <-e.queue:
			e.deliver(event)
		default:
			return
		}
	}
}

func (e *AuditEmitter) deliver(event domain.AuditEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	if err := e.sink.Publish(ctx, event); err != nil {
		e.failedTotal.Add(1)
		log.Printf("audit deliver %s: %v", event.Name, err)
		return
	}
	e.publishedTotal.Add(1)
}

func (e *AuditEmitter) Metrics() AuditEmitterMetrics {
	return AuditEmitterMetrics{
		PublishedTotal: e.publishedTotal.Load(),
		FailedTotal:    e.failedTotal.Load(),
		DroppedTotal:   e.droppedTotal.Load(),
	}
}
