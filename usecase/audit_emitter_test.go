package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/evolvus/dateformats/domain"
)

type stubSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (s *stubSink) Publish(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *stubSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestEmitterDeliversQueuedEvents(t *testing.T) {
	sink := &stubSink{}
	emitter := NewAuditEmitter(sink, 16, time.Second)
	emitter.Start(context.Background())

	for i := 0; i < 3; i++ {
		event := domain.NewAuditEvent("PLATFORM", "supportedDateFormats", "supportedDateFormats_save", "", "", domain.AuditStatusSuccess, nil, "")
		if err := emitter.Publish(context.Background(), event); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	if err := emitter.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := sink.count(); got != 3 {
		t.Fatalf("expected 3 delivered events, got %d", got)
	}

	metrics := emitter.Metrics()
	if metrics.PublishedTotal != 3 || metrics.FailedTotal != 0 || metrics.DroppedTotal != 0 {
		t.Fatalf("unexpected metrics %+v", metrics)
	}
}

func TestEmitterCloseDrainsQueue(t *testing.T) {
	sink := &stubSink{}
	emitter := NewAuditEmitter(sink, 16, time.Second)

	// Events queued before Start must survive Close's drain.
	for i := 0; i < 4; i++ {
		_ = emitter.Publish(context.Background(), domain.AuditEvent{Name: "supportedDateFormats_getAll"})
	}
	emitter.Start(context.Background())
	if err := emitter.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if got := sink.count(); got != 4 {
		t.Fatalf("expected 4 delivered events after drain, got %d", got)
	}
}

func TestEmitterSinkFailureIsSwallowed(t *testing.T) {
	sink := &stubSink{err: errors.New("docket unreachable")}
	emitter := NewAuditEmitter(sink, 16, time.Second)
	emitter.Start(context.Background())

	if err := emitter.Publish(context.Background(), domain.AuditEvent{Name: "supportedDateFormats_save"}); err != nil {
		t.Fatalf("publish must not propagate sink failures, got %v", err)
	}
	if err := emitter.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	metrics := emitter.Metrics()
	if metrics.FailedTotal != 1 {
		t.Fatalf("expected 1 failed delivery, got %+v", metrics)
	}
}

func TestEmitterDropsWhenQueueFull(t *testing.T) {
	sink := &stubSink{}
	emitter := NewAuditEmitter(sink, 1, time.Second)
	// Not started: the queue cannot drain, so the second publish drops.

	_ = emitter.Publish(context.Background(), domain.AuditEvent{Name: "a"})
	_ = emitter.Publish(context.Background(), domain.AuditEvent{Name: "b"})

	metrics := emitter.Metrics()
	if metrics.DroppedTotal != 1 {
		t.Fatalf("expected 1 dropped event, got %+v", metrics)
	}

	emitter.Start(context.Background())
	if err := emitter.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestEmitterStartIsIdempotent(t *testing.T) {
	emitter := NewAuditEmitter(&stubSink{}, 4, time.Second)
	ctx := context.Background()
	emitter.Start(ctx)
	emitter.Start(ctx)
	if err := emitter.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
