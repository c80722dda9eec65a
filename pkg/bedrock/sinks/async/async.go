// Package async provides a sink wrapper with a bounded queue. This is the
// bounded-latency alternative to the diagnostic logger's blocking writes:
// Write returns immediately, events drain in the background, and the oldest
// events are dropped when the queue is full.
package async

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sentinel-mon/sentinel/pkg/bedrock"
)

// AsyncSinkOption configures the async sink.
type AsyncSinkOption func(*asyncSinkConfig)

type asyncSinkConfig struct {
	queueSize int
	onDropped func(count int)
}

// WithQueueSize sets the maximum number of queued events (default: 1000).
func WithQueueSize(size int) AsyncSinkOption {
	return func(c *asyncSinkConfig) {
		if size > 0 {
			c.queueSize = size
		}
	}
}

// WithOnDropped sets a callback invoked when events are dropped due to
// queue overflow.
func WithOnDropped(fn func(count int)) AsyncSinkOption {
	return func(c *asyncSinkConfig) {
		c.onDropped = fn
	}
}

// asyncSink wraps a sink with a bounded queue.
type asyncSink struct {
	inner     bedrock.Sink
	queue     chan bedrock.FaultEvent
	done      chan struct{}
	closeOnce sync.Once
	closeMu   sync.Mutex
	closed    bool
	wg        sync.WaitGroup
	onDropped func(count int)
}

// NewAsyncSink wraps a sink with a bounded queue for async writes.
// Write returns immediately; events are processed in the background.
// When the queue is full, the oldest event is dropped to make room.
func NewAsyncSink(inner bedrock.Sink, opts ...AsyncSinkOption) bedrock.Sink {
	cfg := &asyncSinkConfig{
		queueSize: 1000,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &asyncSink{
		inner:     inner,
		queue:     make(chan bedrock.FaultEvent, cfg.queueSize),
		done:      make(chan struct{}),
		onDropped: cfg.onDropped,
	}

	s.wg.Add(1)
	go s.processLoop()

	return s
}

// processLoop delivers queued fault events to the inner sink. Delivery is
// best-effort: a failing inner sink must never surface back to a faulting
// goroutine, so write errors are swallowed here.
func (s *asyncSink) processLoop() {
	defer s.wg.Done()
	for {
		select {
		case event, ok := <-s.queue:
			if !ok {
				return
			}
			_ = s.inner.Write(context.Background(), event)
		case <-s.done:
			// Close has been called; hand off whatever a final fault
			// burst left queued, then stop.
			for {
				select {
				case event, ok := <-s.queue:
					if !ok {
						return
					}
					_ = s.inner.Write(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Write enqueues an event for async processing.
// Returns immediately. If the queue is full, drops the oldest event.
func (s *asyncSink) Write(ctx context.Context, event bedrock.FaultEvent) error {
	s.closeMu.Lock()
	if s.closed {
		s.closeMu.Unlock()
		return errors.New("async sink is closed")
	}
	s.closeMu.Unlock()

	select {
	case s.queue <- event:
		return nil
	default:
		s.dropOldestAndEnqueue(event)
		return nil
	}
}

// dropOldestAndEnqueue sacrifices the oldest queued event to make room for
// the newest one. When faults recur the newest sample carries the same
// fingerprint as the dropped one, so recency wins over completeness.
func (s *asyncSink) dropOldestAndEnqueue(event bedrock.FaultEvent) {
	select {
	case <-s.queue:
		if s.onDropped != nil {
			s.onDropped(1)
		}
	default:
		// The processor emptied the queue between our two selects.
	}

	select {
	case s.queue <- event:
	default:
		// Refilled by concurrent faulters; drop the new event instead.
		if s.onDropped != nil {
			s.onDropped(1)
		}
	}
}

// Flush blocks until every queued fault event has reached the inner sink,
// then flushes that sink. Bounded only by ctx.
func (s *asyncSink) Flush(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if len(s.queue) == 0 {
				// The last event may still be in the processor's hands;
				// one tick of grace before declaring the queue drained.
				time.Sleep(10 * time.Millisecond)
				return s.inner.Flush(ctx)
			}
		}
	}
}

// Close rejects further writes, drains what is queued, stops the processor
// and closes the inner sink. Safe to call more than once.
func (s *asyncSink) Close() error {
	s.closeOnce.Do(func() {
		s.closeMu.Lock()
		s.closed = true
		s.closeMu.Unlock()

		close(s.done)
		s.wg.Wait()
		close(s.queue)
	})

	return s.inner.Close()
}
