// Package notify fans user-facing notifications out to pluggable sinks.
// Delivery is asynchronous: callers hand a notification to the dispatcher
// and move on, the worker drains the channel until its context ends.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/factoryhq/console/internal/core/ports"
)

const channelBuffer = 64

// Sink receives notifications from the dispatcher's worker goroutine.
type Sink interface {
	Deliver(n ports.Notification)
}

// Dispatcher implements ports.Notifier. Notifications are advisory; when the
// buffer is full they are dropped with a log line rather than blocking the
// request path.
type Dispatcher struct {
	ch    chan ports.Notification
	sinks []Sink
	log   zerolog.Logger
}

var _ ports.Notifier = (*Dispatcher)(nil)

func NewDispatcher(log zerolog.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		ch:    make(chan ports.Notification, channelBuffer),
		sinks: sinks,
		log:   log,
	}
}

// Start launches the delivery worker. The worker stops when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-d.ch:
				for _, s := range d.sinks {
					s.Deliver(n)
				}
			}
		}
	}()
}

func (d *Dispatcher) Notify(n ports.Notification) {
	select {
	case d.ch <- n:
	default:
		d.log.Warn().Str("title", n.Title).Msg("notification buffer full; dropping")
	}
}

// Direct delivers synchronously to its sinks, with no worker in between.
// Used by the terminal client and by tests that assert on notifications.
type Direct struct {
	Sinks []Sink
}

var _ ports.Notifier = Direct{}

func (d Direct) Notify(n ports.Notification) {
	for _, s := range d.Sinks {
		s.Deliver(n)
	}
}

// LogSink writes notifications to the structured log.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) Deliver(n ports.Notification) {
	evt := s.Log.Info()
	if n.Level == ports.LevelError {
		evt = s.Log.Warn()
	}
	evt.Str("level", string(n.Level)).Str("title", n.Title).Msg(n.Message)
}

// MemorySink records notifications for inspection; used by tests.
type MemorySink struct {
	mu       sync.Mutex
	received []ports.Notification
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Deliver(n ports.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, n)
}

func (s *MemorySink) Notifications() []ports.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.Notification, len(s.received))
	copy(out, s.received)
	return out
}
