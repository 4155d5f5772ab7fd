package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/wb-go/wbf/zlog"

	"github.com/ben-gunnels/advert-bot/internal/model"
)

// handler processes one accepted event end to end.
type handler interface {
	Handle(ctx context.Context, ev model.Event) error
}

// Result records the outcome of one handled event for the
// observability sink.
type Result struct {
	Event model.Event
	Err   error
}

// Dispatcher runs a fixed worker pool over accepted events. Submission
// never blocks the webhook path; each worker recovers panics so a bad
// event cannot take down the accepting process.
type Dispatcher struct {
	handler handler
	tasks   chan model.Event
	results chan Result
	wg      sync.WaitGroup
}

// New creates a Dispatcher with the given queue capacity.
func New(h handler, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Dispatcher{
		handler: h,
		tasks:   make(chan model.Event, queueSize),
		results: make(chan Result, queueSize),
	}
}

// Start launches n workers. Workers drain the queue and exit once the
// context is canceled or the queue is closed. Someone must consume
// Results (see LogResults) or the pool will stall.
func (d *Dispatcher) Start(ctx context.Context, n int) {
	if n <= 0 {
		n = 1
	}

	for i := 0; i < n; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Submit enqueues an accepted event. Returns false when the queue is
// full; the event is dropped and the transport layer may redeliver.
func (d *Dispatcher) Submit(ev model.Event) bool {
	select {
	case d.tasks <- ev:
		return true
	default:
		zlog.Logger.Warn().
			Str("channel", ev.Channel).
			Msg("dispatch queue full, dropping event")
		return false
	}
}

// Stop waits for in-flight events to finish and closes the result sink.
func (d *Dispatcher) Stop() {
	close(d.tasks)
	d.wg.Wait()
	close(d.results)
}

// Results exposes the outcome stream for tests and external sinks.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			zlog.Logger.Info().Int("worker", id).Msg("dispatcher worker stopping")
			return
		case ev, ok := <-d.tasks:
			if !ok {
				return
			}
			d.results <- Result{Event: ev, Err: d.handle(ctx, ev)}
		}
	}
}

// handle invokes the handler and converts panics into errors so one
// event's failure never crashes the pool.
func (d *Dispatcher) handle(ctx context.Context, ev model.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while handling event: %v", r)
		}
	}()

	return d.handler.Handle(ctx, ev)
}

// LogResults drains a result stream into the process log. Failures have
// already been surfaced to the user by the orchestrator; this is pure
// observability. Returns when the stream closes.
func LogResults(results <-chan Result) {
	for res := range results {
		if res.Err != nil {
			zlog.Logger.Err(res.Err).
				Str("channel", res.Event.Channel).
				Str("user", res.Event.User).
				Msg("event handling finished with errors")
			continue
		}
		zlog.Logger.Info().
			Str("channel", res.Event.Channel).
			Str("user", res.Event.User).
			Msg("event handled")
	}
}
