package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"chat-rooms/contract"
	"chat-rooms/domain/event"
	"chat-rooms/runtime/workers"
)

// Engine owns the event channel and the supervised workers around it.
// Services publish into the engine after each write; the fanout worker
// turns those events into live-query refreshes for registered listeners.
type Engine struct {
	mu          sync.Mutex
	log         *slog.Logger
	supervisor  contract.ISupervisor
	registry    contract.IRegistry
	events      chan event.DomainEvent
	sinks       []contract.EventSink
	extras      []contract.Worker
	sinkTimeout time.Duration
	started     bool
}

func NewEngine(log *slog.Logger, supervisor contract.ISupervisor, registry contract.IRegistry,
	bufferSize int, sinkTimeout time.Duration) *Engine {
	return &Engine{
		log:         log,
		supervisor:  supervisor,
		registry:    registry,
		events:      make(chan event.DomainEvent, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// Publish hands an event to the fanout worker. It never blocks the write
// path: when the buffer is full the event is dropped with a warning, and
// the next relevant write will trigger the refresh instead.
func (e *Engine) Publish(evt event.DomainEvent) {
	select {
	case e.events <- evt:
	default:
		e.log.Warn("Event channel full, dropping event", "room", evt.RoomID())
	}
}

// Subscribe registers a live query. The first refresh is pushed
// immediately so a new listener never starts from a blank screen.
func (e *Engine) Subscribe(ctx context.Context, q contract.LiveQuery) string {
	e.registry.Subscribe(q)
	refreshCtx, cancel := context.WithTimeout(ctx, e.sinkTimeout)
	defer cancel()
	if err := q.Refresh(refreshCtx); err != nil {
		e.log.Warn("Initial refresh failed", "subscription", q.ID, "error", err)
	}
	return q.ID
}

func (e *Engine) Unsubscribe(id string) {
	e.registry.Unsubscribe(id)
}

// AddSinks registers permanent event consumers (projections, loggers).
// Must be called before Start.
func (e *Engine) AddSinks(sinks ...contract.EventSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sinks = append(e.sinks, sinks...)
}

// AddWorkers registers extra supervised workers next to the fanout, such
// as the presence sweeper. Must be called before Start.
func (e *Engine) AddWorkers(extra ...contract.Worker) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.extras = append(e.extras, extra...)
}

// Start wires the fanout and the extra workers under the supervisor and
// runs them until ctx is canceled or Stop is called.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		e.log.Info("Engine already started")
		return
	}
	e.started = true

	fanout := workers.NewLiveQueryFanout(e.log, e.events, e.registry, e.sinkTimeout).Add(e.sinks...)
	e.supervisor.Add(fanout)
	for _, w := range e.extras {
		e.supervisor.Add(w)
	}
	e.mu.Unlock()

	e.log.Info("Starting engine and all supervised workers")
	go e.supervisor.Run(ctx)
}

// Stop cancels the supervised workers. Safe to call more than once.
func (e *Engine) Stop() {
	e.supervisor.Stop()
}
