package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-rooms/contract"
	"chat-rooms/domain/event"
)

// LiveQueryFanout drains the event channel and, for each event, refreshes
// every affected live query and feeds every permanent sink.
//
// It provides best-effort delivery with no guarantees regarding ordering,
// durability, or retries: a slow listener is cut off by the sink timeout
// and simply misses one refresh, the next relevant write will push a
// fresh result again. It is not a message broker.
type LiveQueryFanout struct {
	log         *slog.Logger
	events      chan event.DomainEvent
	registry    contract.IRegistry
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewLiveQueryFanout(log *slog.Logger, events chan event.DomainEvent,
	registry contract.IRegistry, sinkTimeout time.Duration) *LiveQueryFanout {
	return &LiveQueryFanout{log: log, events: events, registry: registry, sinkTimeout: sinkTimeout}
}

func (w *LiveQueryFanout) Add(sinks ...contract.EventSink) *LiveQueryFanout {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *LiveQueryFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		}
	}
}

// Fanout delivers one event: permanent sinks first, then the live-query
// refreshes. Each delivery gets its own timeout so one stuck listener
// cannot starve the rest.
func (w *LiveQueryFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Sink rejected event", "error", err)
		}
		cancel()
	}
	for _, q := range w.registry.Affected(evt) {
		queryCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := q.Refresh(queryCtx); err != nil {
			w.log.Warn("Live query refresh failed", "subscription", q.ID, "error", err)
		}
		cancel()
	}
}
