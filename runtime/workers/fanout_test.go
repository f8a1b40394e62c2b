package workers

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-rooms/contract"
	"chat-rooms/domain/event"
)

// fakeRegistry returns a fixed set of queries for every event.
type fakeRegistry struct {
	queries []contract.LiveQuery
}

func (r *fakeRegistry) Subscribe(q contract.LiveQuery) { r.queries = append(r.queries, q) }
func (r *fakeRegistry) Unsubscribe(string)             {}
func (r *fakeRegistry) Affected(e event.DomainEvent) []contract.LiveQuery {
	var affected []contract.LiveQuery
	for _, q := range r.queries {
		if q.Affected == nil || q.Affected(e) {
			affected = append(affected, q)
		}
	}
	return affected
}

type recordingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (s *recordingSink) Consume(_ context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestFanout_Delivers_To_Sinks_And_Affected_Queries(t *testing.T) {
	req := require.New(t)
	registry := &fakeRegistry{}

	refreshed := 0
	registry.Subscribe(contract.LiveQuery{
		ID:       "watching-room-1",
		Affected: func(e event.DomainEvent) bool { return e.RoomID() == "room-1" },
		Refresh:  func(ctx context.Context) error { refreshed++; return nil },
	})

	sink := &recordingSink{}
	fanout := NewLiveQueryFanout(slog.New(slog.DiscardHandler), make(chan event.DomainEvent), registry, time.Second).Add(sink)

	// Event in the watched room reaches both the sink and the query
	fanout.Fanout(context.Background(), event.MessageSent{Room: "room-1"})
	req.Equal(1, sink.Count())
	req.Equal(1, refreshed)

	// Event elsewhere reaches only the sink
	fanout.Fanout(context.Background(), event.MessageSent{Room: "room-2"})
	req.Equal(2, sink.Count())
	req.Equal(1, refreshed)
}

func TestFanout_Failing_Listener_Does_Not_Stop_The_Rest(t *testing.T) {
	req := require.New(t)
	registry := &fakeRegistry{}

	refreshed := 0
	registry.Subscribe(contract.LiveQuery{
		ID:      "broken",
		Refresh: func(ctx context.Context) error { return context.DeadlineExceeded },
	})
	registry.Subscribe(contract.LiveQuery{
		ID:      "healthy",
		Refresh: func(ctx context.Context) error { refreshed++; return nil },
	})

	fanout := NewLiveQueryFanout(slog.New(slog.DiscardHandler), make(chan event.DomainEvent), registry, time.Second)
	fanout.Fanout(context.Background(), event.RoomCreated{})

	req.Equal(1, refreshed)
}

func TestFanout_Run_Drains_Until_Canceled(t *testing.T) {
	req := require.New(t)
	events := make(chan event.DomainEvent, 4)
	sink := &recordingSink{}
	fanout := NewLiveQueryFanout(slog.New(slog.DiscardHandler), events, &fakeRegistry{}, time.Second).Add(sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = fanout.Run(ctx)
		close(done)
	}()

	events <- event.MessageSent{Room: "room-1"}
	req.Eventually(func() bool { return sink.Count() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("fanout did not stop")
	}
}
