package runtime

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-rooms/contract"
	"chat-rooms/domain/event"
	"chat-rooms/runtime/workers"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	return NewEngine(log, workers.NewSupervisor(log, time.Millisecond), NewRegistry(), 16, time.Second)
}

func TestEngine_Subscribe_Pushes_Initial_Refresh(t *testing.T) {
	req := require.New(t)
	engine := newTestEngine(t)

	var refreshes atomic.Int32
	engine.Subscribe(context.Background(), contract.LiveQuery{
		ID:      "sub-1",
		Refresh: func(ctx context.Context) error { refreshes.Add(1); return nil },
	})

	// The listener gets its first result before any event flows
	req.Equal(int32(1), refreshes.Load())
}

func TestEngine_Publish_Refreshes_Affected_Query(t *testing.T) {
	req := require.New(t)
	engine := newTestEngine(t)

	var refreshes atomic.Int32
	engine.Subscribe(context.Background(), contract.LiveQuery{
		ID:       "sub-1",
		Affected: func(e event.DomainEvent) bool { return e.RoomID() == "room-1" },
		Refresh:  func(ctx context.Context) error { refreshes.Add(1); return nil },
	})
	req.Equal(int32(1), refreshes.Load())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.Start(ctx)
	defer engine.Stop()

	// When an event for the watched room flows through
	engine.Publish(event.MessageSent{Room: "room-1"})

	// Then the subscription is refreshed again
	req.Eventually(func() bool {
		return refreshes.Load() == 2
	}, time.Second, 5*time.Millisecond)

	// An event for another room leaves it alone
	engine.Publish(event.MessageSent{Room: "room-2"})
	time.Sleep(20 * time.Millisecond)
	req.Equal(int32(2), refreshes.Load())
}

func TestEngine_Publish_Never_Blocks(t *testing.T) {
	req := require.New(t)
	log := slog.New(slog.DiscardHandler)
	// Buffer of one and no fanout running: the second publish must drop
	engine := NewEngine(log, workers.NewSupervisor(log, time.Millisecond), NewRegistry(), 1, time.Second)

	done := make(chan struct{})
	go func() {
		engine.Publish(event.MessageSent{Room: "room-1"})
		engine.Publish(event.MessageSent{Room: "room-1"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("publish blocked on a full buffer")
	}
}

func TestEngine_Sinks_Receive_Every_Event(t *testing.T) {
	req := require.New(t)
	engine := newTestEngine(t)

	var consumed atomic.Int32
	engine.AddSinks(sinkFunc(func(ctx context.Context, e event.DomainEvent) error {
		consumed.Add(1)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.Start(ctx)
	defer engine.Stop()

	engine.Publish(event.MessageSent{Room: "room-1"})
	engine.Publish(event.PresenceChanged{User: "alice", Online: false})

	req.Eventually(func() bool {
		return consumed.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

type sinkFunc func(ctx context.Context, e event.DomainEvent) error

func (f sinkFunc) Consume(ctx context.Context, e event.DomainEvent) error { return f(ctx, e) }
