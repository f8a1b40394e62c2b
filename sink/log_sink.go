package sink

import (
	"context"
	"fmt"
	"log/slog"

	"chat-rooms/domain/event"
)

// LogSink mirrors the event stream into the structured log, mostly
// useful while developing or demoing.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) LogSink {
	return LogSink{log: log}
}

func (s LogSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageSent:
		s.log.Info("Message sent", "room", evt.Room, "sender", evt.Message.SenderID)
	case event.RoomCreated:
		s.log.Info("Room created", "room", evt.Room.ID, "kind", evt.Room.Kind)
	case event.ReadCursorAdvanced:
		s.log.Info("Read cursor advanced", "room", evt.Room, "user", evt.User)
	case event.PresenceChanged:
		s.log.Info("Presence changed", "user", evt.User, "online", evt.Online)
	default:
		s.log.Debug(fmt.Sprintf("Unhandled event : %v", evt))
	}
	return nil
}
