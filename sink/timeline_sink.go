package sink

import (
	"context"

	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/projection"
)

// TimelineSink feeds a room's projection timeline from the event stream.
type TimelineSink struct {
	timeline *projection.Timeline
}

func NewTimelineSink(room domain.RoomID) *TimelineSink {
	return &TimelineSink{timeline: projection.NewTimeline(room)}
}

func (s *TimelineSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageSent:
		s.timeline.Add(evt.Message)
	}
	return nil
}

func (s *TimelineSink) Timeline() *projection.Timeline {
	return s.timeline
}
