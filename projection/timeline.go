// Package projection builds local timelines from observed events.
// Handles ordering and deduplication. Does not emit events or interact
// with storage directly.
package projection

import (
	"slices"

	"github.com/google/uuid"

	"chat-rooms/domain"
)

// Timeline is a local, append-only view of one room's messages, kept in
// ascending chronological order. Duplicated deliveries of the same
// message are ignored.
type Timeline struct {
	Room     domain.RoomID
	messages []domain.Message
	seen     map[uuid.UUID]struct{}
}

func NewTimeline(room domain.RoomID) *Timeline {
	return &Timeline{Room: room, seen: make(map[uuid.UUID]struct{})}
}

func (t *Timeline) Add(message domain.Message) {
	if message.RoomID != t.Room {
		return
	}
	if _, duplicate := t.seen[message.ID]; duplicate {
		return
	}
	t.seen[message.ID] = struct{}{}

	// Events may arrive out of order; insert at the chronological spot.
	at, _ := slices.BinarySearchFunc(t.messages, message, func(a, b domain.Message) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	t.messages = slices.Insert(t.messages, at, message)
}

func (t *Timeline) Messages() []domain.Message {
	return t.messages
}

func (t *Timeline) Len() int {
	return len(t.messages)
}
