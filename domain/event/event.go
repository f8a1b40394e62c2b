// Package event defines the change notifications emitted by services on
// every write. The live-query layer re-evaluates affected subscriptions
// when one of these fires.
package event

import (
	"time"

	"chat-rooms/domain"
)

type DomainEvent interface {
	// RoomID scopes the event. An empty id means the event is global,
	// such as a presence change.
	RoomID() domain.RoomID
}

type MessageSent struct {
	Room    domain.RoomID
	Message domain.Message
}

func (e MessageSent) RoomID() domain.RoomID {
	return e.Room
}

type RoomCreated struct {
	Room domain.Room
}

func (e RoomCreated) RoomID() domain.RoomID {
	return e.Room.ID
}

type ReadCursorAdvanced struct {
	Room domain.RoomID
	User domain.UserID
	At   time.Time
}

func (e ReadCursorAdvanced) RoomID() domain.RoomID {
	return e.Room
}

type PresenceChanged struct {
	User   domain.UserID
	Online bool
}

func (e PresenceChanged) RoomID() domain.RoomID {
	return ""
}
