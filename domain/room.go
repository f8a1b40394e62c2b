package domain

import "time"

type RoomID string

type RoomKind string

const (
	RoomDirect RoomKind = "direct"
	RoomGroup  RoomKind = "group"
)

// Room holds a denormalized summary of its latest message so a room list
// can be rendered without touching the message table.
// Participants keep creation order for display; a direct room's identity
// is its DirectPair, never the raw slice.
type Room struct {
	ID              RoomID
	Name            string
	Kind            RoomKind
	Participants    []UserID
	LastMessage     string
	LastMessageTime time.Time
	CreatedBy       UserID
}

func (r Room) IsDirect() bool {
	return r.Kind == RoomDirect
}

// DirectPair is the canonical identity of a 1:1 conversation: both
// participant ids in lexicographic order, so (A,B) and (B,A) resolve to
// the same pair.
type DirectPair struct {
	Low  UserID
	High UserID
}

func NewDirectPair(a, b UserID) DirectPair {
	if b < a {
		a, b = b, a
	}
	return DirectPair{Low: a, High: b}
}
