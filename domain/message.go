package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageKind string

const (
	MessageText  MessageKind = "text"
	MessageImage MessageKind = "image"
	MessageFile  MessageKind = "file"
)

// Message is an immutable chat event, append-only and ordered by
// (room, CreatedAt). Edited/EditedAt are reserved for a future edit flow;
// nothing writes them today.
type Message struct {
	ID        uuid.UUID
	RoomID    RoomID
	SenderID  UserID
	Content   string
	Kind      MessageKind
	CreatedAt time.Time
	Edited    bool
	EditedAt  time.Time
}
