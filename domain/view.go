package domain

// RoomOverview is one display-ready entry of a user's room list: the room
// itself, the counterpart identities, the latest message, and how far the
// caller's read cursor lags behind.
type RoomOverview struct {
	Room              Room
	OtherParticipants []User
	LastMessage       *Message
	UnreadCount       int
	Membership        Membership
}

// MessageWithSender joins a message with its sender record for display.
// Sender stays nil when the user no longer resolves.
type MessageWithSender struct {
	Message
	Sender *User
}
