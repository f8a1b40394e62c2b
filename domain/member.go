package domain

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Membership links one user to one room. The (RoomID, UserID) pair is
// unique. LastReadAt is the member's read cursor: messages at or below it
// count as read, a zero value means the member has never read the room.
type Membership struct {
	RoomID     RoomID
	UserID     UserID
	JoinedAt   time.Time
	LastReadAt time.Time
	Role       Role
}
