package errors

import "fmt"

var (
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrRoomNotFound       = fmt.Errorf("room not found")
	ErrMembershipNotFound = fmt.Errorf("membership not found")
	ErrEmailTaken         = fmt.Errorf("email already registered")
	ErrNotAMember         = fmt.Errorf("sender is not a member of the room")
	ErrDirectParticipants = fmt.Errorf("a direct room needs exactly two participants")
	ErrInvalidCommand     = fmt.Errorf("invalid command")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
)
