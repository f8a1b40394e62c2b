package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"chat-rooms/domain"
)

// Records mirror the domain structs with stable CBOR field keys, so the
// on-disk format does not silently follow a domain refactor.
// Timestamps are stored as unix nanoseconds; zero means "never".

type userRecord struct {
	ID       string `cbor:"id"`
	Name     string `cbor:"name"`
	Email    string `cbor:"email"`
	Avatar   string `cbor:"avatar,omitempty"`
	IsOnline bool   `cbor:"online"`
	LastSeen int64  `cbor:"last_seen"`
}

type roomRecord struct {
	ID              string   `cbor:"id"`
	Name            string   `cbor:"name"`
	Kind            string   `cbor:"kind"`
	Participants    []string `cbor:"participants"`
	LastMessage     string   `cbor:"last_message,omitempty"`
	LastMessageTime int64    `cbor:"last_message_time,omitempty"`
	CreatedBy       string   `cbor:"created_by"`
}

type messageRecord struct {
	ID       string `cbor:"id"`
	RoomID   string `cbor:"room_id"`
	SenderID string `cbor:"sender_id"`
	Content  string `cbor:"content"`
	Kind     string `cbor:"kind"`
	At       int64  `cbor:"at"`
	Edited   bool   `cbor:"edited,omitempty"`
	EditedAt int64  `cbor:"edited_at,omitempty"`
}

type memberRecord struct {
	RoomID     string `cbor:"room_id"`
	UserID     string `cbor:"user_id"`
	JoinedAt   int64  `cbor:"joined_at"`
	LastReadAt int64  `cbor:"last_read_at,omitempty"`
	Role       string `cbor:"role"`
}

func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func fromUser(u domain.User) userRecord {
	return userRecord{
		ID:       string(u.ID),
		Name:     u.Name,
		Email:    u.Email,
		Avatar:   u.Avatar,
		IsOnline: u.IsOnline,
		LastSeen: toUnixNano(u.LastSeen),
	}
}

func toUser(r userRecord) domain.User {
	return domain.User{
		ID:       domain.UserID(r.ID),
		Name:     r.Name,
		Email:    r.Email,
		Avatar:   r.Avatar,
		IsOnline: r.IsOnline,
		LastSeen: fromUnixNano(r.LastSeen),
	}
}

func fromRoom(room domain.Room) roomRecord {
	participants := make([]string, len(room.Participants))
	for i, p := range room.Participants {
		participants[i] = string(p)
	}
	return roomRecord{
		ID:              string(room.ID),
		Name:            room.Name,
		Kind:            string(room.Kind),
		Participants:    participants,
		LastMessage:     room.LastMessage,
		LastMessageTime: toUnixNano(room.LastMessageTime),
		CreatedBy:       string(room.CreatedBy),
	}
}

func toRoom(r roomRecord) domain.Room {
	participants := make([]domain.UserID, len(r.Participants))
	for i, p := range r.Participants {
		participants[i] = domain.UserID(p)
	}
	return domain.Room{
		ID:              domain.RoomID(r.ID),
		Name:            r.Name,
		Kind:            domain.RoomKind(r.Kind),
		Participants:    participants,
		LastMessage:     r.LastMessage,
		LastMessageTime: fromUnixNano(r.LastMessageTime),
		CreatedBy:       domain.UserID(r.CreatedBy),
	}
}

func fromMessage(m domain.Message) messageRecord {
	return messageRecord{
		ID:       m.ID.String(),
		RoomID:   string(m.RoomID),
		SenderID: string(m.SenderID),
		Content:  m.Content,
		Kind:     string(m.Kind),
		At:       toUnixNano(m.CreatedAt),
		Edited:   m.Edited,
		EditedAt: toUnixNano(m.EditedAt),
	}
}

func toMessage(r messageRecord) (domain.Message, error) {
	parsedID, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:        parsedID,
		RoomID:    domain.RoomID(r.RoomID),
		SenderID:  domain.UserID(r.SenderID),
		Content:   r.Content,
		Kind:      domain.MessageKind(r.Kind),
		CreatedAt: fromUnixNano(r.At),
		Edited:    r.Edited,
		EditedAt:  fromUnixNano(r.EditedAt),
	}, nil
}

func fromMembership(m domain.Membership) memberRecord {
	return memberRecord{
		RoomID:     string(m.RoomID),
		UserID:     string(m.UserID),
		JoinedAt:   toUnixNano(m.JoinedAt),
		LastReadAt: toUnixNano(m.LastReadAt),
		Role:       string(m.Role),
	}
}

func toMembership(r memberRecord) domain.Membership {
	return domain.Membership{
		RoomID:     domain.RoomID(r.RoomID),
		UserID:     domain.UserID(r.UserID),
		JoinedAt:   fromUnixNano(r.JoinedAt),
		LastReadAt: fromUnixNano(r.LastReadAt),
		Role:       domain.Role(r.Role),
	}
}

// Key layout. Primary records live under a table prefix, secondary
// indexes under "idx:" so table scans never pick them up.
//
//	user:{id}                          -> userRecord
//	idx:user:email:{email}             -> user id
//	room:{id}                          -> roomRecord
//	idx:room:direct:{lo}:{hi}          -> room id (normalized direct pair)
//	msg:{roomID}:{ts %019d}:{uuid}     -> messageRecord
//	member:{roomID}:{userID}           -> memberRecord
//	idx:member:user:{userID}:{roomID}  -> empty

func userKey(id domain.UserID) []byte {
	return []byte("user:" + id)
}

func userEmailKey(email string) []byte {
	return []byte("idx:user:email:" + email)
}

func roomKey(id domain.RoomID) []byte {
	return []byte("room:" + id)
}

func directPairKey(p domain.DirectPair) []byte {
	return []byte("idx:room:direct:" + string(p.Low) + ":" + string(p.High))
}

// messageKey pads the timestamp to 19 digits so lexicographic key order is
// chronological order, with the message id as a tiebreaker if two
// messages land on the same nanosecond.
func messageKey(m domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", m.RoomID, m.CreatedAt.UnixNano(), m.ID))
}

func messagePrefix(room domain.RoomID) []byte {
	return []byte(fmt.Sprintf("msg:%s:", room))
}

func memberKey(room domain.RoomID, user domain.UserID) []byte {
	return []byte("member:" + string(room) + ":" + string(user))
}

func memberUserKey(user domain.UserID, room domain.RoomID) []byte {
	return []byte("idx:member:user:" + string(user) + ":" + string(room))
}

func memberUserPrefix(user domain.UserID) []byte {
	return []byte("idx:member:user:" + string(user) + ":")
}

func memberRoomPrefix(room domain.RoomID) []byte {
	return []byte("member:" + string(room) + ":")
}
