package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-rooms/domain"
	"chat-rooms/errors"
)

func testDirectRoom(a, b domain.UserID) (domain.Room, []domain.Membership) {
	now := time.Now().UTC()
	room := domain.Room{
		ID:           domain.RoomID(uuid.NewString()),
		Name:         "direct",
		Kind:         domain.RoomDirect,
		Participants: []domain.UserID{a, b},
		CreatedBy:    a,
	}
	members := []domain.Membership{
		{RoomID: room.ID, UserID: a, JoinedAt: now, Role: domain.RoleAdmin},
		{RoomID: room.ID, UserID: b, JoinedAt: now, Role: domain.RoleMember},
	}
	return room, members
}

func TestRoomRepository_Create_And_Get(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	rooms := NewRoomRepository(db)
	members := NewMemberRepository(db)

	room, memberships := testDirectRoom("alice", "bob")
	req.NoError(rooms.Create(room, memberships))

	fetched, err := rooms.Get(room.ID)
	req.NoError(err)
	req.Equal(room, fetched)

	// Membership rows landed in the same transaction
	roomMembers, err := members.ListByRoom(room.ID)
	req.NoError(err)
	req.Len(roomMembers, 2)
}

func TestRoomRepository_Get_Unknown(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomRepository(openTestDB(t))

	_, err := rooms.Get("no-such-room")
	req.ErrorIs(err, errors.ErrRoomNotFound)
}

func TestRoomRepository_FindDirect_Both_Orders(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomRepository(openTestDB(t))

	room, memberships := testDirectRoom("alice", "bob")
	req.NoError(rooms.Create(room, memberships))

	// The pair index answers regardless of participant order
	id, found, err := rooms.FindDirect(domain.NewDirectPair("alice", "bob"))
	req.NoError(err)
	req.True(found)
	req.Equal(room.ID, id)

	id, found, err = rooms.FindDirect(domain.NewDirectPair("bob", "alice"))
	req.NoError(err)
	req.True(found)
	req.Equal(room.ID, id)
}

func TestRoomRepository_FindDirect_Absent(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomRepository(openTestDB(t))

	_, found, err := rooms.FindDirect(domain.NewDirectPair("alice", "bob"))
	req.NoError(err)
	req.False(found)
}

func TestRoomRepository_Group_Creates_No_Pair_Index(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomRepository(openTestDB(t))

	now := time.Now().UTC()
	room := domain.Room{
		ID:           domain.RoomID(uuid.NewString()),
		Name:         "general",
		Kind:         domain.RoomGroup,
		Participants: []domain.UserID{"alice", "bob"},
		CreatedBy:    "alice",
	}
	req.NoError(rooms.Create(room, []domain.Membership{
		{RoomID: room.ID, UserID: "alice", JoinedAt: now, Role: domain.RoleAdmin},
		{RoomID: room.ID, UserID: "bob", JoinedAt: now, Role: domain.RoleMember},
	}))

	// A two-person group is still not a direct conversation
	_, found, err := rooms.FindDirect(domain.NewDirectPair("alice", "bob"))
	req.NoError(err)
	req.False(found)
}
