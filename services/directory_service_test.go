package services

import (
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"chat-rooms/domain"
)

func TestDirectoryService_RoomsForUser_Empty(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice := f.registerUser(t, "alice")

	rooms, err := f.chat.Directory.RoomsForUser(alice.ID)
	req.NoError(err)
	req.NotNil(rooms)
	req.Empty(rooms)
}

func TestDirectoryService_RoomsForUser_Overview(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice := f.registerUser(t, "alice")
	bob := f.registerUser(t, "bob")
	roomID := f.createDirectRoom(t, alice, bob)

	sent, err := f.chat.Messages.Send(domain.SendMessageCommand{
		RoomID:   roomID,
		SenderID: alice.ID,
		Content:  "hello bob",
	})
	req.NoError(err)

	// Bob's listing shows alice as the counterpart and one unread message
	rooms, err := f.chat.Directory.RoomsForUser(bob.ID)
	req.NoError(err)
	req.Len(rooms, 1)

	overview := rooms[0]
	req.Equal(roomID, overview.Room.ID)
	req.Len(overview.OtherParticipants, 1)
	req.Equal(alice.Name, overview.OtherParticipants[0].Name)
	req.NotNil(overview.LastMessage)
	req.Equal(sent.ID, overview.LastMessage.ID)
	req.Equal(1, overview.UnreadCount)
}

func TestDirectoryService_RoomsForUser_Sorted_By_Activity(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice := f.registerUser(t, "alice")
	bob := f.registerUser(t, "bob")
	carol := f.registerUser(t, "carol")
	dave := f.registerUser(t, "dave")

	withBob := f.createDirectRoom(t, alice, bob)
	withCarol := f.createDirectRoom(t, alice, carol)
	withDave := f.createDirectRoom(t, alice, dave)

	// Activity lands in carol's room last; dave's room stays silent
	_, err := f.chat.Messages.Send(domain.SendMessageCommand{RoomID: withBob, SenderID: alice.ID, Content: "first"})
	req.NoError(err)
	time.Sleep(time.Millisecond)
	_, err = f.chat.Messages.Send(domain.SendMessageCommand{RoomID: withCarol, SenderID: alice.ID, Content: "second"})
	req.NoError(err)

	rooms, err := f.chat.Directory.RoomsForUser(alice.ID)
	req.NoError(err)
	req.Len(rooms, 3)
	req.Equal(withCarol, rooms[0].Room.ID)
	req.Equal(withBob, rooms[1].Room.ID)

	// Rooms without any message sort last
	req.Equal(withDave, rooms[2].Room.ID)
	req.Nil(rooms[2].LastMessage)
	req.Equal(0, rooms[2].UnreadCount)
}

func TestDirectoryService_RoomsForUser_Skips_Orphaned_Membership(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice := f.registerUser(t, "alice")
	bob := f.registerUser(t, "bob")
	carol := f.registerUser(t, "carol")
	healthy := f.createDirectRoom(t, alice, bob)
	doomed := f.createDirectRoom(t, alice, carol)

	// The room record vanishes underneath its memberships, the way a
	// partial wipe would leave the store
	req.NoError(f.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte("room:" + doomed))
	}))

	rooms, err := f.chat.Directory.RoomsForUser(alice.ID)
	req.NoError(err)
	req.Len(rooms, 1)
	req.Equal(healthy, rooms[0].Room.ID)
}

func TestDirectoryService_RoomsForUser_Drops_Unresolvable_Participants(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice := f.registerUser(t, "alice")

	// A room referencing a participant that was never registered
	_, err := f.chat.Rooms.CreateRoom(domain.CreateRoomCommand{
		Name:         "alice & ghost",
		Kind:         domain.RoomDirect,
		Participants: []domain.UserID{alice.ID, "ghost-user"},
		CreatedBy:    alice.ID,
	})
	req.NoError(err)

	// The listing still works, with the ghost dropped rather than nulled
	rooms, err := f.chat.Directory.RoomsForUser(alice.ID)
	req.NoError(err)
	req.Len(rooms, 1)
	req.Empty(rooms[0].OtherParticipants)
}

func TestDirectoryService_RoomsForUser_Unread_Counts_Everything_When_Never_Read(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice := f.registerUser(t, "alice")
	bob := f.registerUser(t, "bob")
	roomID := f.createDirectRoom(t, alice, bob)

	for i := 0; i < 3; i++ {
		_, err := f.chat.Messages.Send(domain.SendMessageCommand{RoomID: roomID, SenderID: alice.ID, Content: "ping"})
		req.NoError(err)
	}

	rooms, err := f.chat.Directory.RoomsForUser(bob.ID)
	req.NoError(err)
	req.Len(rooms, 1)
	req.Equal(3, rooms[0].UnreadCount)
}
