package services

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/repositories"
)

// capturePublisher records every published event for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (p *capturePublisher) Publish(e event.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *capturePublisher) Events() []event.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.DomainEvent{}, p.events...)
}

type fixture struct {
	chat      *Chat
	publisher *capturePublisher
	db        *badger.DB
	members   repositories.IMemberRepository
	messages  repositories.IMessageRepository
}

// newFixture wires the full service surface on a throwaway store,
// exactly as the daemon does at boot.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	req := require.New(t)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	req.NoError(err)
	t.Cleanup(func() { _ = writer.Close() })

	log := slog.New(slog.DiscardHandler)
	publisher := &capturePublisher{}

	userRepository := repositories.NewUserRepository(db)
	roomRepository := repositories.NewRoomRepository(db)
	memberRepository := repositories.NewMemberRepository(db)
	messageRepository := repositories.NewMessageRepository(db, log)
	searchRepository := repositories.NewSearchRepository(writer)

	chat := NewChat(
		NewUserService(userRepository, publisher),
		NewRoomService(roomRepository, userRepository, publisher),
		NewDirectoryService(roomRepository, userRepository, memberRepository, messageRepository),
		NewReadService(memberRepository, publisher),
		NewMessageService(messageRepository, memberRepository, userRepository, searchRepository, publisher, log, nil),
	)
	return &fixture{
		chat:      chat,
		publisher: publisher,
		db:        db,
		members:   memberRepository,
		messages:  messageRepository,
	}
}

func (f *fixture) registerUser(t *testing.T, name string) domain.User {
	t.Helper()
	user, err := f.chat.Users.Register(name, name+"@example.com", "")
	require.NoError(t, err)
	return user
}

func (f *fixture) createDirectRoom(t *testing.T, a, b domain.User) domain.RoomID {
	t.Helper()
	id, err := f.chat.Rooms.CreateRoom(domain.CreateRoomCommand{
		Name:         a.Name + " & " + b.Name,
		Kind:         domain.RoomDirect,
		Participants: []domain.UserID{a.ID, b.ID},
		CreatedBy:    a.ID,
	})
	require.NoError(t, err)
	return id
}
