//go:generate go run go.uber.org/mock/mockgen -source=room_service.go -destination=../mocks/mock_room_service.go -package=mocks
package services

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/errors"
	"chat-rooms/repositories"
)

type IRoomService interface {
	CreateRoom(cmd domain.CreateRoomCommand) (domain.RoomID, error)
	GetRoom(id domain.RoomID) (domain.Room, []domain.User, error)
}

type RoomService struct {
	rooms     repositories.IRoomRepository
	users     repositories.IUserRepository
	publisher contract.Publisher
}

func NewRoomService(rooms repositories.IRoomRepository, users repositories.IUserRepository,
	publisher contract.Publisher) *RoomService {
	return &RoomService{rooms: rooms, users: users, publisher: publisher}
}

// CreateRoom provisions a room and its membership rows. Creating a direct
// room for a pair of people that already share one is idempotent: the
// existing room id comes back and nothing is written.
func (s *RoomService) CreateRoom(cmd domain.CreateRoomCommand) (domain.RoomID, error) {
	// 1. Validate shape before touching the store.
	if err := cmd.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err)
	}
	if cmd.Kind == domain.RoomDirect && len(cmd.Participants) != 2 {
		return "", errors.ErrDirectParticipants
	}

	// 2. Direct dedup. Same pair of people means same room, regardless of
	// the order the participants were listed in.
	if cmd.Kind == domain.RoomDirect {
		pair := domain.NewDirectPair(cmd.Participants[0], cmd.Participants[1])
		existing, found, err := s.rooms.FindDirect(pair)
		if err != nil {
			return "", err
		}
		if found {
			return existing, nil
		}
	}

	// 3. Insert room and memberships in one transaction, creator as
	// admin, everyone else as member.
	now := time.Now().UTC()
	room := domain.Room{
		ID:           domain.RoomID(uuid.NewString()),
		Name:         cmd.Name,
		Kind:         cmd.Kind,
		Participants: cmd.Participants,
		CreatedBy:    cmd.CreatedBy,
	}
	members := lo.Map(cmd.Participants, func(p domain.UserID, _ int) domain.Membership {
		role := domain.RoleMember
		if p == cmd.CreatedBy {
			role = domain.RoleAdmin
		}
		return domain.Membership{RoomID: room.ID, UserID: p, JoinedAt: now, Role: role}
	})
	if err := s.rooms.Create(room, members); err != nil {
		return "", err
	}

	s.publisher.Publish(event.RoomCreated{Room: room})
	return room.ID, nil
}

// GetRoom resolves the room with its participant user records. Users that
// no longer resolve are dropped, not nulled.
func (s *RoomService) GetRoom(id domain.RoomID) (domain.Room, []domain.User, error) {
	room, err := s.rooms.Get(id)
	if err != nil {
		return domain.Room{}, nil, err
	}
	participants := make([]domain.User, 0, len(room.Participants))
	for _, pid := range room.Participants {
		user, err := s.users.Get(pid)
		if stderrors.Is(err, errors.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return domain.Room{}, nil, err
		}
		participants = append(participants, user)
	}
	return room, participants, nil
}
