//go:generate go run go.uber.org/mock/mockgen -source=directory_service.go -destination=../mocks/mock_directory_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"slices"

	"github.com/google/uuid"

	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/errors"
	"chat-rooms/repositories"
)

type IDirectoryService interface {
	RoomsForUser(user domain.UserID) ([]domain.RoomOverview, error)
	LiveRooms(user domain.UserID, sink contract.RoomListSink) contract.LiveQuery
}

// DirectoryService aggregates a user's memberships into display-ready
// room overviews. Strictly read-only.
type DirectoryService struct {
	rooms    repositories.IRoomRepository
	users    repositories.IUserRepository
	members  repositories.IMemberRepository
	messages repositories.IMessageRepository
}

func NewDirectoryService(rooms repositories.IRoomRepository, users repositories.IUserRepository,
	members repositories.IMemberRepository, messages repositories.IMessageRepository) *DirectoryService {
	return &DirectoryService{rooms: rooms, users: users, members: members, messages: messages}
}

// RoomsForUser returns the user's rooms sorted by most recent activity.
// Rooms without any message sort last, stably among themselves. Orphaned
// memberships (room gone) and unresolvable participants are dropped
// silently: a stale reference must never break the whole listing.
func (s *DirectoryService) RoomsForUser(user domain.UserID) ([]domain.RoomOverview, error) {
	memberships, err := s.members.ListByUser(user)
	if err != nil {
		return nil, err
	}

	overviews := make([]domain.RoomOverview, 0, len(memberships))
	for _, membership := range memberships {
		room, err := s.rooms.Get(membership.RoomID)
		if stderrors.Is(err, errors.ErrRoomNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		others := make([]domain.User, 0, len(room.Participants))
		for _, pid := range room.Participants {
			if pid == user {
				continue
			}
			other, err := s.users.Get(pid)
			if stderrors.Is(err, errors.ErrUserNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			others = append(others, other)
		}

		var lastMessage *domain.Message
		if latest, found, err := s.messages.Latest(room.ID); err != nil {
			return nil, err
		} else if found {
			lastMessage = &latest
		}

		unread, err := s.messages.CountAfter(room.ID, membership)
		if err != nil {
			return nil, err
		}

		overviews = append(overviews, domain.RoomOverview{
			Room:              room,
			OtherParticipants: others,
			LastMessage:       lastMessage,
			UnreadCount:       unread,
			Membership:        membership,
		})
	}

	// Zero LastMessageTime is the earliest possible instant, so rooms
	// without messages naturally land at the tail of the descending sort.
	slices.SortStableFunc(overviews, func(a, b domain.RoomOverview) int {
		return b.Room.LastMessageTime.Compare(a.Room.LastMessageTime)
	})
	return overviews, nil
}

// LiveRooms builds the subscription that keeps one listener's room list
// fresh. The result set can change on any event in a room the user
// belongs to, on a room created with the user in it, and on any global
// event (presence touches the counterpart identities).
func (s *DirectoryService) LiveRooms(user domain.UserID, sink contract.RoomListSink) contract.LiveQuery {
	return contract.LiveQuery{
		ID: uuid.NewString(),
		Affected: func(e event.DomainEvent) bool {
			roomID := e.RoomID()
			if roomID == "" {
				return true
			}
			_, err := s.members.Get(roomID, user)
			return err == nil
		},
		Refresh: func(ctx context.Context) error {
			rooms, err := s.RoomsForUser(user)
			if err != nil {
				return err
			}
			return sink.PushRooms(ctx, rooms)
		},
	}
}
