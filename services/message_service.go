//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/errors"
	"chat-rooms/repositories"
)

// DefaultMessageLimit bounds the read path when the caller does not ask
// for a specific window.
const DefaultMessageLimit = 50

type IMessageService interface {
	Send(cmd domain.SendMessageCommand) (domain.Message, error)
	Recent(cmd domain.ListMessagesCommand) ([]domain.MessageWithSender, error)
	Search(ctx context.Context, room domain.RoomID, query string, limit int) ([]repositories.SearchHit, error)
	LiveMessages(room domain.RoomID, limit int, sink contract.MessageListSink) contract.LiveQuery
}

type MessageService struct {
	messages     repositories.IMessageRepository
	members      repositories.IMemberRepository
	users        repositories.IUserRepository
	search       repositories.ISearchRepository
	publisher    contract.Publisher
	log          *slog.Logger
	defaultLimit *int
}

func NewMessageService(messages repositories.IMessageRepository, members repositories.IMemberRepository,
	users repositories.IUserRepository, search repositories.ISearchRepository,
	publisher contract.Publisher, log *slog.Logger, defaultLimit *int) *MessageService {
	return &MessageService{
		messages:     messages,
		members:      members,
		users:        users,
		search:       search,
		publisher:    publisher,
		log:          log,
		defaultLimit: defaultLimit,
	}
}

// Send appends an immutable message and brings the room summary up to
// date. Summary and message share one timestamp and one transaction, so
// Room.LastMessageTime always equals the newest message's timestamp.
func (s *MessageService) Send(cmd domain.SendMessageCommand) (domain.Message, error) {
	// 1. Validate shape before touching the store.
	if err := cmd.Validate(); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err)
	}

	// 2. Only members may post.
	if _, err := s.members.Get(cmd.RoomID, cmd.SenderID); err != nil {
		if stderrors.Is(err, errors.ErrMembershipNotFound) {
			return domain.Message{}, errors.ErrNotAMember
		}
		return domain.Message{}, err
	}

	// 3. Stamp and persist. Append fails with ErrRoomNotFound when the
	// room record is gone.
	kind := cmd.Kind
	if kind == "" {
		kind = domain.MessageText
	}
	message := domain.Message{
		ID:        uuid.New(),
		RoomID:    cmd.RoomID,
		SenderID:  cmd.SenderID,
		Content:   cmd.Content,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Append(message); err != nil {
		return domain.Message{}, err
	}

	// 4. The search index is derived data; losing one entry must not fail
	// the send.
	if err := s.search.Index(message); err != nil {
		s.log.Warn("Message not indexed for search", "message", message.ID, "error", err)
	}

	s.publisher.Publish(event.MessageSent{Room: cmd.RoomID, Message: message})
	return message, nil
}

// Recent returns up to the requested limit (default 50) of the newest
// messages in ascending order, each joined with its sender record. A
// sender that no longer resolves leaves Sender nil rather than erroring.
func (s *MessageService) Recent(cmd domain.ListMessagesCommand) ([]domain.MessageWithSender, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err)
	}
	limit := cmd.Limit
	if limit == 0 {
		limit = DefaultMessageLimit
		if s.defaultLimit != nil {
			limit = *s.defaultLimit
		}
	}

	messages, err := s.messages.ListRecent(cmd.RoomID, limit)
	if err != nil {
		return nil, err
	}

	senders := make(map[domain.UserID]*domain.User, 4)
	joined := make([]domain.MessageWithSender, 0, len(messages))
	for _, message := range messages {
		sender, cached := senders[message.SenderID]
		if !cached {
			if user, err := s.users.Get(message.SenderID); err == nil {
				sender = &user
			} else if !stderrors.Is(err, errors.ErrUserNotFound) {
				return nil, err
			}
			senders[message.SenderID] = sender
		}
		joined = append(joined, domain.MessageWithSender{Message: message, Sender: sender})
	}
	return joined, nil
}

func (s *MessageService) Search(ctx context.Context, room domain.RoomID, query string, limit int) ([]repositories.SearchHit, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	return s.search.Search(ctx, room, query, limit)
}

// LiveMessages builds the subscription that keeps one listener's view of
// a room's recent messages fresh.
func (s *MessageService) LiveMessages(room domain.RoomID, limit int, sink contract.MessageListSink) contract.LiveQuery {
	return contract.LiveQuery{
		ID: uuid.NewString(),
		Affected: func(e event.DomainEvent) bool {
			return e.RoomID() == room
		},
		Refresh: func(ctx context.Context) error {
			messages, err := s.Recent(domain.ListMessagesCommand{RoomID: room, Limit: limit})
			if err != nil {
				return err
			}
			return sink.PushMessages(ctx, messages)
		},
	}
}
