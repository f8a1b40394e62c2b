//go:generate go run go.uber.org/mock/mockgen -source=read_service.go -destination=../mocks/mock_read_service.go -package=mocks
package services

import (
	"fmt"
	"time"

	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/errors"
	"chat-rooms/repositories"
)

type IReadService interface {
	MarkRead(cmd domain.MarkReadCommand) error
}

// ReadService is the sole writer of the read cursor. The cursor only
// moves forward in normal use; no decrease path is exposed.
type ReadService struct {
	members   repositories.IMemberRepository
	publisher contract.Publisher
}

func NewReadService(members repositories.IMemberRepository, publisher contract.Publisher) *ReadService {
	return &ReadService{members: members, publisher: publisher}
}

// MarkRead stamps the membership's LastReadAt with the current time.
// A missing membership row is a silent no-op: the caller may be racing a
// room creation that has not landed yet.
func (s *ReadService) MarkRead(cmd domain.MarkReadCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err)
	}
	now := time.Now().UTC()
	advanced, err := s.members.AdvanceReadCursor(cmd.RoomID, cmd.UserID, now)
	if err != nil {
		return err
	}
	if advanced {
		s.publisher.Publish(event.ReadCursorAdvanced{Room: cmd.RoomID, User: cmd.UserID, At: now})
	}
	return nil
}
