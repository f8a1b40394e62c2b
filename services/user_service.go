//go:generate go run go.uber.org/mock/mockgen -source=user_service.go -destination=../mocks/mock_user_service.go -package=mocks
package services

import (
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/errors"
	"chat-rooms/repositories"
)

type IUserService interface {
	Register(name, email, avatar string) (domain.User, error)
	GetOrRegister(name, email, avatar string) (domain.User, error)
	Get(id domain.UserID) (domain.User, error)
	List() ([]domain.User, error)
	SetPresence(id domain.UserID, online bool) error
}

type UserService struct {
	users     repositories.IUserRepository
	publisher contract.Publisher
}

func NewUserService(users repositories.IUserRepository, publisher contract.Publisher) *UserService {
	return &UserService{users: users, publisher: publisher}
}

func (s *UserService) Register(name, email, avatar string) (domain.User, error) {
	user := domain.User{
		ID:       domain.UserID(uuid.NewString()),
		Name:     name,
		Email:    email,
		Avatar:   avatar,
		IsOnline: true,
		LastSeen: time.Now().UTC(),
	}
	if err := s.users.Create(user); err != nil {
		return domain.User{}, err // propagates ErrEmailTaken
	}
	return user, nil
}

// GetOrRegister models "created on first login": an existing email
// returns the existing user, anything else registers a new one.
func (s *UserService) GetOrRegister(name, email, avatar string) (domain.User, error) {
	user, err := s.users.GetByEmail(email)
	if err == nil {
		return user, nil
	}
	if !stderrors.Is(err, errors.ErrUserNotFound) {
		return domain.User{}, err
	}
	return s.Register(name, email, avatar)
}

func (s *UserService) Get(id domain.UserID) (domain.User, error) {
	return s.users.Get(id)
}

func (s *UserService) List() ([]domain.User, error) {
	return s.users.List()
}

func (s *UserService) SetPresence(id domain.UserID, online bool) error {
	if err := s.users.SetPresence(id, online, time.Now().UTC()); err != nil {
		return err
	}
	s.publisher.Publish(event.PresenceChanged{User: id, Online: online})
	return nil
}
