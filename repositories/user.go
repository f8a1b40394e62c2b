//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"

	"chat-rooms/domain"
	"chat-rooms/errors"
)

type IUserRepository interface {
	Create(user domain.User) error
	Get(id domain.UserID) (domain.User, error)
	GetByEmail(email string) (domain.User, error)
	List() ([]domain.User, error)
	SetPresence(id domain.UserID, online bool, seenAt time.Time) error
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists the user and its unique email index in one transaction.
// A taken email fails the whole transaction.
func (r *UserRepository) Create(user domain.User) error {
	data, err := cbor.Marshal(fromUser(user))
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		emailKey := userEmailKey(user.Email)
		if _, err := txn.Get(emailKey); err == nil {
			return errors.ErrEmailTaken
		}
		if err := txn.Set(emailKey, []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set(userKey(user.ID), data)
	})
}

func (r *UserRepository) Get(id domain.UserID) (domain.User, error) {
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		return readRecord(txn, userKey(id), &rec)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return toUser(rec), nil
}

func (r *UserRepository) GetByEmail(email string) (domain.User, error) {
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(email))
		if err != nil {
			return err
		}
		var id []byte
		if id, err = item.ValueCopy(nil); err != nil {
			return err
		}
		return readRecord(txn, userKey(domain.UserID(id)), &rec)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return toUser(rec), nil
}

func (r *UserRepository) List() ([]domain.User, error) {
	var users []domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("user:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec userRecord
			err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			users = append(users, toUser(rec))
		}
		return nil
	})
	return users, err
}

// SetPresence flips the online flag and stamps LastSeen in a single
// read-modify-write transaction. Last writer wins under concurrent calls.
func (r *UserRepository) SetPresence(id domain.UserID, online bool, seenAt time.Time) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		var rec userRecord
		if err := readRecord(txn, userKey(id), &rec); err != nil {
			return err
		}
		rec.IsOnline = online
		rec.LastSeen = toUnixNano(seenAt)
		data, err := cbor.Marshal(rec)
		if err != nil {
			return err
		}
		return txn.Set(userKey(id), data)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrUserNotFound
	}
	return err
}

func readRecord(txn *badger.Txn, key []byte, out any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return cbor.Unmarshal(val, out)
	})
}
