//go:generate go run go.uber.org/mock/mockgen -source=member.go -destination=../mocks/mock_member_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"

	"chat-rooms/domain"
	"chat-rooms/errors"
)

type IMemberRepository interface {
	Get(room domain.RoomID, user domain.UserID) (domain.Membership, error)
	ListByUser(user domain.UserID) ([]domain.Membership, error)
	ListByRoom(room domain.RoomID) ([]domain.Membership, error)
	AdvanceReadCursor(room domain.RoomID, user domain.UserID, at time.Time) (bool, error)
}

// MemberRepository reads and advances membership rows. Rows are created
// by RoomRepository.Create, in the same transaction as the room itself.
type MemberRepository struct {
	db *badger.DB
}

func NewMemberRepository(db *badger.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Get(room domain.RoomID, user domain.UserID) (domain.Membership, error) {
	var rec memberRecord
	err := r.db.View(func(txn *badger.Txn) error {
		return readRecord(txn, memberKey(room, user), &rec)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Membership{}, errors.ErrMembershipNotFound
	}
	if err != nil {
		return domain.Membership{}, err
	}
	return toMembership(rec), nil
}

// ListByUser walks the by-user index, then point-reads each membership
// row. An index entry whose row vanished is skipped, not errored.
func (r *MemberRepository) ListByUser(user domain.UserID) ([]domain.Membership, error) {
	var memberships []domain.Membership
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := memberUserPrefix(user)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			roomID := domain.RoomID(strings.TrimPrefix(string(it.Item().Key()), string(prefix)))
			var rec memberRecord
			err := readRecord(txn, memberKey(roomID, user), &rec)
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			memberships = append(memberships, toMembership(rec))
		}
		return nil
	})
	return memberships, err
}

func (r *MemberRepository) ListByRoom(room domain.RoomID) ([]domain.Membership, error) {
	var memberships []domain.Membership
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := memberRoomPrefix(room)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec memberRecord
			err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			memberships = append(memberships, toMembership(rec))
		}
		return nil
	})
	return memberships, err
}

// AdvanceReadCursor sets the member's LastReadAt. A missing membership
// row is a silent no-op reported as false: the caller may be racing a
// room creation that has not landed yet, and that is tolerated.
func (r *MemberRepository) AdvanceReadCursor(room domain.RoomID, user domain.UserID, at time.Time) (bool, error) {
	advanced := false
	err := r.db.Update(func(txn *badger.Txn) error {
		var rec memberRecord
		err := readRecord(txn, memberKey(room, user), &rec)
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		rec.LastReadAt = at.UnixNano()
		data, err := cbor.Marshal(rec)
		if err != nil {
			return err
		}
		if err := txn.Set(memberKey(room, user), data); err != nil {
			return err
		}
		advanced = true
		return nil
	})
	return advanced, err
}
