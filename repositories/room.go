//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	stderrors "errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"

	"chat-rooms/domain"
	"chat-rooms/errors"
)

type IRoomRepository interface {
	Create(room domain.Room, members []domain.Membership) error
	Get(id domain.RoomID) (domain.Room, error)
	FindDirect(pair domain.DirectPair) (domain.RoomID, bool, error)
	List() ([]domain.Room, error)
}

type RoomRepository struct {
	db *badger.DB
}

func NewRoomRepository(db *badger.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create persists the room, its direct-pair index when applicable, and
// every membership row in ONE transaction. A room can never exist with
// zero members, even if the process dies mid-create.
func (r *RoomRepository) Create(room domain.Room, members []domain.Membership) error {
	roomData, err := cbor.Marshal(fromRoom(room))
	if err != nil {
		return err
	}
	memberData := make(map[string][]byte, len(members))
	for _, m := range members {
		data, err := cbor.Marshal(fromMembership(m))
		if err != nil {
			return err
		}
		memberData[string(m.UserID)] = data
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(roomKey(room.ID), roomData); err != nil {
			return err
		}
		if room.IsDirect() && len(room.Participants) == 2 {
			pair := domain.NewDirectPair(room.Participants[0], room.Participants[1])
			if err := txn.Set(directPairKey(pair), []byte(room.ID)); err != nil {
				return err
			}
		}
		for _, m := range members {
			if err := txn.Set(memberKey(m.RoomID, m.UserID), memberData[string(m.UserID)]); err != nil {
				return err
			}
			if err := txn.Set(memberUserKey(m.UserID, m.RoomID), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RoomRepository) Get(id domain.RoomID) (domain.Room, error) {
	var rec roomRecord
	err := r.db.View(func(txn *badger.Txn) error {
		return readRecord(txn, roomKey(id), &rec)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Room{}, errors.ErrRoomNotFound
	}
	if err != nil {
		return domain.Room{}, err
	}
	return toRoom(rec), nil
}

// FindDirect resolves a normalized participant pair to its existing direct
// room. This is a point read on the pair index, not a table scan, so two
// creations for the same pair of people land on the same room regardless
// of the order the participants were listed in.
func (r *RoomRepository) FindDirect(pair domain.DirectPair) (domain.RoomID, bool, error) {
	var id []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(directPairKey(pair))
		if err != nil {
			return err
		}
		id, err = item.ValueCopy(nil)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return domain.RoomID(id), true, nil
}

func (r *RoomRepository) List() ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("room:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec roomRecord
			err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			rooms = append(rooms, toRoom(rec))
		}
		return nil
	})
	return rooms, err
}
