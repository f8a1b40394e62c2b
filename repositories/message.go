//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"

	"chat-rooms/domain"
	"chat-rooms/errors"
)

type IMessageRepository interface {
	Append(message domain.Message) error
	ListRecent(room domain.RoomID, limit int) ([]domain.Message, error)
	Latest(room domain.RoomID) (domain.Message, bool, error)
	CountAfter(room domain.RoomID, cursor domain.Membership) (int, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log}
}

// Append inserts the message and refreshes the owning room's
// LastMessage/LastMessageTime summary in the same transaction, so the
// invariant "summary equals the most recent message" cannot be broken by
// a crash between the two writes. Fails with ErrRoomNotFound when the
// room record is absent.
func (r *MessageRepository) Append(message domain.Message) error {
	data, err := cbor.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		var room roomRecord
		if err := readRecord(txn, roomKey(message.RoomID), &room); err != nil {
			return err
		}
		if err := txn.Set(messageKey(message), data); err != nil {
			return err
		}
		room.LastMessage = message.Content
		room.LastMessageTime = message.CreatedAt.UnixNano()
		roomData, err := cbor.Marshal(room)
		if err != nil {
			return err
		}
		return txn.Set(roomKey(message.RoomID), roomData)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrRoomNotFound
	}
	return err
}

// ListRecent returns up to limit of the room's most recent messages in
// ascending chronological order. Thanks to the padded timestamp in the
// key, a reverse prefix scan walks newest to oldest; the collected slice
// is then flipped for display.
func (r *MessageRepository) ListRecent(room domain.RoomID, limit int) ([]domain.Message, error) {
	var records []messageRecord
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(room)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past every possible timestamp, then walk backwards.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(records) == limit {
				break
			}
			var rec messageRecord
			err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, len(records))
	for i, rec := range records {
		msg, err := toMessage(rec)
		if err != nil {
			return nil, err
		}
		messages[len(records)-1-i] = msg
	}
	return messages, nil
}

func (r *MessageRepository) Latest(room domain.RoomID) (domain.Message, bool, error) {
	messages, err := r.ListRecent(room, 1)
	if err != nil || len(messages) == 0 {
		return domain.Message{}, false, err
	}
	return messages[0], true, nil
}

// CountAfter counts messages with a timestamp strictly greater than the
// membership's read cursor. A zero cursor (never read) counts every
// message. Key-only iteration: the padded timestamp makes "seek just past
// the cursor, count until the prefix ends" correct without decoding a
// single value.
func (r *MessageRepository) CountAfter(room domain.RoomID, cursor domain.Membership) (int, error) {
	var after int64
	if !cursor.LastReadAt.IsZero() {
		after = cursor.LastReadAt.UnixNano() + 1
	}
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(room)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := []byte(fmt.Sprintf("%s%019d", prefix, after))
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
