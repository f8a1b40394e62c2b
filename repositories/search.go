//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_search_repository.go -package=mocks
package repositories

import (
	"context"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"

	"chat-rooms/domain"
)

type ISearchRepository interface {
	Index(message domain.Message) error
	Search(ctx context.Context, room domain.RoomID, query string, limit int) ([]SearchHit, error)
}

// SearchRepository maintains a Bluge full-text index over message
// content, scoped per room. The index is derived data: the Badger store
// stays the source of truth and can rebuild it.
type SearchRepository struct {
	writer *bluge.Writer
}

func NewSearchRepository(writer *bluge.Writer) *SearchRepository {
	return &SearchRepository{writer: writer}
}

func (s *SearchRepository) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewKeywordField("room", string(message.RoomID)).StoreValue()).
		AddField(bluge.NewKeywordField("sender", string(message.SenderID)).StoreValue()).
		AddField(bluge.NewTextField("content", message.Content).StoreValue()).
		AddField(bluge.NewDateTimeField("at", message.CreatedAt))
	return s.writer.Update(doc.ID(), doc)
}

type SearchHit struct {
	MessageID uuid.UUID
	SenderID  domain.UserID
	Content   string
	Score     float64
}

// Search matches the query against message content within one room.
func (s *SearchRepository) Search(ctx context.Context, room domain.RoomID, query string, limit int) ([]SearchHit, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query).SetField("content")).
		AddMust(bluge.NewTermQuery(string(room)).SetField("room"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, err
	}

	var hits []SearchHit
	match, err := iterator.Next()
	for err == nil && match != nil {
		hit := SearchHit{Score: match.Score}
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID, _ = uuid.Parse(string(value))
			case "sender":
				hit.SenderID = domain.UserID(value)
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return hits, nil
}
