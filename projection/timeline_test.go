package projection

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-rooms/domain"
)

func timelineMessage(room domain.RoomID, content string, at time.Time) domain.Message {
	return domain.Message{
		ID:        uuid.New(),
		RoomID:    room,
		SenderID:  "alice",
		Content:   content,
		Kind:      domain.MessageText,
		CreatedAt: at,
	}
}

func TestTimeline_Orders_Out_Of_Order_Arrivals(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("room-1")

	base := time.Now().UTC()
	timeline.Add(timelineMessage("room-1", "third", base.Add(2*time.Second)))
	timeline.Add(timelineMessage("room-1", "first", base))
	timeline.Add(timelineMessage("room-1", "second", base.Add(time.Second)))

	messages := timeline.Messages()
	req.Len(messages, 3)
	req.Equal("first", messages[0].Content)
	req.Equal("second", messages[1].Content)
	req.Equal("third", messages[2].Content)
}

func TestTimeline_Ignores_Duplicates(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("room-1")

	msg := timelineMessage("room-1", "once", time.Now().UTC())
	timeline.Add(msg)
	timeline.Add(msg)

	req.Equal(1, timeline.Len())
}

func TestTimeline_Ignores_Other_Rooms(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("room-1")

	timeline.Add(timelineMessage("room-2", "elsewhere", time.Now().UTC()))

	req.Equal(0, timeline.Len())
}
