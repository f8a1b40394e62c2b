//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-rooms/domain"
	"chat-rooms/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself. The supervisor restarts it on panic.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// for logging and supervision, avoiding a manual naming method on the
// Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Publisher accepts domain events from services after each write.
// Publishing never blocks the write path.
type Publisher interface {
	Publish(e event.DomainEvent)
}

// EventSink receives every published event, regardless of room.
// Used for projections, logging, and other permanent consumers.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// LiveQuery is one registered subscription: Affected decides whether an
// event could change the query's result, Refresh re-runs the query and
// pushes the fresh result to the listener.
type LiveQuery struct {
	ID       string
	Affected func(e event.DomainEvent) bool
	Refresh  func(ctx context.Context) error
}

type IRegistry interface {
	Subscribe(q LiveQuery)
	Unsubscribe(id string)
	Affected(e event.DomainEvent) []LiveQuery
}

// RoomListSink receives a user's refreshed room list.
type RoomListSink interface {
	PushRooms(ctx context.Context, rooms []domain.RoomOverview) error
}

// MessageListSink receives a room's refreshed recent messages.
type MessageListSink interface {
	PushMessages(ctx context.Context, messages []domain.MessageWithSender) error
}
