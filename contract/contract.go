//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-client/domain"
	"chat-client/domain/event"
	"chat-client/session"
)

// EventSink consumes inbound events pushed by the transport channel.
// Consume runs on the transport's read goroutine and must not block; sinks
// that need to do real work should post to their own queue.
type EventSink interface {
	Consume(e event.Event)
}

// Subscription is the explicit handle tracking one registered sink.
// Revoking it detaches the sink; revoking twice is harmless.
type Subscription interface {
	Revoke()
}

// IChannel is the persistent, bidirectional connection to the messaging
// service. Exactly one connection may be open per session; Open while open
// tears down the previous connection first.
type IChannel interface {
	Open(ctx context.Context, sess session.Session) error
	Close() error
	Connected() bool
	Emit(cmd domain.Command) error
	Subscribe(sink EventSink) Subscription
}

// IConversationAPI covers the request/response reads that are not push:
// the bulk directory fetch, the per-conversation message log, and the
// recipient search. All calls carry the session's bearer credential.
type IConversationAPI interface {
	ListConversations(ctx context.Context) ([]domain.Conversation, error)
	ListMessages(ctx context.Context, id domain.ConversationID) ([]domain.Message, error)
	SearchParticipants(ctx context.Context, query string) ([]domain.Participant, error)
}

// IDispatcher posts a transition onto the single event-loop goroutine.
// All state mutation of the subsystem happens through posted transitions;
// that is what makes the directory, thread controller, and composer
// lock-free sole-writer structures.
type IDispatcher interface {
	Post(fn func())
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// initialization or lifecycle events, avoiding the need for manual naming
// in the Worker interface.
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
