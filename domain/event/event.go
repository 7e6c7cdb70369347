// Package event defines the inbound event variants pushed by the messaging
// service over the transport channel. Each wire event kind is one variant;
// consumers switch on the concrete type.
package event

import (
	"chat-client/domain"
)

type Event interface {
	EventName() string
}

// Connected signals that the channel handshake completed.
type Connected struct{}

func (Connected) EventName() string { return "connect" }

// Disconnected signals that an established channel dropped. Reconnection is
// the transport's own concern; this is advisory state for the subsystem.
type Disconnected struct {
	Reason string
}

func (Disconnected) EventName() string { return "disconnect" }

// ConnectFailed signals that the channel could not be established. It is a
// retryable, non-fatal condition.
type ConnectFailed struct {
	Err error
}

func (ConnectFailed) EventName() string { return "connect_error" }

// NewMessage carries a pushed message together with the updated summary of
// the conversation it belongs to.
type NewMessage struct {
	Message      domain.Message
	Conversation domain.Conversation
}

func (NewMessage) EventName() string { return "newMessage" }

// NewConversation announces a conversation the caller was just added to,
// including one the caller initiated through a pending recipient.
type NewConversation struct {
	Conversation domain.Conversation
}

func (NewConversation) EventName() string { return "newConversation" }

// SendFailed reports that the service rejected an outgoing message.
type SendFailed struct {
	Reason string
}

func (SendFailed) EventName() string { return "sendMessageError" }
