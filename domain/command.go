package domain

// Command is an outbound intent emitted through the transport channel.
// Each command maps to one named wire event.
type Command interface {
	EventName() string
}

type JoinRoomCommand struct {
	ConversationID ConversationID
}

func (JoinRoomCommand) EventName() string { return "joinConversationRoom" }

type LeaveRoomCommand struct {
	ConversationID ConversationID
}

func (LeaveRoomCommand) EventName() string { return "leaveConversationRoom" }

// SendMessageCommand addresses either an existing conversation or, for the
// first message to a pending recipient, the recipient directly. Exactly one
// of ConversationID and RecipientID is set.
type SendMessageCommand struct {
	ConversationID ConversationID
	RecipientID    string
	Content        string
	CorrelationID  string
}

func (SendMessageCommand) EventName() string { return "sendMessage" }
