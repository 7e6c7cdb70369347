package domain

// PendingRecipient is a contact chosen to start a conversation with before
// any Conversation exists for the pair. It is a client-only placeholder,
// superseded by the server's conversation once the first message succeeds.
type PendingRecipient struct {
	Participant
}

type contextMode int

const (
	modeIdle contextMode = iota
	modePending
	modeViewing
)

// ActiveContext is the single currently-focused target of the subsystem:
// nothing, a pending recipient, or an existing conversation id. The tagged
// representation makes "both selected at once" unrepresentable.
type ActiveContext struct {
	mode      contextMode
	recipient PendingRecipient
	viewing   ConversationID
}

func Idle() ActiveContext {
	return ActiveContext{mode: modeIdle}
}

func PendingNew(recipient Participant) ActiveContext {
	return ActiveContext{mode: modePending, recipient: PendingRecipient{Participant: recipient}}
}

func Viewing(id ConversationID) ActiveContext {
	return ActiveContext{mode: modeViewing, viewing: id}
}

func (c ActiveContext) IsIdle() bool {
	return c.mode == modeIdle
}

// Pending returns the pending recipient when the context holds one.
func (c ActiveContext) Pending() (PendingRecipient, bool) {
	return c.recipient, c.mode == modePending
}

// ViewingID returns the open conversation id when the context holds one.
func (c ActiveContext) ViewingID() (ConversationID, bool) {
	return c.viewing, c.mode == modeViewing
}

// IsViewing reports whether the context is open on the given conversation.
func (c ActiveContext) IsViewing(id ConversationID) bool {
	return c.mode == modeViewing && c.viewing == id
}
