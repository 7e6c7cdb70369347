// Package thread owns the active-context state machine: which conversation
// (or not-yet-created pending recipient) is currently open, its message log,
// and the room subscription transitions that go with it.
package thread

import (
	"context"
	"log/slog"

	"chat-client/contract"
	"chat-client/directory"
	"chat-client/domain"
	"chat-client/domain/event"
	errs "chat-client/errors"
)

// Controller is a sole-writer structure: every mutation runs on the event
// loop, so it carries no lock.
type Controller struct {
	log        *slog.Logger
	channel    contract.IChannel
	api        contract.IConversationAPI
	dispatcher contract.IDispatcher
	directory  *directory.Directory
	callerID   string

	active   domain.ActiveContext
	messages []domain.Message
	loading  bool
	err      error

	// fetchGen stamps each message-log fetch; a completion whose stamp no
	// longer matches belongs to a thread that is no longer open and is
	// discarded instead of applied to the now-different view.
	fetchGen int
}

func NewController(log *slog.Logger, channel contract.IChannel, api contract.IConversationAPI,
	dispatcher contract.IDispatcher, dir *directory.Directory, callerID string) *Controller {
	return &Controller{
		log:        log,
		channel:    channel,
		api:        api,
		dispatcher: dispatcher,
		directory:  dir,
		callerID:   callerID,
		active:     domain.Idle(),
	}
}

// SelectConversation opens an existing conversation: leave the previous room
// if one was held, join the new one, clear the log, and fetch it. Selecting
// the conversation that is already open is a no-op, so re-selection costs no
// join/leave pair.
func (t *Controller) SelectConversation(ctx context.Context, id domain.ConversationID) {
	if t.active.IsViewing(id) {
		return
	}

	t.leaveCurrentRoom()
	t.emit(domain.JoinRoomCommand{ConversationID: id})

	t.active = domain.Viewing(id)
	t.messages = nil
	t.err = nil
	t.loading = true
	t.fetchGen++

	gen := t.fetchGen
	go func() {
		messages, err := t.api.ListMessages(ctx, id)
		t.dispatcher.Post(func() {
			if gen != t.fetchGen {
				t.log.Debug("discarding stale message-log fetch", "conversation_id", id)
				return
			}
			t.loading = false
			if err != nil {
				// The thread stays open; only its log failed to load.
				t.err = errs.ThreadFetchError{ConversationID: string(id), Cause: err}
				return
			}
			t.messages = messages
		})
	}()
}

// SelectPendingRecipient switches the active context to a contact with no
// conversation yet. The previous room, if any, is left; no room is joined
// until the server announces the created conversation.
func (t *Controller) SelectPendingRecipient(p domain.Participant) {
	t.leaveCurrentRoom()

	t.active = domain.PendingNew(p)
	t.messages = nil
	t.err = nil
	t.loading = false
	t.fetchGen++ // any in-flight fetch is for a thread no longer open
}

// OnNewConversation reconciles "I started typing to a person" with "the
// server created a thread id": when the announced conversation pairs the
// caller with the pending recipient, the controller joins its room and the
// placeholder is discarded. The directory is updated in every case.
func (t *Controller) OnNewConversation(e event.NewConversation) {
	t.directory.ApplyNewConversation(e.Conversation)

	pending, ok := t.active.Pending()
	if !ok {
		return
	}
	conv := e.Conversation
	if !conv.IsDirectWith(t.callerID, pending.ID) {
		return
	}

	t.emit(domain.JoinRoomCommand{ConversationID: conv.ID})
	t.active = domain.Viewing(conv.ID)
}

// OnNewMessage appends to the log when the message belongs to the open
// conversation; arrival order is append order, the transport preserves
// per-room send order. The conversation summary reaches the directory
// regardless of which thread is open.
func (t *Controller) OnNewMessage(e event.NewMessage) {
	if t.active.IsViewing(e.Message.ConversationID) {
		t.messages = append(t.messages, e.Message)
	}
	t.directory.ApplyIncomingMessage(e.Conversation)
}

func (t *Controller) leaveCurrentRoom() {
	if id, ok := t.active.ViewingID(); ok {
		t.emit(domain.LeaveRoomCommand{ConversationID: id})
	}
}

// emit sends a room command without waiting for an acknowledgment; there is
// none. The server treats duplicate joins and leaves idempotently.
func (t *Controller) emit(cmd domain.Command) {
	if err := t.channel.Emit(cmd); err != nil {
		t.log.Warn("room command not emitted", "event", cmd.EventName(), "error", err)
	}
}

func (t *Controller) Active() domain.ActiveContext {
	return t.active
}

func (t *Controller) Messages() []domain.Message {
	return t.messages
}

func (t *Controller) Loading() bool {
	return t.loading
}

// Err returns the inline thread error, nil when the open log loaded fine.
func (t *Controller) Err() error {
	return t.err
}
