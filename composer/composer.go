// Package composer turns text entry into outgoing message submissions and
// owns the transient input state, including when it may be cleared.
package composer

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"chat-client/contract"
	"chat-client/domain"
	"chat-client/domain/event"
	errs "chat-client/errors"
)

// ActiveState is the slice of the thread controller the composer addresses
// messages by.
type ActiveState interface {
	Active() domain.ActiveContext
}

// Composer is a sole-writer structure: every mutation runs on the event
// loop, so it carries no lock.
type Composer struct {
	log      *slog.Logger
	channel  contract.IChannel
	thread   ActiveState
	callerID string

	input   string
	failure error

	// outstanding correlation ids of sends that have not been echoed yet.
	// An inbound message echoing one of them is the acknowledgment that
	// clears the input; sender-identity matching is only the fallback for
	// servers that do not relay the id.
	outstanding map[string]struct{}
}

func NewComposer(log *slog.Logger, channel contract.IChannel, thread ActiveState, callerID string) *Composer {
	return &Composer{
		log:         log,
		channel:     channel,
		thread:      thread,
		callerID:    callerID,
		outstanding: make(map[string]struct{}),
	}
}

func (c *Composer) SetInput(text string) {
	c.input = text
}

func (c *Composer) Input() string {
	return c.input
}

// Submit emits the current input as a send-message command, addressed by
// conversation id when a conversation is open and by recipient id when a
// pending recipient is chosen. Blank input and a disconnected channel are
// silent no-ops; with nothing selected the submission is rejected so the
// user is prompted to pick a target first. The input stays intact until the
// send is acknowledged.
func (c *Composer) Submit() error {
	content := strings.TrimSpace(c.input)
	if content == "" {
		return nil
	}
	if !c.channel.Connected() {
		return nil
	}

	cmd := domain.SendMessageCommand{
		Content:       content,
		CorrelationID: uuid.NewString(),
	}
	active := c.thread.Active()
	if id, ok := active.ViewingID(); ok {
		cmd.ConversationID = id
	} else if pending, ok := active.Pending(); ok {
		cmd.RecipientID = pending.ID
	} else {
		return errs.ErrNoTarget
	}

	if err := c.channel.Emit(cmd); err != nil {
		c.failure = errs.SendError{Reason: err.Error()}
		return c.failure
	}
	c.outstanding[cmd.CorrelationID] = struct{}{}
	return nil
}

// OnEcho inspects an inbound message for the acknowledgment of one of our
// sends and clears the input when it finds one.
func (c *Composer) OnEcho(e event.NewMessage) {
	msg := e.Message
	if msg.CorrelationID != "" {
		if _, ours := c.outstanding[msg.CorrelationID]; ours {
			delete(c.outstanding, msg.CorrelationID)
			c.input = ""
			c.failure = nil
		}
		return
	}
	if msg.SenderID == c.callerID {
		c.input = ""
		c.failure = nil
	}
}

// OnSendFailed records the rejection. The input is deliberately left intact
// for resubmission.
func (c *Composer) OnSendFailed(e event.SendFailed) {
	c.log.Warn("send rejected", "reason", e.Reason)
	c.failure = errs.SendError{Reason: e.Reason}
}

// Failure returns the transient send failure, nil when the last send was
// accepted.
func (c *Composer) Failure() error {
	return c.failure
}

func (c *Composer) DismissFailure() {
	c.failure = nil
}
