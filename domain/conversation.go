// Package domain contains core concepts of the conversation subsystem.
// This file defines Conversation entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/samber/lo"
)

type ConversationID string

type Kind string

const (
	KindDirect Kind = "direct"
	KindGroup  Kind = "group"
)

// Conversation is a persistent thread between a fixed set of participants.
// Records are created and mutated only by the remote service; the client
// reads them via fetch or push and never fabricates an id locally.
type Conversation struct {
	ID           ConversationID
	Kind         Kind
	Name         string // required for group, empty for direct
	Participants []Participant
	LastMessage  *LastMessage
	UpdatedAt    time.Time
}

// LastMessage is the activity summary carried on a conversation record.
type LastMessage struct {
	Content     string
	ContentType ContentType
	CreatedAt   time.Time
}

// DisplayName returns the group name, or for a direct conversation the name
// of the participant who is not the caller.
func (c Conversation) DisplayName(callerID string) string {
	if c.Kind == KindGroup {
		return c.Name
	}
	if other, ok := c.OtherParticipant(callerID); ok {
		return other.Name
	}
	return c.Name
}

// OtherParticipant returns the first participant whose id differs from the
// caller's. Meaningful for direct conversations, where exactly one exists.
func (c Conversation) OtherParticipant(callerID string) (Participant, bool) {
	return lo.Find(c.Participants, func(p Participant) bool {
		return p.ID != callerID
	})
}

// IsDirectWith reports whether this is the direct conversation between the
// caller and the given participant. Direct conversations are unique per
// unordered pair, so at most one conversation satisfies this.
func (c Conversation) IsDirectWith(callerID, participantID string) bool {
	if c.Kind != KindDirect {
		return false
	}
	hasCaller := lo.ContainsBy(c.Participants, func(p Participant) bool { return p.ID == callerID })
	hasOther := lo.ContainsBy(c.Participants, func(p Participant) bool { return p.ID == participantID })
	return hasCaller && hasOther
}

// ActivityTime returns the timestamp the directory sorts on: the last
// message time when present, the record's UpdatedAt otherwise.
func (c Conversation) ActivityTime() time.Time {
	if c.LastMessage != nil {
		return c.LastMessage.CreatedAt
	}
	return c.UpdatedAt
}
