// Package directory maintains the ordered collection of the caller's
// conversation summaries: one bulk load when the channel opens, then
// incremental reordering as push events report activity.
package directory

import (
	"context"
	"log/slog"
	"sort"

	"github.com/samber/lo"

	"chat-client/contract"
	"chat-client/domain"
	errs "chat-client/errors"
)

// Directory is a sole-writer structure: every mutation runs on the event
// loop, so it carries no lock. Reads from other goroutines are not allowed.
type Directory struct {
	log        *slog.Logger
	api        contract.IConversationAPI
	dispatcher contract.IDispatcher
	callerID   string

	conversations []domain.Conversation
	loading       bool
	loadErr       error

	// loadGen stamps each bulk fetch; a completion whose stamp no longer
	// matches belongs to a superseded load and is discarded.
	loadGen int
}

func NewDirectory(log *slog.Logger, api contract.IConversationAPI,
	dispatcher contract.IDispatcher, callerID string) *Directory {
	return &Directory{
		log:        log,
		api:        api,
		dispatcher: dispatcher,
		callerID:   callerID,
	}
}

// Load bulk-fetches the caller's conversations and replaces the list,
// sorted by activity descending. The fetch runs off the loop; its result is
// posted back as a transition. A failure leaves the directory empty with an
// inline error until the user retries.
func (d *Directory) Load(ctx context.Context) {
	d.loading = true
	d.loadErr = nil
	d.loadGen++

	gen := d.loadGen
	go func() {
		items, err := d.api.ListConversations(ctx)
		d.dispatcher.Post(func() {
			if gen != d.loadGen {
				d.log.Debug("discarding stale directory load")
				return
			}
			d.loading = false
			if err != nil {
				d.log.Warn("directory load failed", "error", err)
				d.loadErr = errs.DirectoryFetchError{Cause: err}
				return
			}
			sort.SliceStable(items, func(i, j int) bool {
				return items[i].ActivityTime().After(items[j].ActivityTime())
			})
			d.conversations = items
		})
	}()
}

// ApplyIncomingMessage promotes the reported conversation to the front.
// Incoming activity always makes a thread most-recent, whether or not it is
// currently open; last write wins at conversation-id granularity.
func (d *Directory) ApplyIncomingMessage(conv domain.Conversation) {
	d.conversations = lo.Reject(d.conversations, func(c domain.Conversation, _ int) bool {
		return c.ID == conv.ID
	})
	d.conversations = append([]domain.Conversation{conv}, d.conversations...)
}

// ApplyNewConversation upserts by id: front insert when unseen, in-place
// replace when already present. The same conversation may be announced twice
// (once to its initiator, once generically); the list never holds two
// entries with one id.
func (d *Directory) ApplyNewConversation(conv domain.Conversation) {
	if _, idx, ok := lo.FindIndexOf(d.conversations, func(c domain.Conversation) bool {
		return c.ID == conv.ID
	}); ok {
		d.conversations[idx] = conv
		return
	}
	d.conversations = append([]domain.Conversation{conv}, d.conversations...)
}

// FindDirectWith returns the existing direct conversation between the caller
// and the given participant, if one exists. Direct conversations are unique
// per pair, so there is at most one.
func (d *Directory) FindDirectWith(participantID string) (domain.Conversation, bool) {
	return lo.Find(d.conversations, func(c domain.Conversation) bool {
		return c.IsDirectWith(d.callerID, participantID)
	})
}

// Get returns the conversation with the given id.
func (d *Directory) Get(id domain.ConversationID) (domain.Conversation, bool) {
	return lo.Find(d.conversations, func(c domain.Conversation) bool {
		return c.ID == id
	})
}

func (d *Directory) Conversations() []domain.Conversation {
	return d.conversations
}

func (d *Directory) Loading() bool {
	return d.loading
}

// Err returns the inline load error, nil when the last load succeeded.
func (d *Directory) Err() error {
	return d.loadErr
}
