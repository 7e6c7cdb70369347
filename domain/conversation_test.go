package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConversation_IsDirectWith(t *testing.T) {
	req := require.New(t)

	direct := Conversation{
		ID:   "c3",
		Kind: KindDirect,
		Participants: []Participant{
			{ID: "caller", Name: "Caller"},
			{ID: "u9", Name: "Other"},
		},
	}

	req.True(direct.IsDirectWith("caller", "u9"))
	req.True(direct.IsDirectWith("u9", "caller"))
	req.False(direct.IsDirectWith("caller", "u7"))

	group := direct
	group.Kind = KindGroup
	req.False(group.IsDirectWith("caller", "u9"))
}

func TestConversation_DisplayName(t *testing.T) {
	req := require.New(t)

	direct := Conversation{
		Kind: KindDirect,
		Participants: []Participant{
			{ID: "caller", Name: "Caller"},
			{ID: "u9", Name: "Ada"},
		},
	}
	// A direct conversation is named after the other participant.
	req.Equal("Ada", direct.DisplayName("caller"))
	req.Equal("Caller", direct.DisplayName("u9"))

	group := Conversation{Kind: KindGroup, Name: "Payroll team"}
	req.Equal("Payroll team", group.DisplayName("caller"))
}

func TestConversation_ActivityTime(t *testing.T) {
	req := require.New(t)

	updated := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	lastMsg := updated.Add(2 * time.Hour)

	conv := Conversation{UpdatedAt: updated}
	req.Equal(updated, conv.ActivityTime())

	conv.LastMessage = &LastMessage{CreatedAt: lastMsg}
	req.Equal(lastMsg, conv.ActivityTime())
}

func TestActiveContext_OneVariantAtATime(t *testing.T) {
	req := require.New(t)

	idle := Idle()
	req.True(idle.IsIdle())
	_, pendingOK := idle.Pending()
	_, viewingOK := idle.ViewingID()
	req.False(pendingOK)
	req.False(viewingOK)

	pending := PendingNew(Participant{ID: "u9"})
	recipient, ok := pending.Pending()
	req.True(ok)
	req.Equal("u9", recipient.ID)
	_, viewingOK = pending.ViewingID()
	req.False(viewingOK)
	req.False(pending.IsIdle())

	viewing := Viewing("c5")
	id, ok := viewing.ViewingID()
	req.True(ok)
	req.Equal(ConversationID("c5"), id)
	_, pendingOK = viewing.Pending()
	req.False(pendingOK)
	req.True(viewing.IsViewing("c5"))
	req.False(viewing.IsViewing("c6"))
}
