package composer

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"chat-client/contract"
	"chat-client/domain"
	"chat-client/domain/event"
	errs "chat-client/errors"
	"chat-client/session"
)

type fakeChannel struct {
	connected bool
	emitted   []domain.SendMessageCommand
	emitErr   error
}

func (c *fakeChannel) Open(context.Context, session.Session) error { return nil }
func (c *fakeChannel) Close() error                                { return nil }
func (c *fakeChannel) Connected() bool                             { return c.connected }

func (c *fakeChannel) Emit(cmd domain.Command) error {
	if c.emitErr != nil {
		return c.emitErr
	}
	c.emitted = append(c.emitted, cmd.(domain.SendMessageCommand))
	return nil
}

func (c *fakeChannel) Subscribe(contract.EventSink) contract.Subscription { return nopSub{} }

type nopSub struct{}

func (nopSub) Revoke() {}

// fixedState pins the active context for the test.
type fixedState struct {
	active domain.ActiveContext
}

func (s fixedState) Active() domain.ActiveContext { return s.active }

func newTestComposer(active domain.ActiveContext) (*Composer, *fakeChannel) {
	channel := &fakeChannel{connected: true}
	c := NewComposer(slog.Default(), channel, fixedState{active: active}, "caller")
	return c, channel
}

func TestComposer_BlankInputNeverEmits(t *testing.T) {
	req := require.New(t)
	c, channel := newTestComposer(domain.Viewing("c1"))

	c.SetInput("")
	req.NoError(c.Submit())
	c.SetInput("   ")
	req.NoError(c.Submit())

	req.Empty(channel.emitted)
}

func TestComposer_DisconnectedChannelNeverEmits(t *testing.T) {
	req := require.New(t)
	c, channel := newTestComposer(domain.Viewing("c1"))
	channel.connected = false

	c.SetInput("hello")
	req.NoError(c.Submit())

	req.Empty(channel.emitted)
	req.Equal("hello", c.Input())
}

func TestComposer_IdleSubmissionIsRejected(t *testing.T) {
	req := require.New(t)
	c, channel := newTestComposer(domain.Idle())

	c.SetInput("hello")
	req.ErrorIs(c.Submit(), errs.ErrNoTarget)
	req.Empty(channel.emitted)
}

func TestComposer_AddressesOpenConversation(t *testing.T) {
	req := require.New(t)
	c, channel := newTestComposer(domain.Viewing("c1"))

	c.SetInput("hello")
	req.NoError(c.Submit())

	req.Len(channel.emitted, 1)
	sent := channel.emitted[0]
	req.Equal(domain.ConversationID("c1"), sent.ConversationID)
	req.Empty(sent.RecipientID)
	req.Equal("hello", sent.Content)
	req.NotEmpty(sent.CorrelationID)
}

func TestComposer_AddressesPendingRecipient(t *testing.T) {
	req := require.New(t)
	c, channel := newTestComposer(domain.PendingNew(domain.Participant{ID: "u9"}))

	c.SetInput("hello")
	req.NoError(c.Submit())

	req.Len(channel.emitted, 1)
	sent := channel.emitted[0]
	req.Equal("u9", sent.RecipientID)
	req.Empty(sent.ConversationID)
}

func TestComposer_EchoWithCorrelationIdClearsInput(t *testing.T) {
	req := require.New(t)
	c, channel := newTestComposer(domain.Viewing("c1"))

	c.SetInput("hello")
	req.NoError(c.Submit())
	corr := channel.emitted[0].CorrelationID

	// An unrelated echo leaves the input alone
	c.OnEcho(event.NewMessage{Message: domain.Message{CorrelationID: "someone-elses"}})
	req.Equal("hello", c.Input())

	// The matching echo is the acknowledgment
	c.OnEcho(event.NewMessage{Message: domain.Message{CorrelationID: corr}})
	req.Empty(c.Input())
}

func TestComposer_SenderIdentityFallbackClearsInput(t *testing.T) {
	req := require.New(t)
	c, _ := newTestComposer(domain.Viewing("c1"))
	c.SetInput("hello")
	req.NoError(c.Submit())

	// No correlation id relayed: fall back to "my own echo arrived"
	c.OnEcho(event.NewMessage{Message: domain.Message{SenderID: "caller"}})
	req.Empty(c.Input())
}

func TestComposer_OtherSendersEchoNeverClearsInput(t *testing.T) {
	req := require.New(t)
	c, _ := newTestComposer(domain.Viewing("c1"))
	c.SetInput("typing something")

	c.OnEcho(event.NewMessage{Message: domain.Message{SenderID: "u9"}})

	req.Equal("typing something", c.Input())
}

func TestComposer_SendFailureKeepsInputForRetry(t *testing.T) {
	req := require.New(t)
	c, _ := newTestComposer(domain.Viewing("c1"))

	c.SetInput("hello")
	req.NoError(c.Submit())
	c.OnSendFailed(event.SendFailed{Reason: "content rejected"})

	// Scenario: the rejection is surfaced, the draft survives
	req.Equal("hello", c.Input())
	var sendErr errs.SendError
	req.ErrorAs(c.Failure(), &sendErr)

	c.DismissFailure()
	req.NoError(c.Failure())
}
