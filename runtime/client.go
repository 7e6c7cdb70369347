// Package runtime assembles the conversation subsystem: the event loop that
// serializes every state transition, the supervisor that keeps it alive, and
// the session-scoped wiring between channel, directory, thread controller,
// composer, and search.
package runtime

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"chat-client/composer"
	"chat-client/contract"
	"chat-client/directory"
	"chat-client/domain"
	"chat-client/domain/event"
	errs "chat-client/errors"
	"chat-client/search"
	"chat-client/session"
	"chat-client/thread"
)

// Options tunes the subsystem; zero values fall back to defaults.
type Options struct {
	SearchDebounce   time.Duration
	TransitionBuffer int
}

const defaultTransitionBuffer = 256

// Client owns one session's view of the conversation service. It is created
// when the session becomes available and stopped when the session ends; the
// channel it holds is never opened twice concurrently.
type Client struct {
	log        *slog.Logger
	sess       session.Session
	channel    contract.IChannel
	api        contract.IConversationAPI
	loop       *Loop
	supervisor *Supervisor

	directory *directory.Directory
	thread    *thread.Controller
	composer  *composer.Composer
	search    *search.Search

	sub       contract.Subscription
	connected bool
	connErr   error
}

func NewClient(log *slog.Logger, sess session.Session, channel contract.IChannel,
	api contract.IConversationAPI, opts Options) *Client {
	if opts.TransitionBuffer <= 0 {
		opts.TransitionBuffer = defaultTransitionBuffer
	}

	loop := NewLoop(log, opts.TransitionBuffer)
	dir := directory.NewDirectory(log, api, loop, sess.ParticipantID)
	ctrl := thread.NewController(log, channel, api, loop, dir, sess.ParticipantID)

	return &Client{
		log:        log,
		sess:       sess,
		channel:    channel,
		api:        api,
		loop:       loop,
		supervisor: NewSupervisor(log),
		directory:  dir,
		thread:     ctrl,
		composer:   composer.NewComposer(log, channel, ctrl, sess.ParticipantID),
		search:     search.NewSearch(log, api, loop, sess.ParticipantID, opts.SearchDebounce),
	}
}

// channelSink bridges the transport's read goroutine onto the loop: each
// inbound event becomes one posted transition.
type channelSink struct {
	client *Client
	ctx    context.Context
}

func (s channelSink) Consume(e event.Event) {
	s.client.loop.Post(func() {
		s.client.handle(s.ctx, e)
	})
}

// Start subscribes to the channel, launches the supervised loop, and opens
// the connection. A connect failure is advisory: the subsystem stays up,
// inert, and the user can retry with Reconnect.
func (c *Client) Start(ctx context.Context) {
	c.sub = c.channel.Subscribe(channelSink{client: c, ctx: ctx})
	c.supervisor.Add(c.loop)
	go c.supervisor.Run(ctx)

	if err := c.channel.Open(ctx, c.sess); err != nil {
		c.log.Warn("initial connect failed", "error", err)
	}
}

// Reconnect re-opens the channel after a connect failure. Opening closes
// any previous connection first. The dial runs off the loop so a hanging
// endpoint cannot wedge it; the outcome arrives back as a Connected or
// ConnectFailed event like any other.
func (c *Client) Reconnect(ctx context.Context) {
	go func() {
		if err := c.channel.Open(ctx, c.sess); err != nil {
			c.log.Warn("reconnect failed", "error", err)
		}
	}()
}

// Stop tears the subsystem down in lifetime order: subscription, channel,
// then the supervised loop.
func (c *Client) Stop() {
	if c.sub != nil {
		c.sub.Revoke()
	}
	if err := c.channel.Close(); err != nil {
		c.log.Warn("channel close failed", "error", err)
	}
	c.supervisor.Stop()
}

// Post runs a transition on the event loop. UI actions (selections, input
// edits, submissions) must go through here so they interleave with channel
// events instead of racing them.
func (c *Client) Post(fn func()) {
	c.loop.Post(fn)
}

// PickRecipient routes the selection of a search result: an existing direct
// conversation with that participant is opened as-is, otherwise the contact
// becomes the pending recipient of a not-yet-created conversation.
// Must run on the loop.
func (c *Client) PickRecipient(ctx context.Context, p domain.Participant) {
	if conv, ok := c.directory.FindDirectWith(p.ID); ok {
		c.thread.SelectConversation(ctx, conv.ID)
		return
	}
	c.thread.SelectPendingRecipient(p)
}

// handle applies one inbound event. Runs on the loop.
func (c *Client) handle(ctx context.Context, e event.Event) {
	switch e := e.(type) {
	case event.Connected:
		c.connected = true
		c.connErr = nil
		// Channel open triggers the directory's bulk fetch.
		c.directory.Load(ctx)
	case event.Disconnected:
		c.connected = false
		c.connErr = errs.ConnectionError{Cause: errors.New(e.Reason)}
	case event.ConnectFailed:
		c.connected = false
		c.connErr = errs.ConnectionError{Cause: e.Err}
	case event.NewMessage:
		c.thread.OnNewMessage(e)
		c.composer.OnEcho(e)
	case event.NewConversation:
		c.thread.OnNewConversation(e)
	case event.SendFailed:
		c.composer.OnSendFailed(e)
	}
}

// SetAfterTransition registers a callback run on the loop after each
// transition. Must be set before Start.
func (c *Client) SetAfterTransition(fn func()) {
	c.loop.SetAfterTransition(fn)
}

func (c *Client) Directory() *directory.Directory { return c.directory }
func (c *Client) Thread() *thread.Controller      { return c.thread }
func (c *Client) Composer() *composer.Composer    { return c.composer }
func (c *Client) Search() *search.Search          { return c.search }
func (c *Client) Session() session.Session        { return c.sess }

// Connected reports the advisory connection state. Runs on the loop.
func (c *Client) Connected() bool { return c.connected }

// ConnErr returns the standing connection banner error, nil when healthy.
func (c *Client) ConnErr() error { return c.connErr }
