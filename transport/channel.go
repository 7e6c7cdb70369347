// Package transport owns the persistent websocket channel to the messaging
// service: one authenticated connection per session, named JSON frames in
// both directions, and handle-based event subscriptions.
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"chat-client/contract"
	"chat-client/domain"
	"chat-client/domain/event"
	errs "chat-client/errors"
	"chat-client/session"
)

const defaultWriteTimeout = 5 * time.Second

// conn abstracts the live websocket so tests can substitute a scripted one.
type conn interface {
	ReadJSON(ctx context.Context, v any) error
	WriteJSON(ctx context.Context, v any) error
	Close(reason string) error
}

type dialFunc func(ctx context.Context, url, token string) (conn, error)

// Channel is the one shared, mutable resource of the subsystem. Its lifetime
// is tied one-to-one to the session: opened when the session appears, closed
// when it ends, never two connections at once.
type Channel struct {
	mu           sync.Mutex
	log          *slog.Logger
	url          string
	dial         dialFunc
	writeTimeout time.Duration
	conn         conn
	sess         session.Session
	sinks        map[int]sinkEntry
	nextSink     int

	// openGen stamps each Open and Close. A dial that finishes under a
	// stale stamp lost to a later Open or Close; its connection is
	// discarded instead of stored, so overlapping opens never leave two
	// live connections for one session.
	openGen int
}

type sinkEntry struct {
	consume func(e event.Event)
}

func NewChannel(log *slog.Logger, url string) *Channel {
	return &Channel{
		log:          log,
		url:          url,
		dial:         dialWebsocket,
		writeTimeout: defaultWriteTimeout,
		sinks:        make(map[int]sinkEntry),
	}
}

func dialWebsocket(ctx context.Context, url, token string) (conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return nil, err
	}
	return wsConn{c: c}, nil
}

// wsConn adapts a nhooyr connection to the conn interface.
type wsConn struct {
	c *websocket.Conn
}

func (w wsConn) ReadJSON(ctx context.Context, v any) error {
	return wsjson.Read(ctx, w.c, v)
}

func (w wsConn) WriteJSON(ctx context.Context, v any) error {
	return wsjson.Write(ctx, w.c, v)
}

func (w wsConn) Close(reason string) error {
	return w.c.Close(websocket.StatusNormalClosure, reason)
}

// Open establishes the authenticated connection and starts its read loop.
// If a connection already exists it is closed first, so at most one is live
// per session; when opens overlap, the later one wins and the earlier dial's
// connection is closed instead of stored. A dial failure is broadcast as
// ConnectFailed and returned; it is retryable, not fatal.
func (c *Channel) Open(ctx context.Context, sess session.Session) error {
	c.mu.Lock()
	c.openGen++
	gen := c.openGen
	if c.conn != nil {
		_ = c.conn.Close("reopened")
		c.conn = nil
	}
	c.mu.Unlock()

	wc, err := c.dial(ctx, c.url, sess.Token)
	if err != nil {
		if c.superseded(gen) {
			c.log.Debug("ignoring failure of superseded dial", "error", err)
			return nil
		}
		c.log.Warn("channel dial failed", "error", err)
		c.broadcast(event.ConnectFailed{Err: err})
		return errs.ConnectionError{Cause: err}
	}

	c.mu.Lock()
	if gen != c.openGen {
		c.mu.Unlock()
		c.log.Debug("discarding superseded connection")
		_ = wc.Close("superseded")
		return nil
	}
	c.sess = sess
	c.conn = wc
	c.mu.Unlock()

	c.log.Info("channel connected", "participant_id", sess.ParticipantID)
	c.broadcast(event.Connected{})

	go c.readLoop(ctx, wc)
	return nil
}

func (c *Channel) superseded(gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen != c.openGen
}

// Close tears the connection down. Safe to call when nothing is open; an
// in-flight dial is invalidated so its connection cannot outlive the session.
func (c *Channel) Close() error {
	c.mu.Lock()
	c.openGen++
	wc := c.conn
	c.conn = nil
	c.mu.Unlock()

	if wc == nil {
		return nil
	}
	return wc.Close("session ended")
}

func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Emit encodes an outbound command as a named frame and writes it on the
// live connection. Room joins and leaves are fire-and-forget: there is no
// acknowledgment contract, the server treats duplicates idempotently.
func (c *Channel) Emit(cmd domain.Command) error {
	c.mu.Lock()
	wc := c.conn
	c.mu.Unlock()

	if wc == nil {
		return errs.ErrNotConnected
	}

	f, err := encodeCommand(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
	defer cancel()
	if err := wc.WriteJSON(ctx, f); err != nil {
		return fmt.Errorf("emitting %s: %w", cmd.EventName(), err)
	}
	return nil
}

// Subscribe registers a sink for every inbound event and returns the handle
// that detaches it. Handles, not closure identity, are how subscribers are
// tracked and revoked on teardown.
func (c *Channel) Subscribe(sink contract.EventSink) contract.Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSink
	c.nextSink++
	c.sinks[id] = sinkEntry{consume: sink.Consume}
	return subscriptionHandle{channel: c, id: id}
}

type subscriptionHandle struct {
	channel *Channel
	id      int
}

// Revoke detaches the sink. Revoking an already-revoked handle is a no-op.
func (s subscriptionHandle) Revoke() {
	s.channel.mu.Lock()
	defer s.channel.mu.Unlock()
	delete(s.channel.sinks, s.id)
}

func (c *Channel) broadcast(e event.Event) {
	c.mu.Lock()
	entries := make([]sinkEntry, 0, len(c.sinks))
	for _, entry := range c.sinks {
		entries = append(entries, entry)
	}
	c.mu.Unlock()

	for _, entry := range entries {
		entry.consume(e)
	}
}

// readLoop decodes inbound frames until the connection dies. A read error
// from a connection that has since been superseded or deliberately closed
// is swallowed; only the live connection's death is broadcast.
func (c *Channel) readLoop(ctx context.Context, wc conn) {
	for {
		var f frame
		if err := wc.ReadJSON(ctx, &f); err != nil {
			c.mu.Lock()
			active := c.conn == wc
			if active {
				c.conn = nil
			}
			c.mu.Unlock()

			if active && ctx.Err() == nil {
				c.log.Warn("channel dropped", "error", err)
				c.broadcast(event.Disconnected{Reason: err.Error()})
			}
			return
		}

		evt, err := decodeFrame(f)
		if err != nil {
			c.log.Warn("discarding undecodable frame", "event", f.Event, "error", err)
			continue
		}
		c.broadcast(evt)
	}
}
