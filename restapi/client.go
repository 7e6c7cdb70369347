// Package restapi provides the request/response reads of the conversation
// service: the bulk directory fetch, per-conversation message logs, and the
// recipient search. Live updates arrive over the transport channel instead.
package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chat-client/domain"
	errs "chat-client/errors"
	"chat-client/session"
	"chat-client/wire"
)

const defaultRequestTimeout = 10 * time.Second

// Client is an authenticated conversation-service API client. Every request
// carries the session token as a bearer credential.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	sess     session.Session
	fileBase string
}

// NewClient creates a client for the given API base, e.g. "http://host/api".
func NewClient(baseURL string, sess session.Session) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultRequestTimeout},
		sess:       sess,
		fileBase:   fileBase(baseURL),
	}
}

// fileBase derives the static file-serving origin from the API base by
// stripping its API-prefix path: attachments are served from the host root,
// not from under the API prefix.
func fileBase(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return strings.TrimRight(baseURL, "/")
	}
	u.Path = ""
	u.RawQuery = ""
	return u.String()
}

// FileURL resolves a message's relative attachment path to an absolute URL.
// The subsystem never uploads or stores attachment bytes itself.
func (c *Client) FileURL(relative string) string {
	return c.fileBase + "/" + strings.TrimLeft(relative, "/")
}

// ListConversations fetches the caller's conversation summaries, as ordered
// by the service (most recent activity first).
func (c *Client) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	var items []wire.Conversation
	if err := c.get(ctx, "/conversations", &items); err != nil {
		return nil, err
	}
	return wire.ToConversations(items), nil
}

// ListMessages fetches the full message log of one conversation, ordered by
// creation time ascending.
func (c *Client) ListMessages(ctx context.Context, id domain.ConversationID) ([]domain.Message, error) {
	var items []wire.Message
	if err := c.get(ctx, fmt.Sprintf("/conversations/%s/messages", id), &items); err != nil {
		return nil, err
	}
	return wire.ToMessages(items), nil
}

// SearchParticipants queries the addressable participants of the caller's
// organization by name or email fragment.
func (c *Client) SearchParticipants(ctx context.Context, query string) ([]domain.Participant, error) {
	path := "/participants?q=" + url.QueryEscape(query)
	var items []wire.Participant
	if err := c.get(ctx, path, &items); err != nil {
		return nil, err
	}
	return wire.ToParticipants(items), nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.sess.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusUnauthorized:
		return errs.OwnershipError{Resource: path}
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
