package restapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"chat-client/domain"
	errs "chat-client/errors"
	"chat-client/session"
)

func testSession() session.Session {
	return session.Session{Token: "tok-123", ParticipantID: "u1", OrganizationID: "org1"}
}

func TestClient_ListConversations(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/api/conversations", r.URL.Path)
		req.Equal("Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "c1", "kind": "direct", "participants": [
				{"id": "u1", "name": "Me"}, {"id": "u2", "name": "Ada"}
			]},
			{"id": "c2", "kind": "group", "name": "Platform"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api", testSession())
	conversations, err := client.ListConversations(context.Background())

	req.NoError(err)
	req.Len(conversations, 2)
	req.Equal(domain.ConversationID("c1"), conversations[0].ID)
	req.Equal(domain.KindDirect, conversations[0].Kind)
	req.Len(conversations[0].Participants, 2)
	req.Equal(domain.KindGroup, conversations[1].Kind)
	req.Equal("Platform", conversations[1].Name)
}

func TestClient_ListMessages(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/api/conversations/c1/messages", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "m1", "conversationId": "c1", "senderId": "u2", "content": "hello", "contentType": "text"},
			{"id": "m2", "conversationId": "c1", "senderId": "u1", "content": "report.pdf", "contentType": "pdf", "fileUrl": "/uploads/report.pdf"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api", testSession())
	messages, err := client.ListMessages(context.Background(), "c1")

	req.NoError(err)
	req.Len(messages, 2)
	req.Equal("hello", messages[0].Content)
	req.False(messages[0].IsAttachment())
	req.True(messages[1].IsAttachment())
}

func TestClient_SearchParticipants(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/api/participants", r.URL.Path)
		req.Equal("ada l", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": "u2", "name": "Ada Lovelace", "email": "ada@example.com"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api", testSession())
	participants, err := client.SearchParticipants(context.Background(), "ada l")

	req.NoError(err)
	req.Len(participants, 1)
	req.Equal("Ada Lovelace", participants[0].Name)
}

func TestClient_ForbiddenMapsToOwnershipError(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api", testSession())
	_, err := client.ListMessages(context.Background(), "c9")

	var ownErr errs.OwnershipError
	req.ErrorAs(err, &ownErr)
}

func TestClient_UnexpectedStatusIsAnError(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api", testSession())
	_, err := client.ListConversations(context.Background())

	req.Error(err)
	req.Contains(err.Error(), "500")
}

func TestClient_FileURLStripsApiPrefix(t *testing.T) {
	req := require.New(t)
	client := NewClient("http://chat.example.com/api", testSession())

	// Attachments are served from the host root, not under /api
	req.Equal("http://chat.example.com/uploads/report.pdf", client.FileURL("/uploads/report.pdf"))
	req.Equal("http://chat.example.com/uploads/report.pdf", client.FileURL("uploads/report.pdf"))
}
