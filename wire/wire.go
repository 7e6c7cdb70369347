// Package wire defines the JSON shapes shared by the REST endpoints and the
// channel frames, plus their mapping to domain records. The service owns
// these shapes; nothing here is persisted client-side.
package wire

import (
	"time"

	"github.com/samber/lo"

	"chat-client/domain"
)

type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type LastMessage struct {
	Content     string    `json:"content"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Conversation struct {
	ID           string        `json:"id"`
	Kind         string        `json:"kind"`
	Name         string        `json:"name,omitempty"`
	Participants []Participant `json:"participants"`
	LastMessage  *LastMessage  `json:"lastMessage,omitempty"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	ContentType    string    `json:"contentType"`
	Content        string    `json:"content,omitempty"`
	FileURL        string    `json:"fileUrl,omitempty"`
	FileName       string    `json:"fileName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	CorrelationID  string    `json:"correlationId,omitempty"`
}

func (p Participant) ToDomain() domain.Participant {
	return domain.Participant{ID: p.ID, Name: p.Name, Email: p.Email}
}

func (c Conversation) ToDomain() domain.Conversation {
	conv := domain.Conversation{
		ID:   domain.ConversationID(c.ID),
		Kind: domain.Kind(c.Kind),
		Name: c.Name,
		Participants: lo.Map(c.Participants, func(p Participant, _ int) domain.Participant {
			return p.ToDomain()
		}),
		UpdatedAt: c.UpdatedAt,
	}
	if c.LastMessage != nil {
		conv.LastMessage = &domain.LastMessage{
			Content:     c.LastMessage.Content,
			ContentType: domain.ContentType(c.LastMessage.ContentType),
			CreatedAt:   c.LastMessage.CreatedAt,
		}
	}
	return conv
}

func (m Message) ToDomain() domain.Message {
	return domain.Message{
		ID:             m.ID,
		ConversationID: domain.ConversationID(m.ConversationID),
		SenderID:       m.SenderID,
		ContentType:    domain.ContentType(m.ContentType),
		Content:        m.Content,
		FileURL:        m.FileURL,
		FileName:       m.FileName,
		CreatedAt:      m.CreatedAt,
		CorrelationID:  m.CorrelationID,
	}
}

func ToConversations(items []Conversation) []domain.Conversation {
	return lo.Map(items, func(c Conversation, _ int) domain.Conversation {
		return c.ToDomain()
	})
}

func ToMessages(items []Message) []domain.Message {
	return lo.Map(items, func(m Message, _ int) domain.Message {
		return m.ToDomain()
	})
}

func ToParticipants(items []Participant) []domain.Participant {
	return lo.Map(items, func(p Participant, _ int) domain.Participant {
		return p.ToDomain()
	})
}
