package transport

import (
	"encoding/json"
	"fmt"

	"chat-client/domain"
	"chat-client/domain/event"
	"chat-client/wire"
)

// frame is the envelope of every named event on the channel, in both
// directions.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type roomPayload struct {
	ConversationID string `json:"conversationId"`
}

type sendPayload struct {
	ConversationID string `json:"conversationId,omitempty"`
	RecipientID    string `json:"recipientId,omitempty"`
	Content        string `json:"content"`
	CorrelationID  string `json:"correlationId,omitempty"`
}

func encodeCommand(cmd domain.Command) (frame, error) {
	var payload any
	switch c := cmd.(type) {
	case domain.JoinRoomCommand:
		payload = roomPayload{ConversationID: string(c.ConversationID)}
	case domain.LeaveRoomCommand:
		payload = roomPayload{ConversationID: string(c.ConversationID)}
	case domain.SendMessageCommand:
		payload = sendPayload{
			ConversationID: string(c.ConversationID),
			RecipientID:    c.RecipientID,
			Content:        c.Content,
			CorrelationID:  c.CorrelationID,
		}
	default:
		return frame{}, fmt.Errorf("unknown outbound command %T", cmd)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return frame{}, fmt.Errorf("encoding %s payload: %w", cmd.EventName(), err)
	}
	return frame{Event: cmd.EventName(), Data: data}, nil
}

func decodeFrame(f frame) (event.Event, error) {
	switch f.Event {
	case "newMessage":
		var p struct {
			Message      wire.Message      `json:"message"`
			Conversation wire.Conversation `json:"conversation"`
		}
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return nil, fmt.Errorf("decoding newMessage: %w", err)
		}
		return event.NewMessage{
			Message:      p.Message.ToDomain(),
			Conversation: p.Conversation.ToDomain(),
		}, nil
	case "newConversation":
		var c wire.Conversation
		if err := json.Unmarshal(f.Data, &c); err != nil {
			return nil, fmt.Errorf("decoding newConversation: %w", err)
		}
		return event.NewConversation{Conversation: c.ToDomain()}, nil
	case "sendMessageError":
		var p struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return nil, fmt.Errorf("decoding sendMessageError: %w", err)
		}
		return event.SendFailed{Reason: p.Message}, nil
	default:
		return nil, fmt.Errorf("unknown inbound event %q", f.Event)
	}
}
