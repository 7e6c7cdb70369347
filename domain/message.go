// Package domain contains core concepts of the conversation subsystem.
// This file defines Message records and related rules.
// Messages are immutable and belong to exactly one conversation.
package domain

import (
	"time"
)

type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
	ContentPDF   ContentType = "pdf"
	ContentFile  ContentType = "file"
)

// Message represents one immutable entry of a conversation's log.
// Within a conversation the log is ordered by CreatedAt ascending and is
// append-only from the client's perspective.
type Message struct {
	ID             string
	ConversationID ConversationID
	SenderID       string
	ContentType    ContentType
	Content        string
	FileURL        string // relative path for image/pdf/file content
	FileName       string
	CreatedAt      time.Time

	// CorrelationID echoes the client-generated id of the submission that
	// produced this message, when the server relays it. Empty otherwise.
	CorrelationID string
}

// IsAttachment reports whether the message carries a file reference rather
// than plain text.
func (m Message) IsAttachment() bool {
	return m.ContentType != ContentText && m.ContentType != ""
}
