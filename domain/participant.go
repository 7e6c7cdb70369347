// Package domain contains core concepts of the conversation subsystem.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// Participant is a member of the organization directory. The subsystem never
// owns these records; it only references them as conversation members,
// message senders, or search results.
type Participant struct {
	ID    string
	Name  string
	Email string // optional search key
}
