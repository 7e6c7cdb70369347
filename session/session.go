// Package session is the boundary with the identity collaborator. The
// conversation subsystem never creates or refreshes sessions; it only reads
// the token and the caller identity carried inside it.
package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the identity data stored inside the bearer token.
type Claims struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	jwt.RegisteredClaims
}

// Session is the read-only identity record the subsystem operates under.
// The channel handshake and all REST reads carry Token as the credential.
type Session struct {
	Token          string
	ParticipantID  string
	OrganizationID string
}

// FromToken extracts the caller identity from a bearer token. Signature
// verification is the server's job; the client only needs the claims, so the
// token is parsed without validating it.
func FromToken(token string) (Session, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("malformed session token: %w", err)
	}
	if claims.UserID == "" {
		return Session{}, fmt.Errorf("session token carries no user id")
	}
	return Session{
		Token:          token,
		ParticipantID:  claims.UserID,
		OrganizationID: claims.OrganizationID,
	}, nil
}
