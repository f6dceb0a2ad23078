package domain

import "errors"

var (
	// ErrNoAuthToken is returned when an authentication token is required but not provided.
	ErrNoAuthToken = errors.New("no auth token")
	// ErrInvalidAuthToken is returned when a token cannot be parsed or its signature does not verify.
	ErrInvalidAuthToken = errors.New("invalid auth token")
	// ErrExpiredAuthToken is returned when a token is past its encoded expiry.
	ErrExpiredAuthToken = errors.New("expired auth token")
)

// SessionToken is the decoded payload of a session token.
// Tokens are self-contained and never persisted server-side; a token
// stays valid until its own ExpiresAt regardless of later rotations.
type SessionToken struct {
	UserID    string `json:"sub"` // Identifier of the authenticated user
	IssuedAt  int64  `json:"iat"` // Unix timestamp when the token was minted
	ExpiresAt int64  `json:"exp"` // Unix timestamp when the token expires
}