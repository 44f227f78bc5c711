package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

const DefaultLanguage = "English"

type Session struct {
	ID         string    `json:"session_id"`
	CustomerID int       `json:"customer_id"`
	Name       string    `json:"name"`
	Language   string    `json:"language"`
	Turn       int       `json:"turn"`
	CreatedAt  time.Time `json:"created_at"`
}

type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// Image is a user upload forwarded to the model with the turn it arrived in.
type Image struct {
	Data     []byte
	MIMEType string
}

// QuoteToken records a provisional quote shown to the customer. A commit
// tool call is only honoured against a token from the previous turn of the
// same session.
type QuoteToken struct {
	SessionID   string `json:"session_id"`
	Turn        int    `json:"turn"`
	Tool        string `json:"tool"`
	Fingerprint string `json:"fingerprint"`
	GrandTotal  string `json:"grand_total,omitempty"`
}
