// Package email delivers decision notices to donors and volunteers.
package email

import (
	"context"
	"time"
)

// SendRequest is one outgoing message.
type SendRequest struct {
	To      []string
	From    string // "Komunitas <noreply@komunitas.id>"; empty uses the sender default
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult identifies an accepted message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers messages through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
	SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error)
}
