package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// resendBatchLimit is the most messages one Resend batch call accepts.
const resendBatchLimit = 100

// ResendSender delivers notices through the Resend API.
type ResendSender struct {
	client  *resend.Client
	from    string
	replyTo string
	now     func() time.Time
}

// NewResendSender creates a sender with default From and Reply-To addresses.
// PRE: apiKey is a Resend API key; from is a verified sender address
func NewResendSender(apiKey, from, replyTo string) *ResendSender {
	return &ResendSender{
		client:  resend.NewClient(apiKey),
		from:    from,
		replyTo: replyTo,
		now:     time.Now,
	}
}

// params converts req into a Resend request, filling sender defaults.
func (s *ResendSender) params(req SendRequest) *resend.SendEmailRequest {
	p := &resend.SendEmailRequest{
		From:    req.From,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		ReplyTo: req.ReplyTo,
	}
	if p.From == "" {
		p.From = s.from
	}
	if p.ReplyTo == "" {
		p.ReplyTo = s.replyTo
	}
	return p
}

// Send delivers one message.
// PRE: req has at least one recipient
// POST: Returns the Resend message id
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, s.params(req))
	if err != nil {
		slog.Error("email_send_failed", "provider", "resend", "error", err, "subject", req.Subject)
		return SendResult{}, fmt.Errorf("resend send: %w", err)
	}
	slog.Info("email_sent", "provider", "resend", "message_id", sent.Id, "subject", req.Subject)
	return SendResult{MessageID: sent.Id, SentAt: s.now()}, nil
}

// SendBatch delivers reqs in chunks of resendBatchLimit.
// POST: Results are in request order; on error, results for earlier chunks are returned
func (s *ResendSender) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	results := make([]SendResult, 0, len(reqs))
	for start := 0; start < len(reqs); start += resendBatchLimit {
		chunk := reqs[start:min(start+resendBatchLimit, len(reqs))]

		batch := make([]*resend.SendEmailRequest, len(chunk))
		for i, req := range chunk {
			batch[i] = s.params(req)
		}
		resp, err := s.client.Batch.SendWithContext(ctx, batch)
		if err != nil {
			slog.Error("email_batch_failed", "provider", "resend", "error", err, "chunk", len(chunk))
			return results, fmt.Errorf("resend batch: %w", err)
		}
		for _, item := range resp.Data {
			results = append(results, SendResult{MessageID: item.Id, SentAt: s.now()})
		}
	}
	slog.Info("email_batch_sent", "provider", "resend", "count", len(results))
	return results, nil
}
