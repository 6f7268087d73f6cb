package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// NoopSender logs notices instead of delivering them. It backs development setups without a Resend key.
type NoopSender struct {
	seq atomic.Uint64
}

// NewNoopSender creates a NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Sent reports how many messages have passed through the sender.
func (s *NoopSender) Sent() uint64 {
	return s.seq.Load()
}

// Send logs req and returns a synthetic message id.
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	n := s.seq.Add(1)
	slog.Info("email_sent", "provider", "noop", "to", req.To, "subject", req.Subject)
	return SendResult{MessageID: fmt.Sprintf("noop-%d", n), SentAt: time.Now()}, nil
}

// SendBatch logs every request in order.
func (s *NoopSender) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	results := make([]SendResult, 0, len(reqs))
	for _, req := range reqs {
		res, _ := s.Send(ctx, req)
		results = append(results, res)
	}
	return results, nil
}
