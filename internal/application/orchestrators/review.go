package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	emailAdapter "komunitas/internal/adapters/email"
	"komunitas/internal/domain/review"
)

// NotifyDeps configures decision notices for reviewed requests.
type NotifyDeps struct {
	EmailSender emailAdapter.Sender // optional: nil disables notices
	FromAddress string
	ReplyTo     string
	OrgName     string
}

// decide applies a review transition to the record at index i of items.
// POST: changed is false when next equals the current status
func decide[T any](items []T, i int, status func(*T) *review.Status, next review.Status) (changed bool, err error) {
	s := status(&items[i])
	changed, err = review.Transition(*s, next)
	if err != nil || !changed {
		return false, err
	}
	*s = next
	return true, nil
}

// notifyDecision emails the applicant once their request has been decided.
// Delivery failures are logged; the decision itself is already persisted.
func (n NotifyDeps) notifyDecision(ctx context.Context, kind, name, to string, status review.Status) {
	if n.EmailSender == nil || to == "" || !status.IsResolved() {
		return
	}
	org := n.OrgName
	if org == "" {
		org = "Komunitas"
	}

	verdict := "diterima"
	if status == review.StatusRejected {
		verdict = "belum dapat kami terima"
	}
	subject := fmt.Sprintf("%s: pengajuan %s Anda %s", org, kind, verdict)
	body := fmt.Sprintf("<p>Halo %s,</p><p>Terima kasih atas pengajuan %s Anda. Pengajuan tersebut %s.</p><p>Salam,<br>%s</p>",
		html.EscapeString(name), html.EscapeString(kind), verdict, html.EscapeString(org))

	_, err := n.EmailSender.Send(ctx, emailAdapter.SendRequest{
		To:      []string{to},
		From:    n.FromAddress,
		Subject: subject,
		HTML:    body,
		ReplyTo: n.ReplyTo,
	})
	if err != nil {
		slog.Warn("decision_email_failed", "kind", kind, "to", to, "status", status, "error", err)
		return
	}
	slog.Info("email_event", "event", "decision_sent", "kind", kind, "status", status)
}
