// Package notify delivers decision links to system owners.
package notify

import (
	"context"

	"github.com/dmitrijs2005/waulty/internal/logging"
)

// Notifier sends a decision link to an email address.
type Notifier interface {
	SendDecisionLink(ctx context.Context, email, link string) error
}

// LogNotifier writes the link to the log instead of sending mail.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{logger: l.With("module", "notify")}
}

func (n *LogNotifier) SendDecisionLink(ctx context.Context, email, link string) error {
	n.logger.Info(ctx, "decision link issued", "email", email, "link", link)
	return nil
}
