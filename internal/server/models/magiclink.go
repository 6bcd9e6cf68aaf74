package models

import "time"

// MagicLink lets an unauthenticated system owner record one decision.
type MagicLink struct {
	ID          string      `db:"id"`
	Token       string      `db:"token"`
	Email       string      `db:"email"`
	ContextType ContextType `db:"context_type"`
	ContextID   string      `db:"context_id"`
	Used        bool        `db:"used"`
	ExpiresAt   time.Time   `db:"expires_at"`
	CreatedAt   time.Time   `db:"created_at"`
}

// Usable reports whether the link may still be honoured at now.
func (l *MagicLink) Usable(now time.Time) bool {
	return !l.Used && now.Before(l.ExpiresAt)
}
