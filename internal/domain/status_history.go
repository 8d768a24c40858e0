package domain

import "time"

// StatusHistory is an append-only audit entry for a status change. Entries are
// never mutated or deleted once written.
type StatusHistory struct {
	ID        int64
	TicketID  int64
	OldStatus TicketStatus
	NewStatus TicketStatus
	ActorID   *int64
	Note      string
	CreatedAt time.Time
}

// Corrupt reports whether the entry carries no status information at all.
// Such rows stay in storage but are excluded from display.
func (h StatusHistory) Corrupt() bool {
	return h.OldStatus == "" && h.NewStatus == ""
}
