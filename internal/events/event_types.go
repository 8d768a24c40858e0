package events

import (
	"time"

	"github.com/campusworks/repair-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated        EventType = "ticket_created"
	EventTicketContentUpdated EventType = "ticket_content_updated"
	EventTicketStatusChanged  EventType = "ticket_status_changed"
	EventTicketAssigned       EventType = "ticket_assigned"
	EventTicketReopened       EventType = "ticket_reopened"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	TicketID  int64        `json:"ticket_id"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CategoryID int64                 `json:"category_id"`
	Priority   domain.TicketPriority `json:"priority"`
	Title      string                `json:"title"`
	Location   string                `json:"location"`
}

// TicketContentUpdatedPayload payload.
type TicketContentUpdatedPayload struct {
	KeptImages int `json:"kept_images"`
	NewImages  int `json:"new_images"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Note      string              `json:"note,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignedTo *int64 `json:"assigned_to,omitempty"`
}

// TicketReopenedPayload payload.
type TicketReopenedPayload struct {
	FromStatus domain.TicketStatus `json:"from_status"`
}
