package domain

import "time"

// TicketStatus enumerates lifecycle states for repair tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusCompleted  TicketStatus = "completed"
	TicketStatusCancelled  TicketStatus = "cancelled"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusPending, TicketStatusAssigned, TicketStatusInProgress,
		TicketStatusCompleted, TicketStatusCancelled:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Ticket is the aggregate for a repair request.
type Ticket struct {
	ID                int64
	RequesterID       int64
	CategoryID        int64
	AssignedTo        *int64
	Title             string
	Description       string
	Location          string
	Status            TicketStatus
	Priority          TicketPriority
	CompletionDetails string
	Images            []Attachment
	CompletionImages  []Attachment
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
