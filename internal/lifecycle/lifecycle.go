// Package lifecycle holds the ticket status state machine: which transitions
// are legal and which fields each transition demands. Validation happens here,
// before any store call, so illegal submissions never reach the ticket store.
package lifecycle

import (
	"github.com/campusworks/repair-service/internal/domain"
	apperrors "github.com/campusworks/repair-service/pkg/util/errorutil"
)

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusPending:    {domain.TicketStatusAssigned, domain.TicketStatusInProgress, domain.TicketStatusCompleted, domain.TicketStatusCancelled},
	domain.TicketStatusAssigned:   {domain.TicketStatusInProgress, domain.TicketStatusCompleted, domain.TicketStatusCancelled, domain.TicketStatusPending},
	domain.TicketStatusInProgress: {domain.TicketStatusCompleted, domain.TicketStatusCancelled, domain.TicketStatusAssigned},
	domain.TicketStatusCompleted:  {},
	domain.TicketStatusCancelled:  {},
}

// CanTransition reports whether the normal flow permits current→next. A
// no-op transition (same status) is always allowed so responders can adjust
// assignment without changing status.
func CanTransition(current, next domain.TicketStatus) bool {
	if current == next {
		return true
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends the normal flow.
func Terminal(s domain.TicketStatus) bool {
	return s == domain.TicketStatusCompleted || s == domain.TicketStatusCancelled
}

// CanReopen reports whether a ticket in the given status may be sent back to
// pending. Reopening is deliberately not part of the normal transition map:
// it is a distinct responder-only operation.
func CanReopen(current domain.TicketStatus) bool {
	return Terminal(current)
}

// NextStatuses lists the statuses reachable from current through the normal
// flow, in display order.
func NextStatuses(current domain.TicketStatus) []domain.TicketStatus {
	return append([]domain.TicketStatus(nil), allowedTransitions[current]...)
}

// TransitionRequest carries the fields a status submission may set.
type TransitionRequest struct {
	NewStatus         domain.TicketStatus
	AssignedTo        *int64
	CompletionDetails string
	HasCompletionImgs bool
}

// ValidateTransition checks a requested transition against the state machine
// and its field preconditions. The actor must already have passed the
// permission engine's CanManageStatus check; this function validates the
// payload, not the actor.
func ValidateTransition(current domain.TicketStatus, req TransitionRequest) error {
	if !domain.ValidStatus(req.NewStatus) {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": string(req.NewStatus)})
	}
	if !CanTransition(current, req.NewStatus) {
		return apperrors.NewValidationError("illegal status transition", map[string]any{
			"from": string(current),
			"to":   string(req.NewStatus),
		})
	}
	if req.NewStatus == domain.TicketStatusCompleted && req.CompletionDetails == "" {
		return apperrors.NewMissingRequiredField("completion_details")
	}
	if req.HasCompletionImgs && req.NewStatus != domain.TicketStatusCompleted {
		return apperrors.NewValidationError("completion images require completed status", map[string]any{
			"status": string(req.NewStatus),
		})
	}
	return nil
}
