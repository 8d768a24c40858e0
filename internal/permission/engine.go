// Package permission is the single access-control decision surface for repair
// tickets. Handlers, services and the view composer all consult it instead of
// branching on roles inline, so the rules live and are tested in one place.
package permission

import "github.com/campusworks/repair-service/internal/domain"

// Engine answers allow/deny questions for an actor against a ticket.
type Engine struct{}

// NewEngine constructs the engine.
func NewEngine() *Engine {
	return &Engine{}
}

// CanView restricts reads to stakeholders: responders see everything, the
// requester sees their own tickets.
func (e *Engine) CanView(actor domain.Actor, ticket *domain.Ticket) bool {
	if ticket == nil {
		return false
	}
	if actor.Role.IsResponder() {
		return true
	}
	return actor.ID == ticket.RequesterID
}

// CanEditContent covers the requester's domain: title, description, category,
// location, priority and request images. Responders may edit at any time; the
// owner only while the ticket is still pending.
func (e *Engine) CanEditContent(actor domain.Actor, ticket *domain.Ticket) bool {
	if ticket == nil {
		return false
	}
	if actor.Role.IsResponder() {
		return true
	}
	return actor.ID == ticket.RequesterID && ticket.Status == domain.TicketStatusPending
}

// CanManageStatus covers the responder's domain: status, assignment,
// completion details and completion images. Requesters never qualify, even on
// their own tickets.
func (e *Engine) CanManageStatus(actor domain.Actor, _ *domain.Ticket) bool {
	return actor.Role.IsResponder()
}
