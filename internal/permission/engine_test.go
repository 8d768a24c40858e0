package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusworks/repair-service/internal/domain"
)

var (
	owner      = domain.Actor{ID: 7, Role: domain.RoleUser}
	stranger   = domain.Actor{ID: 8, Role: domain.RoleUser}
	technician = domain.Actor{ID: 9, Role: domain.RoleTechnician}
	admin      = domain.Actor{ID: 10, Role: domain.RoleAdmin}
)

func ticketWithStatus(status domain.TicketStatus) *domain.Ticket {
	return &domain.Ticket{ID: 1, RequesterID: owner.ID, Status: status}
}

func TestCanView(t *testing.T) {
	engine := NewEngine()
	ticket := ticketWithStatus(domain.TicketStatusPending)

	assert.True(t, engine.CanView(owner, ticket))
	assert.True(t, engine.CanView(technician, ticket))
	assert.True(t, engine.CanView(admin, ticket))
	assert.False(t, engine.CanView(stranger, ticket))
	assert.False(t, engine.CanView(admin, nil))
}

func TestOwnerEditWindowIsPendingOnly(t *testing.T) {
	engine := NewEngine()
	for _, status := range []domain.TicketStatus{
		domain.TicketStatusPending,
		domain.TicketStatusAssigned,
		domain.TicketStatusInProgress,
		domain.TicketStatusCompleted,
		domain.TicketStatusCancelled,
	} {
		ticket := ticketWithStatus(status)
		expected := status == domain.TicketStatusPending
		assert.Equal(t, expected, engine.CanEditContent(owner, ticket), "owner edit at status %s", status)
	}
}

func TestRespondersEditContentAtAnyStatus(t *testing.T) {
	engine := NewEngine()
	for _, status := range []domain.TicketStatus{
		domain.TicketStatusPending,
		domain.TicketStatusInProgress,
		domain.TicketStatusCompleted,
	} {
		ticket := ticketWithStatus(status)
		assert.True(t, engine.CanEditContent(technician, ticket))
		assert.True(t, engine.CanEditContent(admin, ticket))
	}
}

func TestStrangerNeverEditsContent(t *testing.T) {
	engine := NewEngine()
	assert.False(t, engine.CanEditContent(stranger, ticketWithStatus(domain.TicketStatusPending)))
}

func TestCanManageStatusRespondersOnly(t *testing.T) {
	engine := NewEngine()
	ticket := ticketWithStatus(domain.TicketStatusPending)

	assert.True(t, engine.CanManageStatus(technician, ticket))
	assert.True(t, engine.CanManageStatus(admin, ticket))
	assert.False(t, engine.CanManageStatus(owner, ticket), "requesters never manage status, even on their own ticket")
	assert.False(t, engine.CanManageStatus(stranger, ticket))
}
