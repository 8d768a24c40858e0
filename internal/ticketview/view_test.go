package ticketview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/repair-service/internal/domain"
	"github.com/campusworks/repair-service/internal/location"
	"github.com/campusworks/repair-service/internal/permission"
)

var directory = []string{"อาคาร 1", "อาคาร 2"}

func composer() *Composer {
	return NewComposer(permission.NewEngine())
}

func pendingTicket() *domain.Ticket {
	return &domain.Ticket{
		ID:          1,
		RequesterID: 7,
		Status:      domain.TicketStatusPending,
		Location:    "อาคาร 1 ชั้น 2 ห้อง 201",
	}
}

func TestComposeOwnerOnPendingTicket(t *testing.T) {
	caps := composer().Compose(pendingTicket(), domain.Actor{ID: 7, Role: domain.RoleUser}, directory)

	assert.True(t, caps.CanView)
	assert.True(t, caps.CanEditContent)
	assert.False(t, caps.CanManageStatus)
	assert.False(t, caps.ShowStatusControls)
	assert.True(t, caps.RequestImagesActive)
	assert.False(t, caps.CompletionImgsActive)
	assert.Empty(t, caps.AllowedNextStatuses)

	require.Equal(t, location.KindIndoor, caps.DecodedLocation.Kind)
	assert.Equal(t, "อาคาร 1", caps.DecodedLocation.Building)
	assert.Equal(t, "2", caps.DecodedLocation.Floor)
	assert.Equal(t, "201", caps.DecodedLocation.Room)
	assert.False(t, caps.LocationNeedsReentry)
}

func TestComposeOwnerLosesEditAfterPending(t *testing.T) {
	ticket := pendingTicket()
	ticket.Status = domain.TicketStatusInProgress
	caps := composer().Compose(ticket, domain.Actor{ID: 7, Role: domain.RoleUser}, directory)

	assert.True(t, caps.CanView)
	assert.False(t, caps.CanEditContent)
	assert.False(t, caps.RequestImagesActive)
}

func TestComposeTechnician(t *testing.T) {
	ticket := pendingTicket()
	ticket.Status = domain.TicketStatusAssigned
	caps := composer().Compose(ticket, domain.Actor{ID: 9, Role: domain.RoleTechnician}, directory)

	assert.True(t, caps.CanEditContent)
	assert.True(t, caps.CanManageStatus)
	assert.True(t, caps.ShowStatusControls)
	assert.True(t, caps.CompletionImgsActive)
	assert.Equal(t, []domain.TicketStatus{
		domain.TicketStatusInProgress,
		domain.TicketStatusCompleted,
		domain.TicketStatusCancelled,
		domain.TicketStatusPending,
	}, caps.AllowedNextStatuses)
	assert.False(t, caps.CanReopen)
}

func TestComposeTerminalTicketOffersReopenToStaff(t *testing.T) {
	ticket := pendingTicket()
	ticket.Status = domain.TicketStatusCompleted
	caps := composer().Compose(ticket, domain.Actor{ID: 10, Role: domain.RoleAdmin}, directory)

	assert.True(t, caps.CanReopen)
	assert.False(t, caps.ShowStatusControls)
	assert.Empty(t, caps.AllowedNextStatuses)

	ownerCaps := composer().Compose(ticket, domain.Actor{ID: 7, Role: domain.RoleUser}, directory)
	assert.False(t, ownerCaps.CanReopen)
}

func TestComposeStrangerGetsNothing(t *testing.T) {
	caps := composer().Compose(pendingTicket(), domain.Actor{ID: 99, Role: domain.RoleUser}, directory)
	assert.False(t, caps.CanView)
	assert.False(t, caps.CanEditContent)
	assert.Empty(t, caps.DecodedLocation.Building, "no location data for non-stakeholders")
}

func TestComposeFlagsUndecodableLocation(t *testing.T) {
	ticket := pendingTicket()
	ticket.Location = "ตึกที่ถูกรื้อไปแล้ว ชั้น 3"
	caps := composer().Compose(ticket, domain.Actor{ID: 7, Role: domain.RoleUser}, directory)

	assert.True(t, caps.LocationNeedsReentry)
	assert.Empty(t, caps.DecodedLocation.Building)
	assert.Equal(t, "3", caps.DecodedLocation.Floor)
}
