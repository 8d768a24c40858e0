// Package ticketview composes the permission engine, lifecycle and location
// codec into one capability descriptor for a concrete ticket and actor. The
// edit UI and the submission validator both derive from this descriptor, so
// they cannot disagree about what is editable.
package ticketview

import (
	"github.com/campusworks/repair-service/internal/domain"
	"github.com/campusworks/repair-service/internal/lifecycle"
	"github.com/campusworks/repair-service/internal/location"
	"github.com/campusworks/repair-service/internal/permission"
)

// Capabilities describes what the actor may do with the ticket right now.
type Capabilities struct {
	CanView              bool
	CanEditContent       bool
	CanManageStatus      bool
	CanReopen            bool
	ShowStatusControls   bool
	RequestImagesActive  bool
	CompletionImgsActive bool
	AllowedNextStatuses  []domain.TicketStatus
	DecodedLocation      location.Location
	LocationNeedsReentry bool
}

// Composer builds capability descriptors. It performs no I/O; the building
// directory is supplied by the caller.
type Composer struct {
	perms *permission.Engine
}

// NewComposer constructs a composer around the shared permission engine.
func NewComposer(perms *permission.Engine) *Composer {
	return &Composer{perms: perms}
}

// Compose evaluates the ticket against the actor. For actors without view
// access every capability is false and no location data is exposed.
func (c *Composer) Compose(ticket *domain.Ticket, actor domain.Actor, directory []string) Capabilities {
	caps := Capabilities{}
	if ticket == nil || !c.perms.CanView(actor, ticket) {
		return caps
	}
	caps.CanView = true
	caps.CanEditContent = c.perms.CanEditContent(actor, ticket)
	caps.CanManageStatus = c.perms.CanManageStatus(actor, ticket)
	caps.CanReopen = caps.CanManageStatus && lifecycle.CanReopen(ticket.Status)
	caps.ShowStatusControls = caps.CanManageStatus && !lifecycle.Terminal(ticket.Status)
	caps.RequestImagesActive = caps.CanEditContent
	caps.CompletionImgsActive = caps.CanManageStatus
	if caps.CanManageStatus {
		caps.AllowedNextStatuses = lifecycle.NextStatuses(ticket.Status)
	}

	caps.DecodedLocation = location.Decode(ticket.Location, directory)
	caps.LocationNeedsReentry = caps.CanEditContent && !caps.DecodedLocation.Complete()
	return caps
}
