package dto

import (
	"time"

	"github.com/campusworks/repair-service/internal/domain"
	"github.com/campusworks/repair-service/internal/location"
	"github.com/campusworks/repair-service/internal/ticketview"
)

// LocationRequest carries the structured location of a create/edit payload.
// Exactly one of the two forms must be filled, selected by Kind.
type LocationRequest struct {
	Kind     string `json:"kind" form:"location_kind"`
	Building string `json:"building" form:"location_building"`
	Floor    string `json:"floor" form:"location_floor"`
	Room     string `json:"room" form:"location_room"`
	Text     string `json:"text" form:"location_text"`
}

// ToLocation converts the request into the codec's structured form.
func (r LocationRequest) ToLocation() location.Location {
	return location.Location{
		Kind:     location.Kind(r.Kind),
		Building: r.Building,
		Floor:    r.Floor,
		Room:     r.Room,
		Text:     r.Text,
	}
}

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	CategoryID  int64                 `json:"category_id"`
	Priority    domain.TicketPriority `json:"priority"`
	Location    LocationRequest       `json:"location"`
}

// KeepImageRef identifies a persisted attachment to retain through an edit.
type KeepImageRef struct {
	ID   int64  `json:"id"`
	Path string `json:"path,omitempty"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          int64                 `json:"id"`
	Title       string                `json:"title"`
	CategoryID  int64                 `json:"category_id"`
	Location    string                `json:"location"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	AssignedTo  *int64                `json:"assigned_to"`
	RequesterID int64                 `json:"requester_id"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info plus the actor's capabilities.
type TicketDetailResponse struct {
	TicketSummary
	Description       string                  `json:"description"`
	CompletionDetails string                  `json:"completion_details,omitempty"`
	Images            []AttachmentResponse    `json:"images"`
	CompletionImages  []AttachmentResponse    `json:"completion_images"`
	StatusHistory     []StatusHistoryResponse `json:"status_history"`
	Capabilities      CapabilitiesResponse    `json:"capabilities"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID        int64  `json:"id"`
	FilePath  string `json:"file_path"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// StatusHistoryResponse represents one audit entry.
type StatusHistoryResponse struct {
	ID        int64               `json:"id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	ActorID   *int64              `json:"actor_id"`
	Note      string              `json:"note,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// LocationResponse is the decoded structured location for form pre-fill.
type LocationResponse struct {
	Kind     string `json:"kind"`
	Building string `json:"building,omitempty"`
	Floor    string `json:"floor,omitempty"`
	Room     string `json:"room,omitempty"`
	Text     string `json:"text,omitempty"`
}

// CapabilitiesResponse mirrors the view composer's descriptor so the client
// offers exactly the controls the server will accept.
type CapabilitiesResponse struct {
	CanEditContent       bool                  `json:"can_edit_content"`
	CanManageStatus      bool                  `json:"can_manage_status"`
	CanReopen            bool                  `json:"can_reopen"`
	ShowStatusControls   bool                  `json:"show_status_controls"`
	RequestImagesActive  bool                  `json:"request_images_active"`
	CompletionImgsActive bool                  `json:"completion_images_active"`
	AllowedNextStatuses  []domain.TicketStatus `json:"allowed_next_statuses"`
	Location             LocationResponse      `json:"location"`
	LocationNeedsReentry bool                  `json:"location_needs_reentry"`
}

// FromCapabilities converts the composer output.
func FromCapabilities(caps ticketview.Capabilities) CapabilitiesResponse {
	return CapabilitiesResponse{
		CanEditContent:       caps.CanEditContent,
		CanManageStatus:      caps.CanManageStatus,
		CanReopen:            caps.CanReopen,
		ShowStatusControls:   caps.ShowStatusControls,
		RequestImagesActive:  caps.RequestImagesActive,
		CompletionImgsActive: caps.CompletionImgsActive,
		AllowedNextStatuses:  caps.AllowedNextStatuses,
		Location: LocationResponse{
			Kind:     string(caps.DecodedLocation.Kind),
			Building: caps.DecodedLocation.Building,
			Floor:    caps.DecodedLocation.Floor,
			Room:     caps.DecodedLocation.Room,
			Text:     caps.DecodedLocation.Text,
		},
		LocationNeedsReentry: caps.LocationNeedsReentry,
	}
}

// ReopenRequest payload.
type ReopenRequest struct {
	Note string `json:"note"`
}

// CategoryResponse for the directory endpoints.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
