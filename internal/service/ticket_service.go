package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campusworks/repair-service/internal/attachments"
	"github.com/campusworks/repair-service/internal/domain"
	"github.com/campusworks/repair-service/internal/events"
	"github.com/campusworks/repair-service/internal/lifecycle"
	"github.com/campusworks/repair-service/internal/location"
	"github.com/campusworks/repair-service/internal/permission"
	"github.com/campusworks/repair-service/internal/repository"
	apperrors "github.com/campusworks/repair-service/pkg/util/errorutil"
)

const (
	titleMinLen       = 5
	titleMaxLen       = 200
	descriptionMinLen = 10
	outdoorTextMinLen = 5
)

// TicketService coordinates repair-ticket workflows. Every permission and
// lifecycle rule is resolved here, before any store write, so illegal
// submissions never reach the ticket store.
type TicketService struct {
	tickets     repository.TicketRepository
	attachments repository.AttachmentRepository
	categories  repository.CategoryRepository
	history     repository.StatusHistoryRepository
	perms       *permission.Engine
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	AttachmentRepo repository.AttachmentRepository
	CategoryRepo   repository.CategoryRepository
	HistoryRepo    repository.StatusHistoryRepository
	Permissions    *permission.Engine
	Dispatcher     events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		attachments: deps.AttachmentRepo,
		categories:  deps.CategoryRepo,
		history:     deps.HistoryRepo,
		perms:       deps.Permissions,
		dispatcher:  deps.Dispatcher,
	}
}

// NewImage is an accepted upload already written to the image store.
type NewImage struct {
	FilePath  string
	FileName  string
	MimeType  string
	SizeBytes int64
}

// CreateTicketInput describes ticket creation payload.
type CreateTicketInput struct {
	Title       string
	Description string
	CategoryID  int64
	Priority    domain.TicketPriority
	Location    location.Location
	Images      []NewImage
}

// ContentUpdateInput describes the owner/responder content edit payload.
// Images carries the keep+new reconcile instruction built by the edit session.
type ContentUpdateInput struct {
	Title       string
	Description string
	CategoryID  int64
	Priority    domain.TicketPriority
	Location    location.Location
	KeepImages  []int64
	NewImages   []NewImage
}

// StatusUpdateInput describes the responder status edit payload.
type StatusUpdateInput struct {
	NewStatus            domain.TicketStatus
	AssignedTo           *int64
	SetAssignment        bool
	CompletionDetails    string
	Note                 string
	KeepCompletionImages []int64
	NewCompletionImages  []NewImage
}

// TicketFilter narrows listings.
type TicketFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	SearchTerm *string
	Limit      int
	Offset     int
}

// CreateTicket files a new repair request. Any authenticated actor may file;
// the ticket starts pending and unassigned.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input CreateTicketInput) (*domain.Ticket, error) {
	encoded, err := s.validateContent(ctx, input.Title, input.Description, input.CategoryID, input.Priority, input.Location)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		RequesterID: actor.ID,
		CategoryID:  input.CategoryID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Location:    encoded,
		Status:      domain.TicketStatusPending,
		Priority:    input.Priority,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	for _, img := range input.Images {
		record := &domain.Attachment{
			TicketID:  ticket.ID,
			Kind:      domain.AttachmentKindRequest,
			FilePath:  img.FilePath,
			FileName:  img.FileName,
			MimeType:  img.MimeType,
			SizeBytes: img.SizeBytes,
		}
		if err := s.attachments.Create(ctx, record); err != nil {
			return nil, apperrors.MapError(err)
		}
		ticket.Images = append(ticket.Images, *record)
	}

	if err := s.recordHistory(ctx, ticket.ID, "", domain.TicketStatusPending, actor, "created"); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketCreatedPayload{
			CategoryID: ticket.CategoryID,
			Priority:   ticket.Priority,
			Title:      ticket.Title,
			Location:   ticket.Location,
		},
	})
	return ticket, nil
}

// GetTicket loads a ticket with both image collections and display-filtered
// history, enforcing stakeholder-only reads.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, ticketID int64) (*domain.Ticket, []domain.StatusHistory, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !s.perms.CanView(actor, ticket) {
		return nil, nil, apperrors.NewPermissionDenied("not a stakeholder of this ticket")
	}

	if ticket.Images, err = s.attachments.ListByTicket(ctx, ticket.ID, domain.AttachmentKindRequest); err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if ticket.CompletionImages, err = s.attachments.ListByTicket(ctx, ticket.ID, domain.AttachmentKindCompletion); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	history, err := s.displayHistory(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, history, nil
}

// ListTickets returns tickets visible to the actor: responders see every
// ticket, requesters only their own.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor, filter TicketFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if !actor.Role.IsResponder() {
		requesterID := actor.ID
		repoFilter.RequesterID = &requesterID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// UpdateContent applies the requester-domain edit: title, description,
// category, location, priority and the request image collection.
func (s *TicketService) UpdateContent(ctx context.Context, actor domain.Actor, ticketID int64, input ContentUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanEditContent(actor, ticket) {
		return nil, apperrors.NewPermissionDenied("content editing not allowed for this actor in the ticket's current status")
	}

	encoded, err := s.validateContent(ctx, input.Title, input.Description, input.CategoryID, input.Priority, input.Location)
	if err != nil {
		return nil, err
	}

	ticket.Title = strings.TrimSpace(input.Title)
	ticket.Description = strings.TrimSpace(input.Description)
	ticket.CategoryID = input.CategoryID
	ticket.Priority = input.Priority
	ticket.Location = encoded
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.reconcileImages(ctx, ticket.ID, domain.AttachmentKindRequest, input.KeepImages, input.NewImages); err != nil {
		return nil, err
	}
	if ticket.Images, err = s.attachments.ListByTicket(ctx, ticket.ID, domain.AttachmentKindRequest); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketContentUpdated,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketContentUpdatedPayload{
			KeptImages: len(input.KeepImages),
			NewImages:  len(input.NewImages),
		},
	})
	return ticket, nil
}

// UpdateStatus applies the responder-domain edit: status transition,
// assignment, completion details and completion images.
func (s *TicketService) UpdateStatus(ctx context.Context, actor domain.Actor, ticketID int64, input StatusUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanManageStatus(actor, ticket) {
		return nil, apperrors.NewPermissionDenied("status management requires a technician or admin role")
	}

	details := strings.TrimSpace(input.CompletionDetails)
	if err := lifecycle.ValidateTransition(ticket.Status, lifecycle.TransitionRequest{
		NewStatus:         input.NewStatus,
		AssignedTo:        input.AssignedTo,
		CompletionDetails: details,
		HasCompletionImgs: len(input.NewCompletionImages) > 0,
	}); err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	oldAssignee := ticket.AssignedTo
	ticket.Status = input.NewStatus
	if input.SetAssignment {
		ticket.AssignedTo = input.AssignedTo
	}
	if input.NewStatus == domain.TicketStatusCompleted {
		ticket.CompletionDetails = details
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.NewStatus == domain.TicketStatusCompleted {
		if err := s.reconcileImages(ctx, ticket.ID, domain.AttachmentKindCompletion, input.KeepCompletionImages, input.NewCompletionImages); err != nil {
			return nil, err
		}
		if ticket.CompletionImages, err = s.attachments.ListByTicket(ctx, ticket.ID, domain.AttachmentKindCompletion); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	if oldStatus != ticket.Status {
		if err := s.recordHistory(ctx, ticket.ID, oldStatus, ticket.Status, actor, input.Note); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    actor,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
				Note:      input.Note,
			},
		})
	}
	if input.SetAssignment && !sameAssignee(oldAssignee, ticket.AssignedTo) {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Actor:    actor,
			Payload:  events.TicketAssignedPayload{AssignedTo: ticket.AssignedTo},
		})
	}
	return ticket, nil
}

// ReopenTicket sends a completed or cancelled ticket back to pending. This is
// deliberately outside the normal transition flow and responder-only.
func (s *TicketService) ReopenTicket(ctx context.Context, actor domain.Actor, ticketID int64, note string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanManageStatus(actor, ticket) {
		return nil, apperrors.NewPermissionDenied("reopening requires a technician or admin role")
	}
	if !lifecycle.CanReopen(ticket.Status) {
		return nil, apperrors.NewValidationError("only completed or cancelled tickets can be reopened", map[string]any{
			"status": string(ticket.Status),
		})
	}

	oldStatus := ticket.Status
	ticket.Status = domain.TicketStatusPending
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if note == "" {
		note = "reopened"
	}
	if err := s.recordHistory(ctx, ticket.ID, oldStatus, ticket.Status, actor, note); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketReopened,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  events.TicketReopenedPayload{FromStatus: oldStatus},
	})
	return ticket, nil
}

// History returns display-filtered history for stakeholders.
func (s *TicketService) History(ctx context.Context, actor domain.Actor, ticketID int64) ([]domain.StatusHistory, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanView(actor, ticket) {
		return nil, apperrors.NewPermissionDenied("not a stakeholder of this ticket")
	}
	return s.displayHistory(ctx, ticketID)
}

// SeedAttachmentSet builds an edit-session attachment set from the persisted
// collection, so handlers and the core agree on the session's starting state.
func (s *TicketService) SeedAttachmentSet(ctx context.Context, ticketID int64, kind domain.AttachmentKind) (*attachments.Set, error) {
	current, err := s.attachments.ListByTicket(ctx, ticketID, kind)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachments.NewSet(kind, current), nil
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// validateContent checks the requester-domain fields and returns the encoded
// canonical location string.
func (s *TicketService) validateContent(ctx context.Context, title, description string, categoryID int64, priority domain.TicketPriority, loc location.Location) (string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	details := map[string]any{}
	if n := len([]rune(title)); n < titleMinLen || n > titleMaxLen {
		details["title"] = "must be 5-200 characters"
	}
	if len([]rune(description)) < descriptionMinLen {
		details["description"] = "must be at least 10 characters"
	}
	if categoryID <= 0 {
		details["category_id"] = "required"
	}
	if !domain.ValidPriority(priority) {
		details["priority"] = "must be one of low, medium, high, urgent"
	}
	if loc.Kind == location.KindOutdoor && len([]rune(strings.TrimSpace(loc.Text))) < outdoorTextMinLen {
		details["location"] = "outdoor description must be at least 5 characters"
	}
	if len(details) > 0 {
		return "", apperrors.NewValidationError("invalid ticket content", details)
	}

	if s.categories != nil && categoryID > 0 {
		category, err := s.categories.GetByID(ctx, categoryID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return "", apperrors.NewValidationError("unknown category", map[string]any{"category_id": categoryID})
			}
			return "", apperrors.MapError(err)
		}
		if !category.IsActive {
			return "", apperrors.NewValidationError("category inactive", map[string]any{"category_id": categoryID})
		}
	}

	return location.Encode(loc)
}

func (s *TicketService) reconcileImages(ctx context.Context, ticketID int64, kind domain.AttachmentKind, keep []int64, add []NewImage) error {
	if len(add) == 0 && keep == nil {
		return nil
	}
	records := make([]domain.Attachment, 0, len(add))
	for _, img := range add {
		records = append(records, domain.Attachment{
			TicketID:  ticketID,
			Kind:      kind,
			FilePath:  img.FilePath,
			FileName:  img.FileName,
			MimeType:  img.MimeType,
			SizeBytes: img.SizeBytes,
		})
	}
	if keep == nil {
		keep = []int64{}
	}
	if err := s.attachments.Reconcile(ctx, ticketID, kind, keep, records); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// displayHistory filters corrupt rows (both statuses empty) out of the read
// path; storage keeps them untouched.
func (s *TicketService) displayHistory(ctx context.Context, ticketID int64) ([]domain.StatusHistory, error) {
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	visible := make([]domain.StatusHistory, 0, len(entries))
	for _, entry := range entries {
		if entry.Corrupt() {
			continue
		}
		visible = append(visible, entry)
	}
	return visible, nil
}

func (s *TicketService) recordHistory(ctx context.Context, ticketID int64, oldStatus, newStatus domain.TicketStatus, actor domain.Actor, note string) error {
	actorID := actor.ID
	entry := &domain.StatusHistory{
		TicketID:  ticketID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ActorID:   &actorID,
		Note:      note,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func sameAssignee(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
