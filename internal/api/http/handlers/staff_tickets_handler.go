package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campusworks/repair-service/internal/api/dto"
	"github.com/campusworks/repair-service/internal/auth"
	"github.com/campusworks/repair-service/internal/domain"
	"github.com/campusworks/repair-service/internal/service"
	"github.com/campusworks/repair-service/internal/storage"
	apperrors "github.com/campusworks/repair-service/pkg/util/errorutil"
)

// StaffTicketsHandler exposes the responder-domain endpoints: status
// transitions, assignment, completion evidence and reopening.
type StaffTicketsHandler struct {
	tickets *service.TicketService
	store   *storage.ImageStore
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(tickets *service.TicketService, store *storage.ImageStore) *StaffTicketsHandler {
	return &StaffTicketsHandler{tickets: tickets, store: store}
}

// UpdateStatus PUT /tickets/:id/status. Multipart: status, assigned_to,
// completion_details, completion_images[] and keep_completion_images.
func (h *StaffTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form required", nil)
	}

	input := service.StatusUpdateInput{
		NewStatus:         domain.TicketStatus(formValue(form, "status")),
		CompletionDetails: formValue(form, "completion_details"),
		Note:              formValue(form, "note"),
	}
	if rawAssignee, present := form.Value["assigned_to"]; present {
		input.SetAssignment = true
		if len(rawAssignee) > 0 && strings.TrimSpace(rawAssignee[0]) != "" {
			id := parseInt64(rawAssignee[0])
			if id <= 0 {
				return apperrors.NewValidationError("invalid assigned_to", nil)
			}
			input.AssignedTo = &id
		}
	}

	set, err := h.tickets.SeedAttachmentSet(c.Context(), ticketID, domain.AttachmentKindCompletion)
	if err != nil {
		return err
	}
	newImages, dropped, err := stageSession(h.store, set, keepRefs(formValue(form, "keep_completion_images")), form.File["completion_images"])
	if err != nil {
		return err
	}
	submission := set.BuildSubmission()
	input.KeepCompletionImages = submission.Keep
	input.NewCompletionImages = newImages

	ticket, err := h.tickets.UpdateStatus(c.Context(), principal.Actor(), ticketID, input)
	if err != nil {
		discardStaged(h.store, newImages)
		return err
	}
	if input.NewStatus == domain.TicketStatusCompleted {
		removeDroppedFiles(h.store, dropped)
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Reopen POST /tickets/:id/reopen.
func (h *StaffTicketsHandler) Reopen(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}

	var req dto.ReopenRequest
	_ = c.BodyParser(&req)

	ticket, err := h.tickets.ReopenTicket(c.Context(), principal.Actor(), ticketID, strings.TrimSpace(req.Note))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}
