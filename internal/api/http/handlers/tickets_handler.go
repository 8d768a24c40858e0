package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campusworks/repair-service/internal/api/dto"
	"github.com/campusworks/repair-service/internal/attachments"
	"github.com/campusworks/repair-service/internal/auth"
	"github.com/campusworks/repair-service/internal/domain"
	"github.com/campusworks/repair-service/internal/location"
	"github.com/campusworks/repair-service/internal/service"
	"github.com/campusworks/repair-service/internal/storage"
	"github.com/campusworks/repair-service/internal/ticketview"
	apperrors "github.com/campusworks/repair-service/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints shared by all roles.
type TicketsHandler struct {
	tickets   *service.TicketService
	directory *service.DirectoryService
	composer  *ticketview.Composer
	store     *storage.ImageStore
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, directory *service.DirectoryService, composer *ticketview.Composer, store *storage.ImageStore) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, directory: directory, composer: composer, store: store}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	input := service.CreateTicketInput{}
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		parsed, images, err := h.parseMultipartCreate(c)
		if err != nil {
			return err
		}
		input = parsed
		input.Images = images
	} else {
		var req dto.CreateTicketRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		input = service.CreateTicketInput{
			Title:       req.Title,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			Priority:    req.Priority,
			Location:    req.Location.ToLocation(),
		}
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), principal.Actor(), input)
	if err != nil {
		discardStaged(h.store, input.Images)
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseTicketQuery(c)
	tickets, err := h.tickets.ListTickets(c.Context(), principal.Actor(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}

	ticket, history, err := h.tickets.GetTicket(c.Context(), principal.Actor(), ticketID)
	if err != nil {
		return err
	}
	directory, err := h.directory.BuildingNames(c.Context())
	if err != nil {
		return err
	}
	caps := h.composer.Compose(ticket, principal.Actor(), directory)
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, history, caps)})
}

// UpdateContent PUT /tickets/:id. Multipart: content fields, images[] (new
// files) and keep_images (JSON array of {id} refs).
func (h *TicketsHandler) UpdateContent(c *fiber.Ctx) error {
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

	set, err := h.tickets.SeedAttachmentSet(c.Context(), ticketID, domain.AttachmentKindRequest)
	if err != nil {
		return err
	}
	newImages, dropped, err := stageSession(h.store, set, keepRefs(formValue(form, "keep_images")), form.File["images"])
	if err != nil {
		return err
	}
	submission := set.BuildSubmission()

	input := service.ContentUpdateInput{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		CategoryID:  parseInt64(formValue(form, "category_id")),
		Priority:    domain.TicketPriority(formValue(form, "priority")),
		Location:    locationFromForm(form),
		KeepImages:  submission.Keep,
		NewImages:   newImages,
	}

	ticket, err := h.tickets.UpdateContent(c.Context(), principal.Actor(), ticketID, input)
	if err != nil {
		discardStaged(h.store, newImages)
		return err
	}
	removeDroppedFiles(h.store, dropped)
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// History GET /tickets/:id/history. Readable by any stakeholder, same as the
// ticket detail.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}

	history, err := h.tickets.History(c.Context(), principal.Actor(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(history)})
}

// stageSession replays a client edit session against the attachment set:
// mark removals of persisted images absent from the keep list, then validate
// and store each fresh upload. Rejected files abort the submission as a
// whole so the client can fix the batch; the rejection details name the
// offending file. Returns the staged uploads and the persisted attachments
// the session dropped, so callers can clean disk state once the service call
// settles: staged files are discarded on failure, dropped files after the
// reconcile commits.
func stageSession(store *storage.ImageStore, set *attachments.Set, keep []int64, files []*multipart.FileHeader) ([]service.NewImage, []domain.Attachment, error) {
	keepSet := make(map[int64]struct{}, len(keep))
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}
	dropped := []domain.Attachment{}
	for _, att := range set.Current() {
		if _, kept := keepSet[att.ID]; !kept {
			set.RemoveCurrent(att.ID)
			dropped = append(dropped, att)
		}
	}

	for _, header := range files {
		file := attachments.File{
			FileName:  header.Filename,
			MimeType:  header.Header.Get("Content-Type"),
			SizeBytes: header.Size,
		}
		if err := set.AddNew(file); err != nil {
			return nil, nil, err
		}
	}

	newImages := make([]service.NewImage, 0, len(files))
	for i, staged := range set.PendingNew() {
		path, err := store.Save(files[i])
		if err != nil {
			discardStaged(store, newImages)
			return nil, nil, apperrors.NewInternalError(err)
		}
		newImages = append(newImages, service.NewImage{
			FilePath:  path,
			FileName:  staged.FileName,
			MimeType:  staged.MimeType,
			SizeBytes: staged.SizeBytes,
		})
	}
	return newImages, dropped, nil
}

// discardStaged deletes uploads saved for a submission that did not commit.
func discardStaged(store *storage.ImageStore, images []service.NewImage) {
	for _, img := range images {
		_ = store.Remove(img.FilePath)
	}
}

// removeDroppedFiles deletes the disk files of attachments the committed
// reconcile removed from the collection.
func removeDroppedFiles(store *storage.ImageStore, dropped []domain.Attachment) {
	for _, att := range dropped {
		_ = store.Remove(att.FilePath)
	}
}

func (h *TicketsHandler) parseMultipartCreate(c *fiber.Ctx) (service.CreateTicketInput, []service.NewImage, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return service.CreateTicketInput{}, nil, apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.CreateTicketInput{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		CategoryID:  parseInt64(formValue(form, "category_id")),
		Priority:    domain.TicketPriority(formValue(form, "priority")),
		Location:    locationFromForm(form),
	}
	set := attachments.NewSet(domain.AttachmentKindRequest, nil)
	images, _, err := stageSession(h.store, set, nil, form.File["images"])
	if err != nil {
		return service.CreateTicketInput{}, nil, err
	}
	return input, images, nil
}

func parseTicketID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", nil)
	}
	return id, nil
}

func parseTicketQuery(c *fiber.Ctx) service.TicketFilter {
	filter := service.TicketFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseInt64(val string) int64 {
	parsed, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func locationFromForm(form *multipart.Form) location.Location {
	return dto.LocationRequest{
		Kind:     formValue(form, "location_kind"),
		Building: formValue(form, "location_building"),
		Floor:    formValue(form, "location_floor"),
		Room:     formValue(form, "location_room"),
		Text:     formValue(form, "location_text"),
	}.ToLocation()
}

func keepRefs(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var refs []dto.KeepImageRef
	if err := json.Unmarshal([]byte(raw), &refs); err != nil {
		return nil
	}
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:          ticket.ID,
		Title:       ticket.Title,
		CategoryID:  ticket.CategoryID,
		Location:    ticket.Location,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		AssignedTo:  ticket.AssignedTo,
		RequesterID: ticket.RequesterID,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket, history []domain.StatusHistory, caps ticketview.Capabilities) dto.TicketDetailResponse {
	return dto.TicketDetailResponse{
		TicketSummary:     ticketSummary(ticket),
		Description:       ticket.Description,
		CompletionDetails: ticket.CompletionDetails,
		Images:            attachmentResponses(ticket.Images),
		CompletionImages:  attachmentResponses(ticket.CompletionImages),
		StatusHistory:     historyResponses(history),
		Capabilities:      dto.FromCapabilities(caps),
	}
}

func attachmentResponses(items []domain.Attachment) []dto.AttachmentResponse {
	resp := make([]dto.AttachmentResponse, 0, len(items))
	for _, att := range items {
		resp = append(resp, dto.AttachmentResponse{
			ID:        att.ID,
			FilePath:  att.FilePath,
			FileName:  att.FileName,
			MimeType:  att.MimeType,
			SizeBytes: att.SizeBytes,
		})
	}
	return resp
}

func historyResponses(entries []domain.StatusHistory) []dto.StatusHistoryResponse {
	resp := make([]dto.StatusHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.StatusHistoryResponse{
			ID:        entry.ID,
			OldStatus: entry.OldStatus,
			NewStatus: entry.NewStatus,
			ActorID:   entry.ActorID,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt,
		})
	}
	return resp
}
