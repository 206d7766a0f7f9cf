package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/support-hub/helpdesk/internal/api/dto"
	"github.com/support-hub/helpdesk/internal/auth"
	"github.com/support-hub/helpdesk/internal/service"
	apperrors "github.com/support-hub/helpdesk/pkg/errorutil"
)

// TicketsHandler manages end-user ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	queries *service.QueryService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, queries *service.QueryService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, queries: queries}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), principal.User.ID, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UploadImage POST /tickets/:id/image (multipart field "image").
func (h *TicketsHandler) UploadImage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticketID := c.Params("id")
	if err := h.ensureCanAccess(c, principal, ticketID); err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return apperrors.NewValidationError("image file required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable image file", nil)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewValidationError("unreadable image file", nil)
	}

	ticket, err := h.tickets.AttachImage(c.UserContext(), ticketID, service.ImageUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Data:        data,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets returns the caller's own tickets, most
// recently updated first.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	query := service.TicketQuery{AuthorID: &principal.User.ID}
	applyPagination(c, &query)
	if status, err := statusFilter(c); err != nil {
		return err
	} else if status != nil {
		query.Status = status
	}

	tickets, err := h.queries.ListTickets(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.queries.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if !principal.IsStaff() && ticket.AuthorID != principal.User.ID {
		return apperrors.NewForbidden("access denied")
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticketID := c.Params("id")
	if err := h.ensureCanAccess(c, principal, ticketID); err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.tickets.AddComment(c.UserContext(), ticketID, principal.User.ID, req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// ListComments GET /tickets/:id/comments returns the thread in
// chronological order.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticketID := c.Params("id")
	if err := h.ensureCanAccess(c, principal, ticketID); err != nil {
		return err
	}
	comments, err := h.queries.ListComments(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": commentResponses(comments)})
}

// ensureCanAccess confirms the ticket exists and the caller owns it or
// is staff.
func (h *TicketsHandler) ensureCanAccess(c *fiber.Ctx, principal *auth.Principal, ticketID string) error {
	ticket, err := h.queries.GetTicket(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	if !principal.IsStaff() && ticket.AuthorID != principal.User.ID {
		return apperrors.NewForbidden("access denied")
	}
	return nil
}

func applyPagination(c *fiber.Ctx, query *service.TicketQuery) {
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		query.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		query.Offset = offset
	}
}
