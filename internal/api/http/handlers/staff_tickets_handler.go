package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/support-hub/helpdesk/internal/api/dto"
	"github.com/support-hub/helpdesk/internal/auth"
	"github.com/support-hub/helpdesk/internal/domain"
	"github.com/support-hub/helpdesk/internal/service"
	apperrors "github.com/support-hub/helpdesk/pkg/errorutil"
)

// StaffTicketsHandler manages the triage endpoints reserved for staff
// users.
type StaffTicketsHandler struct {
	tickets *service.TicketService
	queries *service.QueryService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(tickets *service.TicketService, queries *service.QueryService) *StaffTicketsHandler {
	return &StaffTicketsHandler{tickets: tickets, queries: queries}
}

// ListTickets GET /staff/tickets with optional filters.
func (h *StaffTicketsHandler) ListTickets(c *fiber.Ctx) error {
	var query service.TicketQuery
	applyPagination(c, &query)
	if author := c.Query("author_id"); author != "" {
		query.AuthorID = &author
	}
	if category := c.Query("category_id"); category != "" {
		query.CategoryID = &category
	}
	if team := c.Query("team_id"); team != "" {
		query.TeamID = &team
	}
	if technician := c.Query("technician_id"); technician != "" {
		query.TechnicianID = &technician
	}
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

// GetTicket GET /staff/tickets/:id.
func (h *StaffTicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.queries.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// CreateTicket POST /staff/tickets raises a ticket on behalf of a
// requester.
func (h *StaffTicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.StaffCreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AuthorID == "" {
		return apperrors.NewValidationError("author_id required", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), req.AuthorID, service.TicketCreateInput{
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

// UpdateStatus PATCH /staff/tickets/:id/status.
func (h *StaffTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.UpdateStatus(c.UserContext(), principal.User.ID, c.Params("id"), domain.TicketStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdatePriority PATCH /staff/tickets/:id/priority.
func (h *StaffTicketsHandler) UpdatePriority(c *fiber.Ctx) error {
	var req dto.UpdatePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.UpdatePriority(c.UserContext(), c.Params("id"), domain.TicketPriority(req.Priority))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AssignTeam PATCH /staff/tickets/:id/team. A null id clears the
// assignment.
func (h *StaffTicketsHandler) AssignTeam(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.AssignTeam(c.UserContext(), principal.User.ID, c.Params("id"), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AssignTechnician PATCH /staff/tickets/:id/technician.
func (h *StaffTicketsHandler) AssignTechnician(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.AssignTechnician(c.UserContext(), principal.User.ID, c.Params("id"), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AssignCategory PATCH /staff/tickets/:id/category.
func (h *StaffTicketsHandler) AssignCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.AssignCategory(c.UserContext(), principal.User.ID, c.Params("id"), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// statusFilter parses the optional status query parameter.
func statusFilter(c *fiber.Ctx) (*domain.TicketStatus, error) {
	raw := c.Query("status")
	if raw == "" {
		return nil, nil
	}
	status, err := domain.ParseTicketStatus(raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid ticket status", map[string]any{"status": raw})
	}
	return &status, nil
}
