package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/support-hub/helpdesk/internal/api/dto"
	"github.com/support-hub/helpdesk/internal/auth"
	"github.com/support-hub/helpdesk/internal/service"
	apperrors "github.com/support-hub/helpdesk/pkg/errorutil"
)

// UsersHandler serves account endpoints.
type UsersHandler struct {
	authSvc *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authSvc *service.AuthService) *UsersHandler {
	return &UsersHandler{authSvc: authSvc}
}

// Register POST /auth/users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email and password are required", nil)
	}

	user, token, exp, err := h.authSvc.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"user": userResponse(user),
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	}})
}

// Login POST /auth/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, exp, err := h.authSvc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"user": userResponse(user),
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	}})
}

// Me GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	return c.JSON(fiber.Map{"data": userResponse(principal.User)})
}

// SetStaff PATCH /staff/users/:id/staff.
func (h *UsersHandler) SetStaff(c *fiber.Ctx) error {
	var req dto.SetStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.authSvc.SetStaff(c.UserContext(), c.Params("id"), req.IsStaff)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// AssignTeam PATCH /staff/users/:id/team. A null team_id clears
// membership.
func (h *UsersHandler) AssignTeam(c *fiber.Ctx) error {
	var req dto.AssignUserTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.authSvc.AssignUserTeam(c.UserContext(), c.Params("id"), req.TeamID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}
