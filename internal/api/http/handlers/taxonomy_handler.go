package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/support-hub/helpdesk/internal/api/dto"
	"github.com/support-hub/helpdesk/internal/domain"
	"github.com/support-hub/helpdesk/internal/service"
	apperrors "github.com/support-hub/helpdesk/pkg/errorutil"
)

// TaxonomyHandler administers teams and categories.
type TaxonomyHandler struct {
	taxonomy *service.TaxonomyService
}

// NewTaxonomyHandler constructs handler.
func NewTaxonomyHandler(taxonomy *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomy: taxonomy}
}

// CreateTeam POST /staff/teams.
func (h *TaxonomyHandler) CreateTeam(c *fiber.Ctx) error {
	var req dto.NameRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	team, err := h.taxonomy.CreateTeam(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": teamResponse(team)})
}

// ListTeams GET /staff/teams.
func (h *TaxonomyHandler) ListTeams(c *fiber.Ctx) error {
	teams, err := h.taxonomy.ListTeams(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, teamResponse(&teams[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteTeam DELETE /staff/teams/:id.
func (h *TaxonomyHandler) DeleteTeam(c *fiber.Ctx) error {
	if err := h.taxonomy.DeleteTeam(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateCategory POST /staff/categories.
func (h *TaxonomyHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.NameRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.taxonomy.CreateCategory(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": categoryResponse(category)})
}

// ListCategories GET /staff/categories.
func (h *TaxonomyHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.taxonomy.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, categoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteCategory DELETE /staff/categories/:id.
func (h *TaxonomyHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.taxonomy.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func teamResponse(team *domain.Team) dto.TeamResponse {
	return dto.TeamResponse{ID: team.ID, Name: team.Name}
}

func categoryResponse(category *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: category.ID, Name: category.Name}
}
