package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/support-hub/helpdesk/internal/domain"
	"github.com/support-hub/helpdesk/internal/repository"
	"github.com/support-hub/helpdesk/internal/validation"
	apperrors "github.com/support-hub/helpdesk/pkg/errorutil"
)

// TaxonomyService administers teams and categories. Deleting either
// clears the references on tickets (and users, for teams) through the
// schema's SET NULL actions.
type TaxonomyService struct {
	teams      repository.TeamRepository
	categories repository.CategoryRepository
}

// NewTaxonomyService constructs the service.
func NewTaxonomyService(teams repository.TeamRepository, categories repository.CategoryRepository) *TaxonomyService {
	return &TaxonomyService{teams: teams, categories: categories}
}

// CreateTeam validates the name and persists a new team.
func (s *TaxonomyService) CreateTeam(ctx context.Context, name string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	if err := validation.Name("name", name); err != nil {
		return nil, err
	}
	if _, err := s.teams.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewConflict("team name already exists", map[string]any{"name": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	team := &domain.Team{Name: name}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// ListTeams returns all teams.
func (s *TaxonomyService) ListTeams(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// DeleteTeam removes the team; referencing tickets and users end up
// with a null team.
func (s *TaxonomyService) DeleteTeam(ctx context.Context, id string) error {
	if err := s.teams.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("team", map[string]any{"team_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// CreateCategory validates the name and persists a new category.
func (s *TaxonomyService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if err := validation.Name("name", name); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewConflict("category name already exists", map[string]any{"name": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	category := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// DeleteCategory removes the category; referencing tickets end up with
// a null category.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
