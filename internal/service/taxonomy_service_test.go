package service

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/support-hub/helpdesk/internal/domain"
	"github.com/support-hub/helpdesk/internal/validation"
)

type fakeTeamAdminRepo struct {
	fakeTeamRepo
	existing map[string]*domain.Team
	created  []*domain.Team
	deleted  []string
}

func (f *fakeTeamAdminRepo) Create(_ context.Context, team *domain.Team) error {
	team.ID = "team-new"
	f.created = append(f.created, team)
	return nil
}

func (f *fakeTeamAdminRepo) GetByName(_ context.Context, name string) (*domain.Team, error) {
	if team, ok := f.existing[name]; ok {
		return team, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTeamAdminRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.existing[id]; !ok {
		return pgx.ErrNoRows
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCategoryAdminRepo struct {
	fakeCategoryRepo
	existing map[string]*domain.Category
	created  []*domain.Category
}

func (f *fakeCategoryAdminRepo) Create(_ context.Context, category *domain.Category) error {
	category.ID = "cat-new"
	f.created = append(f.created, category)
	return nil
}

func (f *fakeCategoryAdminRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	if category, ok := f.existing[name]; ok {
		return category, nil
	}
	return nil, pgx.ErrNoRows
}

func TestCreateTeam(t *testing.T) {
	teams := &fakeTeamAdminRepo{existing: map[string]*domain.Team{}}
	svc := NewTaxonomyService(teams, &fakeCategoryAdminRepo{})

	team, err := svc.CreateTeam(context.Background(), "  Network Ops  ")
	require.NoError(t, err)
	assert.Equal(t, "team-new", team.ID)
	assert.Equal(t, "Network Ops", team.Name)
	require.Len(t, teams.created, 1)
}

func TestCreateTeamDuplicateName(t *testing.T) {
	teams := &fakeTeamAdminRepo{existing: map[string]*domain.Team{
		"Network Ops": {ID: "team-1", Name: "Network Ops"},
	}}
	svc := NewTaxonomyService(teams, &fakeCategoryAdminRepo{})

	_, err := svc.CreateTeam(context.Background(), "Network Ops")
	assertErrorCode(t, err, "CONFLICT")
	assert.Empty(t, teams.created)
}

func TestCreateTeamNameValidation(t *testing.T) {
	teams := &fakeTeamAdminRepo{existing: map[string]*domain.Team{}}
	svc := NewTaxonomyService(teams, &fakeCategoryAdminRepo{})

	_, err := svc.CreateTeam(context.Background(), "")
	assertValidationRule(t, err, validation.RuleEmptyOrTooShort)

	_, err = svc.CreateTeam(context.Background(), strings.Repeat("x", validation.NameMaxLength+1))
	assertValidationRule(t, err, validation.RuleNameLengthOutOfRange)
	assert.Empty(t, teams.created)
}

func TestDeleteTeamMissing(t *testing.T) {
	teams := &fakeTeamAdminRepo{existing: map[string]*domain.Team{}}
	svc := NewTaxonomyService(teams, &fakeCategoryAdminRepo{})

	err := svc.DeleteTeam(context.Background(), "team-gone")
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestCreateCategory(t *testing.T) {
	categories := &fakeCategoryAdminRepo{existing: map[string]*domain.Category{}}
	svc := NewTaxonomyService(&fakeTeamAdminRepo{existing: map[string]*domain.Team{}}, categories)

	category, err := svc.CreateCategory(context.Background(), "Hardware")
	require.NoError(t, err)
	assert.Equal(t, "cat-new", category.ID)
	assert.Equal(t, "Hardware", category.Name)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	categories := &fakeCategoryAdminRepo{existing: map[string]*domain.Category{
		"Hardware": {ID: "cat-1", Name: "Hardware"},
	}}
	svc := NewTaxonomyService(&fakeTeamAdminRepo{existing: map[string]*domain.Team{}}, categories)

	_, err := svc.CreateCategory(context.Background(), "Hardware")
	assertErrorCode(t, err, "CONFLICT")
	assert.Empty(t, categories.created)
}
