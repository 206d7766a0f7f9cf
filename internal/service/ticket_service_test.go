package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/support-hub/helpdesk/internal/domain"
	"github.com/support-hub/helpdesk/internal/events"
	"github.com/support-hub/helpdesk/internal/repository"
	"github.com/support-hub/helpdesk/internal/validation"
	apperrors "github.com/support-hub/helpdesk/pkg/errorutil"
)

var testStart = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func validCreateInput() TicketCreateInput {
	return TicketCreateInput{
		Title:       "Printer out of toner",
		Description: "The office printer on the second floor ran out of toner this morning.",
	}
}

func assertValidationRule(t *testing.T, err error, rule validation.Rule) {
	t.Helper()
	var vErr *validation.Error
	require.True(t, errors.As(err, &vErr), "expected validation error, got %v", err)
	assert.Equal(t, rule, vErr.Rule)
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func newTestService(t *testing.T, deps TicketDependencies) *TicketService {
	t.Helper()
	if deps.Now == nil {
		deps.Now = newFixedClock(testStart).Now
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = &recordingDispatcher{}
	}
	if deps.Cache == nil {
		deps.Cache = newFakeCache()
	}
	if deps.Blobs == nil {
		deps.Blobs = newFakeBlobStore()
	}
	return NewTicketService(deps)
}

func TestCreateTicketDefaults(t *testing.T) {
	var created *domain.Ticket
	repo := &fakeTicketRepo{
		CreateFn: func(_ context.Context, ticket *domain.Ticket) error {
			ticket.ID = "t-1"
			created = ticket
			return nil
		},
	}
	dispatcher := &recordingDispatcher{}
	svc := newTestService(t, TicketDependencies{TicketRepo: repo, Dispatcher: dispatcher})

	ticket, err := svc.CreateTicket(context.Background(), "u-1", validCreateInput())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "u-1", ticket.AuthorID)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketTypeRequest, ticket.Type)
	assert.Equal(t, domain.TicketPriorityLow, ticket.Priority)
	assert.Equal(t, ticket.CreatedOn, ticket.UpdatedOn)
	assert.Equal(t, testStart, ticket.CreatedOn)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventTicketCreated, dispatcher.published[0].Type)
	assert.Equal(t, "t-1", dispatcher.published[0].TicketID)
}

func TestCreateTicketValidationStopsBeforePersistence(t *testing.T) {
	repo := &fakeTicketRepo{
		CreateFn: func(_ context.Context, _ *domain.Ticket) error {
			t.Fatal("create must not be called for invalid input")
			return nil
		},
	}
	svc := newTestService(t, TicketDependencies{TicketRepo: repo})

	t.Run("title too short", func(t *testing.T) {
		input := validCreateInput()
		input.Title = "short"
		_, err := svc.CreateTicket(context.Background(), "u-1", input)
		assertValidationRule(t, err, validation.RuleTitleLengthOutOfRange)
	})

	t.Run("title too long", func(t *testing.T) {
		input := validCreateInput()
		input.Title = strings.Repeat("a", 51)
		_, err := svc.CreateTicket(context.Background(), "u-1", input)
		assertValidationRule(t, err, validation.RuleTitleLengthOutOfRange)
	})

	t.Run("description only markup", func(t *testing.T) {
		input := validCreateInput()
		input.Description = "<p><br/></p>"
		_, err := svc.CreateTicket(context.Background(), "u-1", input)
		assertValidationRule(t, err, validation.RuleEmptyOrTooShort)
	})

	t.Run("tags excluded from description length", func(t *testing.T) {
		input := validCreateInput()
		input.Description = "<b>" + strings.Repeat("x", 10) + "</b>"
		_, err := svc.CreateTicket(context.Background(), "u-1", input)
		assertValidationRule(t, err, validation.RuleEmptyOrTooShort)
	})

	t.Run("unknown type", func(t *testing.T) {
		input := validCreateInput()
		input.Type = "outage"
		_, err := svc.CreateTicket(context.Background(), "u-1", input)
		assertErrorCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("unknown priority", func(t *testing.T) {
		input := validCreateInput()
		input.Priority = "urgent"
		_, err := svc.CreateTicket(context.Background(), "u-1", input)
		assertErrorCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("oversized image", func(t *testing.T) {
		input := validCreateInput()
		input.Image = &ImageUpload{FileName: "big.png", Size: validation.ImageMaxBytes + 1}
		_, err := svc.CreateTicket(context.Background(), "u-1", input)
		assertValidationRule(t, err, validation.RuleImageTooLarge)
	})
}

func TestCreateTicketUnknownCategory(t *testing.T) {
	repo := &fakeTicketRepo{
		CreateFn: func(_ context.Context, _ *domain.Ticket) error {
			t.Fatal("create must not be called")
			return nil
		},
	}
	categories := &fakeCategoryRepo{
		GetByIDFn: func(_ context.Context, _ string) (*domain.Category, error) {
			return nil, pgx.ErrNoRows
		},
	}
	svc := newTestService(t, TicketDependencies{TicketRepo: repo, CategoryRepo: categories})

	input := validCreateInput()
	missing := "c-missing"
	input.CategoryID = &missing
	_, err := svc.CreateTicket(context.Background(), "u-1", input)
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestCreateTicketStoresImage(t *testing.T) {
	blobs := newFakeBlobStore()
	repo := &fakeTicketRepo{
		CreateFn: func(_ context.Context, ticket *domain.Ticket) error {
			ticket.ID = "t-1"
			return nil
		},
	}
	svc := newTestService(t, TicketDependencies{TicketRepo: repo, Blobs: blobs})

	input := validCreateInput()
	input.Image = &ImageUpload{FileName: "shot.png", ContentType: "image/png", Size: 4, Data: []byte("data")}

	ticket, err := svc.CreateTicket(context.Background(), "u-1", input)
	require.NoError(t, err)
	require.NotNil(t, ticket.ImageURL)
	assert.Contains(t, *ticket.ImageURL, "http://blobs.test/")
	assert.Len(t, blobs.stored, 1)
}

func TestCreateTicketRemovesBlobWhenPersistenceFails(t *testing.T) {
	blobs := newFakeBlobStore()
	repo := &fakeTicketRepo{
		CreateFn: func(_ context.Context, _ *domain.Ticket) error {
			return errors.New("insert failed")
		},
	}
	svc := newTestService(t, TicketDependencies{TicketRepo: repo, Blobs: blobs})

	input := validCreateInput()
	input.Image = &ImageUpload{FileName: "shot.jpg", ContentType: "image/jpeg", Size: 4, Data: []byte("data")}

	_, err := svc.CreateTicket(context.Background(), "u-1", input)
	require.Error(t, err)
	assert.Empty(t, blobs.stored)
	assert.Len(t, blobs.removed, 1)
}

func TestUpdateStatusPatchesOnlyStatus(t *testing.T) {
	existing := &domain.Ticket{ID: "t-1", Status: domain.TicketStatusOpen}
	var gotPatch repository.TicketPatch
	var gotUpdatedOn time.Time
	repo := &fakeTicketRepo{
		GetByIDFn: func(_ context.Context, _ string) (*domain.Ticket, error) {
			return existing, nil
		},
		UpdatePatchFn: func(_ context.Context, _ string, patch repository.TicketPatch, updatedOn time.Time) (*domain.Ticket, error) {
			gotPatch = patch
			gotUpdatedOn = updatedOn
			updated := *existing
			updated.Status = *patch.Status
			updated.UpdatedOn = updatedOn
			return &updated, nil
		},
	}
	cache := newFakeCache()
	dispatcher := &recordingDispatcher{}
	svc := newTestService(t, TicketDependencies{TicketRepo: repo, Cache: cache, Dispatcher: dispatcher})

	ticket, err := svc.UpdateStatus(context.Background(), "staff-1", "t-1", domain.TicketStatusClosed)
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
	require.NotNil(t, gotPatch.Status)
	assert.Equal(t, domain.TicketStatusClosed, *gotPatch.Status)
	assert.Nil(t, gotPatch.Priority)
	assert.False(t, gotPatch.SetCategory)
	assert.False(t, gotPatch.SetTeam)
	assert.False(t, gotPatch.SetTechnician)
	assert.False(t, gotUpdatedOn.IsZero())
	assert.Equal(t, []string{"t-1"}, cache.invalidated)

	require.Len(t, dispatcher.published, 1)
	payload, ok := dispatcher.published[0].Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusOpen, payload.OldStatus)
	assert.Equal(t, domain.TicketStatusClosed, payload.NewStatus)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc := newTestService(t, TicketDependencies{TicketRepo: &fakeTicketRepo{}})

	_, err := svc.UpdateStatus(context.Background(), "staff-1", "t-1", domain.TicketStatus("resolved"))
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestUpdateStatusAllowsReopen(t *testing.T) {
	existing := &domain.Ticket{ID: "t-1", Status: domain.TicketStatusClosed}
	repo := &fakeTicketRepo{
		GetByIDFn: func(_ context.Context, _ string) (*domain.Ticket, error) {
			return existing, nil
		},
		UpdatePatchFn: func(_ context.Context, _ string, patch repository.TicketPatch, updatedOn time.Time) (*domain.Ticket, error) {
			updated := *existing
			updated.Status = *patch.Status
			updated.UpdatedOn = updatedOn
			return &updated, nil
		},
	}
	svc := newTestService(t, TicketDependencies{TicketRepo: repo})

	ticket, err := svc.UpdateStatus(context.Background(), "staff-1", "t-1", domain.TicketStatusOpen)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
}

func TestUpdateStatusMissingTicket(t *testing.T) {
	repo := &fakeTicketRepo{
		GetByIDFn: func(_ context.Context, _ string) (*domain.Ticket, error) {
			return nil, pgx.ErrNoRows
		},
	}
	svc := newTestService(t, TicketDependencies{TicketRepo: repo})

	_, err := svc.UpdateStatus(context.Background(), "staff-1", "gone", domain.TicketStatusClosed)
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestAssignTeamClearsWithNil(t *testing.T) {
	var gotPatch repository.TicketPatch
	repo := &fakeTicketRepo{
		UpdatePatchFn: func(_ context.Context, _ string, patch repository.TicketPatch, updatedOn time.Time) (*domain.Ticket, error) {
			gotPatch = patch
			return &domain.Ticket{ID: "t-1", UpdatedOn: updatedOn}, nil
		},
	}
	svc := newTestService(t, TicketDependencies{TicketRepo: repo})

	_, err := svc.AssignTeam(context.Background(), "staff-1", "t-1", nil)
	require.NoError(t, err)
	assert.True(t, gotPatch.SetTeam)
	assert.Nil(t, gotPatch.TeamID)
}

func TestAssignTeamUnknownTeam(t *testing.T) {
	teams := &fakeTeamRepo{
		GetByIDFn: func(_ context.Context, _ string) (*domain.Team, error) {
			return nil, pgx.ErrNoRows
		},
	}
	svc := newTestService(t, TicketDependencies{TicketRepo: &fakeTicketRepo{}, TeamRepo: teams})

	missing := "team-missing"
	_, err := svc.AssignTeam(context.Background(), "staff-1", "t-1", &missing)
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestAssignTechnicianRequiresStaffUser(t *testing.T) {
	users := &fakeUserRepo{
		GetByIDFn: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, IsStaff: false}, nil
		},
	}
	svc := newTestService(t, TicketDependencies{TicketRepo: &fakeTicketRepo{}, UserRepo: users})

	technicianID := "u-enduser"
	_, err := svc.AssignTechnician(context.Background(), "staff-1", "t-1", &technicianID)
	assertErrorCode(t, err, "CONFLICT")
}

func TestAssignTechnicianStaffUser(t *testing.T) {
	users := &fakeUserRepo{
		GetByIDFn: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, IsStaff: true}, nil
		},
	}
	var gotPatch repository.TicketPatch
	repo := &fakeTicketRepo{
		UpdatePatchFn: func(_ context.Context, _ string, patch repository.TicketPatch, updatedOn time.Time) (*domain.Ticket, error) {
			gotPatch = patch
			return &domain.Ticket{ID: "t-1", UpdatedOn: updatedOn}, nil
		},
	}
	svc := newTestService(t, TicketDependencies{TicketRepo: repo, UserRepo: users})

	technicianID := "u-staff"
	_, err := svc.AssignTechnician(context.Background(), "staff-1", "t-1", &technicianID)
	require.NoError(t, err)
	assert.True(t, gotPatch.SetTechnician)
	require.NotNil(t, gotPatch.TechnicianID)
	assert.Equal(t, technicianID, *gotPatch.TechnicianID)
}

func TestTouchAdvancesTimestampOnly(t *testing.T) {
	clock := newFixedClock(testStart)
	var gotPatch repository.TicketPatch
	var gotUpdatedOn time.Time
	repo := &fakeTicketRepo{
		UpdatePatchFn: func(_ context.Context, _ string, patch repository.TicketPatch, updatedOn time.Time) (*domain.Ticket, error) {
			gotPatch = patch
			gotUpdatedOn = updatedOn
			return &domain.Ticket{ID: "t-1", UpdatedOn: updatedOn}, nil
		},
	}
	cache := newFakeCache()
	svc := newTestService(t, TicketDependencies{TicketRepo: repo, Cache: cache, Now: clock.Now})

	ticket, err := svc.Touch(context.Background(), "t-1")
	require.NoError(t, err)

	assert.Equal(t, repository.TicketPatch{}, gotPatch)
	assert.Equal(t, testStart, gotUpdatedOn)
	assert.Equal(t, testStart, ticket.UpdatedOn)
	assert.Equal(t, []string{"t-1"}, cache.invalidated)

	// Touching again only moves the timestamp forward.
	ticket, err = svc.Touch(context.Background(), "t-1")
	require.NoError(t, err)
	assert.True(t, ticket.UpdatedOn.After(testStart))
}

func TestAttachImageRejectsBadExtensionBeforeStore(t *testing.T) {
	blobs := newFakeBlobStore()
	svc := newTestService(t, TicketDependencies{TicketRepo: &fakeTicketRepo{}, Blobs: blobs})

	_, err := svc.AttachImage(context.Background(), "t-1", ImageUpload{FileName: "notes.txt", Size: 10})
	assertValidationRule(t, err, validation.RuleInvalidImageType)
	assert.Empty(t, blobs.stored)
}

func TestAddCommentTouchesTicketAndPublishes(t *testing.T) {
	clock := newFixedClock(testStart)
	existing := &domain.Ticket{ID: "t-1", Status: domain.TicketStatusOpen}
	var createdComment *domain.Comment
	comments := &fakeCommentRepo{
		CreateFn: func(_ context.Context, comment *domain.Comment) error {
			comment.ID = "c-1"
			createdComment = comment
			return nil
		},
	}
	touched := false
	repo := &fakeTicketRepo{
		GetByIDFn: func(_ context.Context, _ string) (*domain.Ticket, error) {
			return existing, nil
		},
		UpdatePatchFn: func(_ context.Context, _ string, patch repository.TicketPatch, updatedOn time.Time) (*domain.Ticket, error) {
			touched = true
			assert.Equal(t, repository.TicketPatch{}, patch)
			updated := *existing
			updated.UpdatedOn = updatedOn
			return &updated, nil
		},
	}
	dispatcher := &recordingDispatcher{}
	svc := newTestService(t, TicketDependencies{
		TicketRepo:  repo,
		CommentRepo: comments,
		Dispatcher:  dispatcher,
		Now:         clock.Now,
	})

	comment, err := svc.AddComment(context.Background(), "t-1", "u-1", "<b>Rebooted</b> the printer, issue persists")
	require.NoError(t, err)

	require.NotNil(t, createdComment)
	assert.Equal(t, "c-1", comment.ID)
	assert.Equal(t, "t-1", comment.TicketID)
	require.NotNil(t, comment.AuthorID)
	assert.Equal(t, "u-1", *comment.AuthorID)
	assert.True(t, touched)

	require.Len(t, dispatcher.published, 1)
	payload, ok := dispatcher.published[0].Payload.(events.TicketCommentAddedPayload)
	require.True(t, ok)
	assert.Equal(t, "c-1", payload.CommentID)
	assert.Equal(t, "Rebooted the printer, issue persists", payload.BodyPreview)
}

func TestAddCommentRejectsBlankBody(t *testing.T) {
	svc := newTestService(t, TicketDependencies{TicketRepo: &fakeTicketRepo{}, CommentRepo: &fakeCommentRepo{}})

	_, err := svc.AddComment(context.Background(), "t-1", "u-1", "   ")
	assertValidationRule(t, err, validation.RuleEmptyOrTooShort)
}

func TestBodyPreviewTruncates(t *testing.T) {
	long := strings.Repeat("a", 200)
	preview := bodyPreview(long, 120)
	assert.Len(t, preview, 120)
	assert.True(t, strings.HasSuffix(preview, "..."))

	assert.Equal(t, "short", bodyPreview("  short  ", 120))
}

func TestBodyPreviewKeepsMultibyteRunesIntact(t *testing.T) {
	long := strings.Repeat("é", 200)
	preview := bodyPreview(long, 120)

	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, 120, utf8.RuneCountInString(preview))
	assert.True(t, strings.HasSuffix(preview, "..."))

	// Short multibyte bodies pass through untouched.
	assert.Equal(t, "héllo", bodyPreview("héllo", 120))
}
