package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/support-hub/helpdesk/internal/domain"
	"github.com/support-hub/helpdesk/internal/events"
	"github.com/support-hub/helpdesk/internal/repository"
	"github.com/support-hub/helpdesk/internal/sanitize"
	"github.com/support-hub/helpdesk/internal/storage"
	"github.com/support-hub/helpdesk/internal/validation"
	apperrors "github.com/support-hub/helpdesk/pkg/errorutil"
)

// Clock supplies the current UTC instant. Injected so updated_on
// behavior is deterministic under test.
type Clock func() time.Time

// UTCNow is the production clock.
func UTCNow() time.Time {
	return time.Now().UTC()
}

// TicketCache is the read-cache collaborator; mutations only ever
// invalidate through it.
type TicketCache interface {
	Get(ctx context.Context, id string) (*domain.Ticket, bool)
	Set(ctx context.Context, ticket *domain.Ticket)
	Invalidate(ctx context.Context, id string)
}

// TicketService coordinates the ticket lifecycle: creation, status
// transitions, triage assignments and the comment thread. Every
// mutation validates before persisting and persists only the fields it
// changed plus updated_on.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	teams      repository.TeamRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	blobs      storage.BlobStore
	cache      TicketCache
	dispatcher events.Dispatcher
	now        Clock
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CommentRepo  repository.CommentRepository
	TeamRepo     repository.TeamRepository
	CategoryRepo repository.CategoryRepository
	UserRepo     repository.UserRepository
	Blobs        storage.BlobStore
	Cache        TicketCache
	Dispatcher   events.Dispatcher
	Now          Clock
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Type        string
	Priority    string
	CategoryID  *string
	Image       *ImageUpload
}

// ImageUpload carries an image payload plus the metadata checked before
// any byte reaches blob storage.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = UTCNow
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		teams:      deps.TeamRepo,
		categories: deps.CategoryRepo,
		users:      deps.UserRepo,
		blobs:      deps.Blobs,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// CreateTicket validates and persists a new ticket for the author.
// Status defaults to open and priority to low; created_on and
// updated_on are stamped with the same instant. Nothing is stored
// unless every field invariant holds.
func (s *TicketService) CreateTicket(ctx context.Context, authorID string, input TicketCreateInput) (*domain.Ticket, error) {
	if err := validation.TitleLength(input.Title); err != nil {
		return nil, err
	}
	if err := validation.NonEmptyText("description", sanitize.StripMarkup(input.Description), validation.DescriptionMinLength); err != nil {
		return nil, err
	}
	ticketType, err := domain.ParseTicketType(input.Type)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid ticket type", map[string]any{"type": input.Type})
	}
	priority, err := domain.ParseTicketPriority(input.Priority)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid ticket priority", map[string]any{"priority": input.Priority})
	}
	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("category", map[string]any{"category_id": *input.CategoryID})
			}
			return nil, apperrors.MapError(err)
		}
	}
	if input.Image != nil {
		if err := validation.Image(input.Image.FileName, input.Image.ContentType, input.Image.Size); err != nil {
			return nil, err
		}
	}

	var imageURL *string
	var imageKey string
	if input.Image != nil {
		key, url, err := s.storeImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		imageKey = key
		imageURL = &url
	}

	now := s.now()
	ticket := &domain.Ticket{
		AuthorID:    authorID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		ImageURL:    imageURL,
		Status:      domain.TicketStatusOpen,
		Type:        ticketType,
		Priority:    priority,
		CategoryID:  input.CategoryID,
		CreatedOn:   now,
		UpdatedOn:   now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		// Keep blob storage consistent with the absent row.
		if imageKey != "" {
			_ = s.blobs.Remove(ctx, imageKey)
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  &ticket.AuthorID,
		Payload: events.TicketCreatedPayload{
			AuthorID:   ticket.AuthorID,
			Title:      ticket.Title,
			Type:       ticket.Type,
			Priority:   ticket.Priority,
			CategoryID: ticket.CategoryID,
		},
	})
	return ticket, nil
}

// UpdateStatus sets the ticket status. All four values are reachable
// from any other; there is no forward-only ordering. Only status and
// updated_on are written.
func (s *TicketService) UpdateStatus(ctx context.Context, actorID, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !newStatus.IsValid() {
		return nil, apperrors.NewValidationError("invalid ticket status", map[string]any{"status": string(newStatus)})
	}
	current, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldStatus := current.Status

	ticket, err := s.applyPatch(ctx, ticketID, repository.TicketPatch{Status: &newStatus})
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  &actorID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return ticket, nil
}

// UpdatePriority sets the triage priority; only priority and updated_on
// are written.
func (s *TicketService) UpdatePriority(ctx context.Context, ticketID string, newPriority domain.TicketPriority) (*domain.Ticket, error) {
	if !newPriority.IsValid() {
		return nil, apperrors.NewValidationError("invalid ticket priority", map[string]any{"priority": string(newPriority)})
	}
	return s.applyPatch(ctx, ticketID, repository.TicketPatch{Priority: &newPriority})
}

// AssignTeam sets or clears the assigned team.
func (s *TicketService) AssignTeam(ctx context.Context, actorID, ticketID string, teamID *string) (*domain.Ticket, error) {
	if teamID != nil {
		if _, err := s.teams.GetByID(ctx, *teamID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("team", map[string]any{"team_id": *teamID})
			}
			return nil, apperrors.MapError(err)
		}
	}
	ticket, err := s.applyPatch(ctx, ticketID, repository.TicketPatch{SetTeam: true, TeamID: teamID})
	if err != nil {
		return nil, err
	}
	s.publishAssignment(ctx, actorID, ticket.ID, events.TicketAssignedPayload{Field: "team", TeamID: teamID})
	return ticket, nil
}

// AssignTechnician sets or clears the assigned technician, who must be
// a staff user.
func (s *TicketService) AssignTechnician(ctx context.Context, actorID, ticketID string, technicianID *string) (*domain.Ticket, error) {
	if technicianID != nil {
		technician, err := s.users.GetByID(ctx, *technicianID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": *technicianID})
			}
			return nil, apperrors.MapError(err)
		}
		if !technician.IsStaff {
			return nil, apperrors.NewConflict("technician must be a staff user", map[string]any{"technician_id": *technicianID})
		}
	}
	ticket, err := s.applyPatch(ctx, ticketID, repository.TicketPatch{SetTechnician: true, TechnicianID: technicianID})
	if err != nil {
		return nil, err
	}
	s.publishAssignment(ctx, actorID, ticket.ID, events.TicketAssignedPayload{Field: "technician", TechnicianID: technicianID})
	return ticket, nil
}

// AssignCategory sets or clears the ticket category.
func (s *TicketService) AssignCategory(ctx context.Context, actorID, ticketID string, categoryID *string) (*domain.Ticket, error) {
	if categoryID != nil {
		if _, err := s.categories.GetByID(ctx, *categoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("category", map[string]any{"category_id": *categoryID})
			}
			return nil, apperrors.MapError(err)
		}
	}
	ticket, err := s.applyPatch(ctx, ticketID, repository.TicketPatch{SetCategory: true, CategoryID: categoryID})
	if err != nil {
		return nil, err
	}
	s.publishAssignment(ctx, actorID, ticket.ID, events.TicketAssignedPayload{Field: "category", CategoryID: categoryID})
	return ticket, nil
}

// Touch refreshes updated_on without changing any other field. Safe to
// reapply; each retry only advances the timestamp.
func (s *TicketService) Touch(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.applyPatch(ctx, ticketID, repository.TicketPatch{})
}

// AttachImage validates and stores an image for an existing ticket,
// then records its URL. Only image_url and updated_on are written.
func (s *TicketService) AttachImage(ctx context.Context, ticketID string, upload ImageUpload) (*domain.Ticket, error) {
	if err := validation.Image(upload.FileName, upload.ContentType, upload.Size); err != nil {
		return nil, err
	}
	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	key, url, err := s.storeImage(ctx, &upload)
	if err != nil {
		return nil, err
	}
	ticket, err := s.applyPatch(ctx, ticketID, repository.TicketPatch{ImageURL: &url})
	if err != nil {
		_ = s.blobs.Remove(ctx, key)
		return nil, err
	}
	return ticket, nil
}

// AddComment appends an immutable comment to the ticket thread and
// touches the ticket so activity ordering stays current.
func (s *TicketService) AddComment(ctx context.Context, ticketID string, authorID string, body string) (*domain.Comment, error) {
	if err := validation.NonEmptyText("body", body, 1); err != nil {
		return nil, err
	}
	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		TicketID:  ticketID,
		AuthorID:  &authorID,
		Body:      body,
		CreatedOn: s.now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	if _, err := s.Touch(ctx, ticketID); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticketID,
		ActorID:  &authorID,
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			AuthorID:    comment.AuthorID,
			BodyPreview: bodyPreview(sanitize.StripMarkup(comment.Body), 120),
		},
	})
	return comment, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// applyPatch persists the patch plus a fresh updated_on and drops the
// stale cache entry.
func (s *TicketService) applyPatch(ctx context.Context, ticketID string, patch repository.TicketPatch) (*domain.Ticket, error) {
	ticket, err := s.tickets.UpdatePatch(ctx, ticketID, patch, s.now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, ticketID)
	}
	return ticket, nil
}

func (s *TicketService) storeImage(ctx context.Context, upload *ImageUpload) (key, url string, err error) {
	key = uuid.NewString() + strings.ToLower(filepath.Ext(upload.FileName))
	url, err = s.blobs.Put(ctx, key, upload.Data)
	if err != nil {
		return "", "", apperrors.NewInternalError(err)
	}
	return key, url, nil
}

func (s *TicketService) publishAssignment(ctx context.Context, actorID, ticketID string, payload events.TicketAssignedPayload) {
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticketID,
		ActorID:  &actorID,
		Payload:  payload,
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// bodyPreview truncates on rune boundaries so previews of multibyte
// text stay valid UTF-8.
func bodyPreview(body string, max int) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= max {
		return string(runes)
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
