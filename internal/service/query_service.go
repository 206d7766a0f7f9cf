package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/support-hub/helpdesk/internal/domain"
	"github.com/support-hub/helpdesk/internal/repository"
	apperrors "github.com/support-hub/helpdesk/pkg/errorutil"
)

// TicketQuery describes listing filters; supplied predicates combine
// with AND.
type TicketQuery struct {
	AuthorID     *string
	CategoryID   *string
	TeamID       *string
	TechnicianID *string
	Status       *domain.TicketStatus
	Limit        int
	Offset       int
}

// QueryService serves ticket and comment reads. Single-ticket lookups
// go through the read cache.
type QueryService struct {
	tickets  repository.TicketRepository
	comments repository.CommentRepository
	cache    TicketCache
}

// NewQueryService constructs the service.
func NewQueryService(tickets repository.TicketRepository, comments repository.CommentRepository, cache TicketCache) *QueryService {
	return &QueryService{tickets: tickets, comments: comments, cache: cache}
}

// ListTickets returns tickets matching the query, most recently updated
// first with id as the tiebreaker.
func (s *QueryService) ListTickets(ctx context.Context, query TicketQuery) ([]domain.Ticket, error) {
	if query.Status != nil && !query.Status.IsValid() {
		return nil, apperrors.NewValidationError("invalid ticket status", map[string]any{"status": string(*query.Status)})
	}
	filter := repository.TicketFilter{
		AuthorID:     query.AuthorID,
		CategoryID:   query.CategoryID,
		TeamID:       query.TeamID,
		TechnicianID: query.TechnicianID,
		Status:       query.Status,
		Limit:        query.Limit,
		Offset:       query.Offset,
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches a single ticket, serving from cache when possible.
func (s *QueryService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	if s.cache != nil {
		if ticket, ok := s.cache.Get(ctx, id); ok {
			return ticket, nil
		}
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, ticket)
	}
	return ticket, nil
}

// ListComments returns the ticket thread in chronological order.
func (s *QueryService) ListComments(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}
