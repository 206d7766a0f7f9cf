package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/support-hub/helpdesk/internal/domain"
)

// TicketFilter captures listing predicates; all supplied predicates are
// combined with AND.
type TicketFilter struct {
	AuthorID     *string
	CategoryID   *string
	TeamID       *string
	TechnicianID *string
	Status       *domain.TicketStatus
	Limit        int
	Offset       int
}

// TicketPatch names exactly the columns a lifecycle operation changed.
// Nil pointer fields are untouched; the Set* flags distinguish clearing
// a nullable reference from leaving it alone. Updates built from a patch
// never overwrite columns outside it, so concurrent mutations of
// different fields do not clobber each other.
type TicketPatch struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	ImageURL *string

	SetCategory bool
	CategoryID  *string

	SetTeam bool
	TeamID  *string

	SetTechnician bool
	TechnicianID  *string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	UpdatePatch(ctx context.Context, id string, patch TicketPatch, updatedOn time.Time) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, author_id, title, description, image_url, status, type, priority,
               category_id, assigned_team_id, assigned_technician_id, created_on, updated_on`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (author_id, title, description, image_url, status, type, priority,
                             category_id, assigned_team_id, assigned_technician_id, created_on, updated_on)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		ticket.AuthorID,
		ticket.Title,
		ticket.Description,
		ticket.ImageURL,
		ticket.Status,
		ticket.Type,
		ticket.Priority,
		ticket.CategoryID,
		ticket.AssignedTeamID,
		ticket.AssignedTechnicianID,
		ticket.CreatedOn,
		ticket.UpdatedOn,
	).Scan(&ticket.ID)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(ticketScanTargets(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdatePatch persists only the columns named by the patch plus
// updated_on, and returns the resulting row. An empty patch still
// refreshes updated_on, which is what Touch relies on.
func (r *ticketRepository) UpdatePatch(ctx context.Context, id string, patch TicketPatch, updatedOn time.Time) (*domain.Ticket, error) {
	assignments, args := patchAssignments(patch, updatedOn)
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(assignments, ", "), len(args), ticketColumns)

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(ticketScanTargets(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		clauses = append(clauses, fmt.Sprintf("author_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.TeamID != nil {
		args = append(args, *filter.TeamID)
		clauses = append(clauses, fmt.Sprintf("assigned_team_id=$%d", len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("assigned_technician_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	// Most recently updated first; ties broken by id to keep pagination stable.
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY updated_on DESC, id DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// patchAssignments turns a patch into SET clauses and their arguments.
// updated_on always comes first so even an empty patch produces a valid
// statement.
func patchAssignments(patch TicketPatch, updatedOn time.Time) ([]string, []any) {
	args := []any{updatedOn}
	assignments := []string{"updated_on=$1"}

	add := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.SetCategory {
		add("category_id", patch.CategoryID)
	}
	if patch.SetTeam {
		add("assigned_team_id", patch.TeamID)
	}
	if patch.SetTechnician {
		add("assigned_technician_id", patch.TechnicianID)
	}
	return assignments, args
}

func ticketScanTargets(ticket *domain.Ticket) []any {
	return []any{
		&ticket.ID,
		&ticket.AuthorID,
		&ticket.Title,
		&ticket.Description,
		&ticket.ImageURL,
		&ticket.Status,
		&ticket.Type,
		&ticket.Priority,
		&ticket.CategoryID,
		&ticket.AssignedTeamID,
		&ticket.AssignedTechnicianID,
		&ticket.CreatedOn,
		&ticket.UpdatedOn,
	}
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(ticketScanTargets(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
