package dto

import (
	"time"

	"github.com/support-hub/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Priority    string  `json:"priority"`
	CategoryID  *string `json:"category_id"`
}

// StaffCreateTicketRequest lets staff raise a ticket on a requester's
// behalf.
type StaffCreateTicketRequest struct {
	AuthorID    string  `json:"author_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Priority    string  `json:"priority"`
	CategoryID  *string `json:"category_id"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority string `json:"priority"`
}

// AssignRequest carries a nullable reference; null clears the
// assignment.
type AssignRequest struct {
	ID *string `json:"id"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID                   string                `json:"id"`
	AuthorID             string                `json:"author_id"`
	Title                string                `json:"title"`
	Description          string                `json:"description"`
	ImageURL             *string               `json:"image_url,omitempty"`
	Status               domain.TicketStatus   `json:"status"`
	Type                 domain.TicketType     `json:"type"`
	Priority             domain.TicketPriority `json:"priority"`
	CategoryID           *string               `json:"category_id"`
	AssignedTeamID       *string               `json:"assigned_team_id"`
	AssignedTechnicianID *string               `json:"assigned_technician_id"`
	CreatedOn            time.Time             `json:"created_on"`
	UpdatedOn            time.Time             `json:"updated_on"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse represents a thread comment; BodyText is the
// tag-stripped body for plain display.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  *string   `json:"author_id"`
	Body      string    `json:"body"`
	BodyText  string    `json:"body_text"`
	CreatedOn time.Time `json:"created_on"`
}

// NameRequest payload for team/category creation.
type NameRequest struct {
	Name string `json:"name"`
}

// TeamResponse representation.
type TeamResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryResponse representation.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
