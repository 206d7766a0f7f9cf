package events

import (
	"time"

	"github.com/support-hub/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketCommentAdded  EventType = "ticket_comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload describes a newly raised ticket.
type TicketCreatedPayload struct {
	AuthorID   string                `json:"author_id"`
	Title      string                `json:"title"`
	Type       domain.TicketType     `json:"type"`
	Priority   domain.TicketPriority `json:"priority"`
	CategoryID *string               `json:"category_id,omitempty"`
}

// TicketStatusChangedPayload describes a status transition.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload describes a team, technician or category change.
type TicketAssignedPayload struct {
	Field        string  `json:"field"`
	TeamID       *string `json:"team_id,omitempty"`
	TechnicianID *string `json:"technician_id,omitempty"`
	CategoryID   *string `json:"category_id,omitempty"`
}

// TicketCommentAddedPayload describes a new thread comment.
type TicketCommentAddedPayload struct {
	CommentID   string  `json:"comment_id"`
	AuthorID    *string `json:"author_id,omitempty"`
	BodyPreview string  `json:"body_preview"`
}
