package domain

import "time"

// Comment captures a message in a ticket thread. Comments are immutable
// once created; they are deleted with their ticket, while a deleted
// author only clears the reference.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  *string
	Body      string
	CreatedOn time.Time
}
