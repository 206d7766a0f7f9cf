package domain

import (
	"fmt"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "inprogress"
	TicketStatusOnHold     TicketStatus = "onhold"
	TicketStatusClosed     TicketStatus = "closed"
)

// IsValid reports whether the status is one of the enumerated values.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusOnHold, TicketStatusClosed:
		return true
	}
	return false
}

// ParseTicketStatus converts a raw string into a TicketStatus.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	status := TicketStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", fmt.Errorf("unknown ticket status %q", raw)
	}
	return status, nil
}

// TicketType differentiates service requests from incidents.
type TicketType string

const (
	TicketTypeRequest  TicketType = "request"
	TicketTypeIncident TicketType = "incident"
)

// IsValid reports whether the type is one of the enumerated values.
func (t TicketType) IsValid() bool {
	return t == TicketTypeRequest || t == TicketTypeIncident
}

// ParseTicketType converts a raw string into a TicketType.
// An empty string yields the default type, request.
func ParseTicketType(raw string) (TicketType, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return TicketTypeRequest, nil
	}
	ticketType := TicketType(trimmed)
	if !ticketType.IsValid() {
		return "", fmt.Errorf("unknown ticket type %q", raw)
	}
	return ticketType, nil
}

// TicketPriority enumerates triage urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// IsValid reports whether the priority is one of the enumerated values.
func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// ParseTicketPriority converts a raw string into a TicketPriority.
// An empty string yields the default priority, low.
func ParseTicketPriority(raw string) (TicketPriority, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return TicketPriorityLow, nil
	}
	priority := TicketPriority(trimmed)
	if !priority.IsValid() {
		return "", fmt.Errorf("unknown ticket priority %q", raw)
	}
	return priority, nil
}

// Ticket is the aggregate for support requests. Category, team and
// technician references are nullable and cleared when the referenced
// entity is deleted; the author reference cascades instead.
type Ticket struct {
	ID                   string
	AuthorID             string
	Title                string
	Description          string
	ImageURL             *string
	Status               TicketStatus
	Type                 TicketType
	Priority             TicketPriority
	CategoryID           *string
	AssignedTeamID       *string
	AssignedTechnicianID *string
	CreatedOn            time.Time
	UpdatedOn            time.Time
}
