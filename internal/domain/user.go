package domain

import "time"

// User is the domain model for people who raise and work tickets.
// Staff members carry the IsStaff flag and may belong to a team; the
// team reference is cleared when the team is deleted.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsStaff      bool
	TeamID       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
