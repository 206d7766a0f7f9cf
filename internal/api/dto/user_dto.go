package dto

import "time"

// UserRegisterRequest payload.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginRequest payload.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries issued token info.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse representation.
type UserResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	IsStaff bool    `json:"is_staff"`
	TeamID  *string `json:"team_id"`
}

// SetStaffRequest payload.
type SetStaffRequest struct {
	IsStaff bool `json:"is_staff"`
}

// AssignUserTeamRequest payload; null clears membership.
type AssignUserTeamRequest struct {
	TeamID *string `json:"team_id"`
}
