package domain

// Team is a group assignable to a ticket for ownership and filtering.
// Deleting a team clears the reference on tickets and users.
type Team struct {
	ID   string
	Name string
}
