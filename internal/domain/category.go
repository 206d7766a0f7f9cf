package domain

// Category is a classification tag for tickets. Deleting a category
// clears the reference on tickets.
type Category struct {
	ID   string
	Name string
}
