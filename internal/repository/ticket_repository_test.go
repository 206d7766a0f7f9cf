package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/support-hub/helpdesk/internal/domain"
)

func TestPatchAssignmentsEmptyPatch(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assignments, args := patchAssignments(TicketPatch{}, now)

	assert.Equal(t, []string{"updated_on=$1"}, assignments)
	require.Len(t, args, 1)
	assert.Equal(t, now, args[0])
}

func TestPatchAssignmentsFullPatch(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	status := domain.TicketStatusClosed
	priority := domain.TicketPriorityHigh
	imageURL := "http://example.com/media/a.png"
	categoryID := "cat-1"

	patch := TicketPatch{
		Status:      &status,
		Priority:    &priority,
		ImageURL:    &imageURL,
		SetCategory: true,
		CategoryID:  &categoryID,
		SetTeam:     true,
		TeamID:      nil,
	}
	assignments, args := patchAssignments(patch, now)

	assert.Equal(t, []string{
		"updated_on=$1",
		"status=$2",
		"priority=$3",
		"image_url=$4",
		"category_id=$5",
		"assigned_team_id=$6",
	}, assignments)
	require.Len(t, args, 6)
	assert.Equal(t, now, args[0])
	assert.Equal(t, status, args[1])
	assert.Equal(t, priority, args[2])
	assert.Equal(t, imageURL, args[3])
	assert.Equal(t, &categoryID, args[4])
	// A set flag with a nil value clears the column.
	assert.Nil(t, args[5])
}

func TestPatchAssignmentsUnsetReferencesUntouched(t *testing.T) {
	now := time.Now().UTC()
	status := domain.TicketStatusInProgress

	assignments, _ := patchAssignments(TicketPatch{Status: &status}, now)

	assert.Equal(t, []string{"updated_on=$1", "status=$2"}, assignments)
}
