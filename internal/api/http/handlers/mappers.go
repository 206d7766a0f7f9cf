package handlers

import (
	"github.com/support-hub/helpdesk/internal/api/dto"
	"github.com/support-hub/helpdesk/internal/domain"
	"github.com/support-hub/helpdesk/internal/sanitize"
)

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                   ticket.ID,
		AuthorID:             ticket.AuthorID,
		Title:                ticket.Title,
		Description:          ticket.Description,
		ImageURL:             ticket.ImageURL,
		Status:               ticket.Status,
		Type:                 ticket.Type,
		Priority:             ticket.Priority,
		CategoryID:           ticket.CategoryID,
		AssignedTeamID:       ticket.AssignedTeamID,
		AssignedTechnicianID: ticket.AssignedTechnicianID,
		CreatedOn:            ticket.CreatedOn,
		UpdatedOn:            ticket.UpdatedOn,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		AuthorID:  comment.AuthorID,
		Body:      comment.Body,
		BodyText:  sanitize.StripMarkup(comment.Body),
		CreatedOn: comment.CreatedOn,
	}
}

func commentResponses(comments []domain.Comment) []dto.CommentResponse {
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return items
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsStaff: user.IsStaff,
		TeamID:  user.TeamID,
	}
}
