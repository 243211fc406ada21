package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestTicketService(t *testing.T) {
	ctx := context.Background()

	newService := func(repo *memRepository) TicketService {
		return NewTicketService(repo, newTestLogger(), newTestValidator())
	}

	t.Run("Create_Opens_Ticket", func(t *testing.T) {
		repo := newMemRepository()
		service := newService(repo)

		ticket, err := service.Create(ctx, testStudent("student-1"), &CreateTicketRequest{
			Subject: "Cannot join course",
			Body:    "The join button stays greyed out.",
		})

		assert.NoError(t, err)
		assert.Equal(t, models.TicketOpen, ticket.Status)
		assert.Equal(t, "student-1", ticket.CreatedBy)
	})

	t.Run("GetByID_Creator_And_Admin_Only", func(t *testing.T) {
		repo := newMemRepository()
		service := newService(repo)
		ticket, _ := service.Create(ctx, testStudent("student-1"), &CreateTicketRequest{Subject: "Help"})

		_, err := service.GetByID(ctx, testStudent("student-1"), ticket.ID)
		assert.NoError(t, err)

		_, err = service.GetByID(ctx, testAdmin("admin-1"), ticket.ID)
		assert.NoError(t, err)

		_, err = service.GetByID(ctx, testStudent("student-2"), ticket.ID)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("Close_Stamps_Once", func(t *testing.T) {
		repo := newMemRepository()
		service := newService(repo)
		ticket, _ := service.Create(ctx, testStudent("student-1"), &CreateTicketRequest{Subject: "Help"})

		closed, err := service.Close(ctx, testStudent("student-1"), ticket.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.TicketClosed, closed.Status)
		assert.NotNil(t, closed.ClosedAt)

		firstClosedAt := *closed.ClosedAt
		closed, err = service.Close(ctx, testStudent("student-1"), ticket.ID)
		assert.NoError(t, err)
		assert.Equal(t, firstClosedAt, *closed.ClosedAt)
	})

	t.Run("Close_By_Stranger_Denied", func(t *testing.T) {
		repo := newMemRepository()
		service := newService(repo)
		ticket, _ := service.Create(ctx, testStudent("student-1"), &CreateTicketRequest{Subject: "Help"})

		_, err := service.Close(ctx, testStudent("student-2"), ticket.ID)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("ListByStatus_Admin_Only", func(t *testing.T) {
		repo := newMemRepository()
		service := newService(repo)
		_, _ = service.Create(ctx, testStudent("student-1"), &CreateTicketRequest{Subject: "Help"})

		tickets, err := service.ListByStatus(ctx, testAdmin("admin-1"), models.TicketOpen, 20, 0)
		assert.NoError(t, err)
		assert.Len(t, tickets, 1)

		_, err = service.ListByStatus(ctx, testStudent("student-1"), models.TicketOpen, 20, 0)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("ListMine_Scoped_To_Creator", func(t *testing.T) {
		repo := newMemRepository()
		service := newService(repo)
		_, _ = service.Create(ctx, testStudent("student-1"), &CreateTicketRequest{Subject: "Mine"})
		_, _ = service.Create(ctx, testStudent("student-2"), &CreateTicketRequest{Subject: "Theirs"})

		tickets, err := service.ListMine(ctx, testStudent("student-1"), 20, 0)
		assert.NoError(t, err)
		if assert.Len(t, tickets, 1) {
			assert.Equal(t, "Mine", tickets[0].Subject)
		}
	})

	t.Run("Missing_Ticket_Rejected", func(t *testing.T) {
		service := newService(newMemRepository())
		_, err := service.GetByID(ctx, testAdmin("admin-1"), 99)
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}
