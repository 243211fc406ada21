package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/SAP-F-2025/classroom-service/internal/validator"
)

// TicketService manages support tickets. A ticket belongs to its creator;
// the support.ticket.{id} channel admits only the creator and admins.
type TicketService interface {
	Create(ctx context.Context, principal *models.User, req *CreateTicketRequest) (*models.SupportTicket, error)
	GetByID(ctx context.Context, principal *models.User, ticketID uint) (*models.SupportTicket, error)
	Close(ctx context.Context, principal *models.User, ticketID uint) (*models.SupportTicket, error)
	ListMine(ctx context.Context, principal *models.User, limit, offset int) ([]*models.SupportTicket, error)
	ListByStatus(ctx context.Context, principal *models.User, status models.TicketStatus, limit, offset int) ([]*models.SupportTicket, error)
}

type CreateTicketRequest struct {
	Subject string `json:"subject" validate:"required,min=1,max=255"`
	Body    string `json:"body" validate:"max=10000"`
}

type ticketService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewTicketService(repo repositories.Repository, logger utils.Logger, validator *validator.Validator) TicketService {
	return &ticketService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

func (s *ticketService) Create(ctx context.Context, principal *models.User, req *CreateTicketRequest) (*models.SupportTicket, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	ticket := &models.SupportTicket{
		CreatedBy: principal.ID,
		Subject:   req.Subject,
		Body:      req.Body,
		Status:    models.TicketOpen,
	}

	if err := s.repo.Ticket().Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	s.logger.Info("Support ticket created", "ticket_id", ticket.ID, "created_by", principal.ID)
	return ticket, nil
}

func (s *ticketService) GetByID(ctx context.Context, principal *models.User, ticketID uint) (*models.SupportTicket, error) {
	ticket, err := s.repo.Ticket().GetByID(ctx, ticketID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	if ticket.CreatedBy != principal.ID && !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, ticketID, "ticket", "read", "not the ticket creator")
	}
	return ticket, nil
}

// Close is idempotent: closing a closed ticket returns it unchanged.
func (s *ticketService) Close(ctx context.Context, principal *models.User, ticketID uint) (*models.SupportTicket, error) {
	ticket, err := s.repo.Ticket().GetByID(ctx, ticketID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	if ticket.CreatedBy != principal.ID && !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, ticketID, "ticket", "close", "not the ticket creator")
	}

	if ticket.Status == models.TicketClosed {
		return ticket, nil
	}

	now := s.now()
	ticket.Status = models.TicketClosed
	ticket.ClosedAt = &now
	if err := s.repo.Ticket().Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to close ticket: %w", err)
	}
	return ticket, nil
}

func (s *ticketService) ListMine(ctx context.Context, principal *models.User, limit, offset int) ([]*models.SupportTicket, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	tickets, err := s.repo.Ticket().ListByCreator(ctx, principal.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

func (s *ticketService) ListByStatus(ctx context.Context, principal *models.User, status models.TicketStatus, limit, offset int) ([]*models.SupportTicket, error) {
	if !principal.IsAdmin() {
		return nil, NewPermissionError(principal.ID, 0, "tickets", "list_all", "requires admin role")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	tickets, err := s.repo.Ticket().ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}
