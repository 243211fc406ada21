package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"gorm.io/gorm"
)

type TicketPostgreSQL struct {
	db *gorm.DB
}

func NewTicketPostgreSQL(db *gorm.DB) repositories.TicketRepository {
	return &TicketPostgreSQL{db: db}
}

func (t *TicketPostgreSQL) Create(ctx context.Context, ticket *models.SupportTicket) error {
	if err := t.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

func (t *TicketPostgreSQL) GetByID(ctx context.Context, id uint) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := t.db.WithContext(ctx).First(&ticket, id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (t *TicketPostgreSQL) Update(ctx context.Context, ticket *models.SupportTicket) error {
	if err := t.db.WithContext(ctx).Save(ticket).Error; err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	return nil
}

func (t *TicketPostgreSQL) ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]*models.SupportTicket, error) {
	var tickets []*models.SupportTicket
	err := t.db.WithContext(ctx).
		Where("created_by = ?", creatorID).
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets by creator: %w", err)
	}
	return tickets, nil
}

func (t *TicketPostgreSQL) ListByStatus(ctx context.Context, status models.TicketStatus, limit, offset int) ([]*models.SupportTicket, error) {
	var tickets []*models.SupportTicket
	err := t.db.WithContext(ctx).
		Where("status = ?", status).
		Limit(limit).
		Offset(offset).
		Order("created_at ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets by status: %w", err)
	}
	return tickets, nil
}
