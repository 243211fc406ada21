package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"gorm.io/gorm"
)

type PaymentPostgreSQL struct {
	db *gorm.DB
}

func NewPaymentPostgreSQL(db *gorm.DB) repositories.PaymentRepository {
	return &PaymentPostgreSQL{db: db}
}

func (p *PaymentPostgreSQL) Create(ctx context.Context, payment *models.Payment) error {
	if err := p.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (p *PaymentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := p.db.WithContext(ctx).
		Preload("Enrollment").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (p *PaymentPostgreSQL) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := p.db.WithContext(ctx).
		Preload("Enrollment").
		First(&payment, "transaction_id = ?", transactionID).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (p *PaymentPostgreSQL) Update(ctx context.Context, payment *models.Payment) error {
	if err := p.db.WithContext(ctx).Save(payment).Error; err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

func (p *PaymentPostgreSQL) ListByEnrollment(ctx context.Context, enrollmentID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := p.db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by enrollment: %w", err)
	}
	return payments, nil
}

func (p *PaymentPostgreSQL) ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := p.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by student: %w", err)
	}
	return payments, nil
}
