package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/classroom-service/internal/models"
)

// UserRepository covers user lookups. The service is not the owner of user
// data; writes are limited to the IdP-sync upsert and activity stamps.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	GetByRole(ctx context.Context, role models.UserRole, limit, offset int) ([]*models.User, error)

	ExistsByID(ctx context.Context, id string) (bool, error)
	IsActive(ctx context.Context, id string) (bool, error)
	HasRole(ctx context.Context, id string, role models.UserRole) (bool, error)

	// Upsert syncs the IdP-issued identity into the local projection.
	Upsert(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id string, loginTime time.Time) error
	UpdateStatus(ctx context.Context, id string, status models.UserStatus) error
}
