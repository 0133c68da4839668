package users

import (
	"context"

	"github.com/dmitrijs2005/mindease/internal/server/models"
)

// Repository is the credential store. Lookups used for authentication go
// by email or id only.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}
