package accounts

import (
	"context"

	"github.com/dpavlenko/curex/internal/server/models"
)

// Repository owns the account records. Create enforces email uniqueness;
// lookups return common.ErrorNotFound when no row matches.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
}
