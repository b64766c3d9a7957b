package listings

import (
	"context"

	"github.com/dkireev/realty/internal/server/models"
)

// Update carries the optional fields of a partial listing update. Nil fields
// are left untouched.
type Update struct {
	AvailableNow *bool
	Address      *string
}

type Repository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	ListAll(ctx context.Context) ([]*models.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Listing, error)
	Update(ctx context.Context, id string, upd Update) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}
