package photos

import (
	"context"

	"github.com/dkireev/realty/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, photo *models.ListingPhoto) error
	GetByID(ctx context.Context, id string) (*models.ListingPhoto, error)
	ListByListing(ctx context.Context, listingID string) ([]*models.ListingPhoto, error)
	Delete(ctx context.Context, id string) (bool, error)
}
