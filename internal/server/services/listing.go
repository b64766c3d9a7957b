package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dkireev/realty/internal/common"
	"github.com/dkireev/realty/internal/server/models"
	"github.com/dkireev/realty/internal/server/repositories/listings"
	"github.com/dkireev/realty/internal/server/repositories/repomanager"
)

// ListingInput carries validated data for a new listing.
type ListingInput struct {
	Type         models.ListingType
	Address      string
	AvailableNow bool
}

// ListingService implements listing CRUD. Reads are public; writes are
// restricted to the listing's owner, with superusers allowed everywhere.
type ListingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewListingService(db *sql.DB, m repomanager.RepositoryManager) *ListingService {
	return &ListingService{db: db, repomanager: m}
}

// Create inserts a listing owned by the caller.
func (s *ListingService) Create(ctx context.Context, ownerID string, in ListingInput) (*models.Listing, error) {
	listing := &models.Listing{
		ID:           newID(),
		Type:         in.Type,
		AvailableNow: in.AvailableNow,
		OwnerID:      ownerID,
		Address:      in.Address,
	}
	if err := s.repomanager.Listings(s.db).Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Get returns a listing by id. No authentication required.
func (s *ListingService) Get(ctx context.Context, id string) (*models.Listing, error) {
	return s.repomanager.Listings(s.db).GetByID(ctx, id)
}

// ListAll returns every listing. No authentication required.
func (s *ListingService) ListAll(ctx context.Context) ([]*models.Listing, error) {
	return s.repomanager.Listings(s.db).ListAll(ctx)
}

// ListByOwner returns the listings owned by the given user.
func (s *ListingService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Listing, error) {
	return s.repomanager.Listings(s.db).ListByOwner(ctx, ownerID)
}

// Update applies a partial update if the caller owns the listing or is a
// superuser; otherwise common.ErrForbidden.
func (s *ListingService) Update(ctx context.Context, callerID, listingID string, upd listings.Update) error {
	if err := s.authorizeOwner(ctx, callerID, listingID); err != nil {
		return err
	}
	return s.repomanager.Listings(s.db).Update(ctx, listingID, upd)
}

// Delete removes the listing if the caller owns it or is a superuser.
func (s *ListingService) Delete(ctx context.Context, callerID, listingID string) error {
	if err := s.authorizeOwner(ctx, callerID, listingID); err != nil {
		return err
	}
	deleted, err := s.repomanager.Listings(s.db).Delete(ctx, listingID)
	if err != nil {
		return err
	}
	if !deleted {
		return common.ErrNotFound
	}
	return nil
}

// DeleteByOwner removes every listing owned by the caller.
func (s *ListingService) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	return s.repomanager.Listings(s.db).DeleteByOwner(ctx, ownerID)
}

// DeleteAll removes every listing. Caller role is enforced at the transport
// layer (superuser-only route).
func (s *ListingService) DeleteAll(ctx context.Context) (int64, error) {
	return s.repomanager.Listings(s.db).DeleteAll(ctx)
}

// authorizeOwner fails with common.ErrForbidden unless the caller owns the
// listing or is a superuser. A missing listing surfaces as common.ErrNotFound.
func (s *ListingService) authorizeOwner(ctx context.Context, callerID, listingID string) error {
	listing, err := s.repomanager.Listings(s.db).GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.OwnerID == callerID {
		return nil
	}

	caller, err := s.repomanager.Users(s.db).GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrForbidden
		}
		return err
	}
	if !caller.IsSuperuser {
		return common.ErrForbidden
	}
	return nil
}
