package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dkireev/realty/internal/common"
	"github.com/dkireev/realty/internal/server/models"
	listingsrepo "github.com/dkireev/realty/internal/server/repositories/listings"
)

func TestListingCreate_SetsOwner(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeListingsRepo{}
	s := NewListingService(db, &fakeRepoManager{l: repo})

	l, err := s.Create(context.Background(), "u1", ListingInput{
		Type: models.ListingHouse, Address: "1 Main St", AvailableNow: true,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if l.ID == "" || l.OwnerID != "u1" || l.Type != models.ListingHouse {
		t.Fatalf("unexpected listing: %+v", l)
	}
	if repo.created != l {
		t.Fatalf("listing not persisted")
	}
}

func TestListingUpdate_OwnerAllowed(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeListingsRepo{byID: &models.Listing{ID: "l1", OwnerID: "u1"}}
	s := NewListingService(db, &fakeRepoManager{l: repo, u: &fakeUsersRepo{}})

	addr := "2 Side St"
	if err := s.Update(context.Background(), "u1", "l1", listingsrepo.Update{Address: &addr}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if repo.upd.Address == nil || *repo.upd.Address != addr {
		t.Fatalf("update not applied: %+v", repo.upd)
	}
}

func TestListingUpdate_StrangerForbidden(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeListingsRepo{byID: &models.Listing{ID: "l1", OwnerID: "u1"}}
	users := &fakeUsersRepo{byID: &models.User{ID: "u2", IsSuperuser: false}}
	s := NewListingService(db, &fakeRepoManager{l: repo, u: users})

	addr := "2 Side St"
	err := s.Update(context.Background(), "u2", "l1", listingsrepo.Update{Address: &addr})
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if repo.upd.Address != nil {
		t.Fatalf("update must not be applied")
	}
}

func TestListingUpdate_SuperuserAllowed(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeListingsRepo{byID: &models.Listing{ID: "l1", OwnerID: "u1"}}
	users := &fakeUsersRepo{byID: &models.User{ID: "admin", IsSuperuser: true}}
	s := NewListingService(db, &fakeRepoManager{l: repo, u: users})

	avail := false
	if err := s.Update(context.Background(), "admin", "l1", listingsrepo.Update{AvailableNow: &avail}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if repo.upd.AvailableNow == nil || *repo.upd.AvailableNow {
		t.Fatalf("update not applied: %+v", repo.upd)
	}
}

func TestListingUpdate_MissingListing(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeListingsRepo{byIDErr: common.ErrNotFound}
	s := NewListingService(db, &fakeRepoManager{l: repo, u: &fakeUsersRepo{}})

	addr := "x"
	err := s.Update(context.Background(), "u1", "ghost", listingsrepo.Update{Address: &addr})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListingDelete(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeListingsRepo{byID: &models.Listing{ID: "l1", OwnerID: "u1"}, deleted: true}
	s := NewListingService(db, &fakeRepoManager{l: repo, u: &fakeUsersRepo{}})

	if err := s.Delete(context.Background(), "u1", "l1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	// unknown caller is rejected, not treated as a superuser
	users := &fakeUsersRepo{byIDErr: common.ErrNotFound}
	sNF := NewListingService(db, &fakeRepoManager{l: repo, u: users})
	if err := sNF.Delete(context.Background(), "ghost", "l1"); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestListingReads_ArePublic(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeListingsRepo{
		byID:       &models.Listing{ID: "l1"},
		listAllOut: []*models.Listing{{ID: "l1"}, {ID: "l2"}},
		byOwnerOut: []*models.Listing{{ID: "l1"}},
	}
	s := NewListingService(db, &fakeRepoManager{l: repo})

	if l, err := s.Get(context.Background(), "l1"); err != nil || l.ID != "l1" {
		t.Fatalf("Get: got (%+v, %v)", l, err)
	}
	if all, err := s.ListAll(context.Background()); err != nil || len(all) != 2 {
		t.Fatalf("ListAll: got (%d, %v)", len(all), err)
	}
	if mine, err := s.ListByOwner(context.Background(), "u1"); err != nil || len(mine) != 1 {
		t.Fatalf("ListByOwner: got (%d, %v)", len(mine), err)
	}
}
