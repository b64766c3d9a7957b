package users

import (
	"context"

	"github.com/dkireev/realty/internal/server/models"
)

// ProfileUpdate carries the optional fields of a partial profile update.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Username *string
	FullName *string
	Email    *string
}

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	CreateBatch(ctx context.Context, users []*models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*models.User, error)
	SuperuserExists(ctx context.Context) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAllExceptSuperusers(ctx context.Context) (int64, error)
}
