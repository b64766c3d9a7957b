// Package services contains server-side business logic. This file implements
// UserService: registration, the login and request-authorization flows, and
// account management.
package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkireev/realty/internal/common"
	"github.com/dkireev/realty/internal/dbx"
	"github.com/dkireev/realty/internal/server/auth"
	"github.com/dkireev/realty/internal/server/models"
	"github.com/dkireev/realty/internal/server/repositories/repomanager"
	"github.com/dkireev/realty/internal/server/repositories/users"
)

var (
	// Registration conflicts. These are deliberately specific: signup is
	// allowed to tell the caller which field clashed.
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")

	// Password-change failures.
	ErrWrongPassword = errors.New("current password is incorrect")
	ErrSamePassword  = errors.New("new password equals the current one")
)

// TokenIssuer is the subset of *auth.TokenIssuer used by UserService.
type TokenIssuer interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
	TTL() time.Duration
}

// SessionStore is the session record interface consumed by the service.
// *session.Store satisfies it.
type SessionStore interface {
	Register(ctx context.Context, userID, token string, ttl time.Duration) error
	Validate(ctx context.Context, userID, token string) (bool, error)
	Revoke(ctx context.Context, userID string) error
}

// RegisterInput carries validated signup data. The password here is still
// plaintext; hashing happens inside Register.
type RegisterInput struct {
	Username    string
	FullName    string
	Email       string
	Password    string
	DateOfBirth *time.Time
	Gender      models.Gender
}

// UserService handles authentication and account operations:
//   - Register: create users
//   - Login: verify credentials, mint a token, register the session
//   - Authenticate: resolve a bearer token to a user id
//   - ChangePassword / Logout: credential and session lifecycle
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
	sessions    SessionStore
}

// NewUserService constructs a UserService from its collaborators.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer, sessions SessionStore) *UserService {
	return &UserService{db: db, repomanager: m, tokens: tokens, sessions: sessions}
}

// Register creates a new user after checking username and email uniqueness.
// The checks and the insert run in one transaction.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           newID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Gender:       in.Gender,
	}
	if in.FullName != "" {
		user.FullName = sql.NullString{String: in.FullName, Valid: true}
	}
	if in.DateOfBirth != nil {
		user.DateOfBirth = sql.NullTime{Time: *in.DateOfBirth, Valid: true}
	}
	if user.Gender == "" {
		user.Gender = models.GenderNotSpecified
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		taken, err := repo.UsernameExists(ctx, in.Username)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}

		taken, err = repo.EmailExists(ctx, in.Email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}

		return repo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and, on success, issues a token and
// registers it as the user's single active session. The session record is
// written before the token is returned, so a client can never hold a token
// the store does not know about. An unknown username and a wrong password
// are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", common.ErrInternal
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", common.ErrInternal
	}
	if err := s.sessions.Register(ctx, user.ID, token, s.tokens.TTL()); err != nil {
		return "", common.ErrInternal
	}
	return token, nil
}

// Authenticate resolves a bearer token to a user id. The token must carry a
// valid signature and be unexpired, match the user's current session record,
// and belong to an existing user. Every failure, including a session store
// round-trip error, yields common.ErrUnauthenticated (fail closed).
func (s *UserService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return "", common.ErrUnauthenticated
	}

	ok, err := s.sessions.Validate(ctx, userID, token)
	if err != nil || !ok {
		return "", common.ErrUnauthenticated
	}

	if _, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err != nil {
		return "", common.ErrUnauthenticated
	}
	return userID, nil
}

// Logout deletes the user's session record, invalidating the current token.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Revoke(ctx, userID)
}

// ChangePassword verifies the old password, stores the hash of the new one
// and revokes the current session so the user must log in again.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(oldPassword, user.PasswordHash) {
		return ErrWrongPassword
	}
	if oldPassword == newPassword {
		return ErrSamePassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	return s.sessions.Revoke(ctx, userID)
}

// GetByID returns a user by id.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// GetByUsername returns a user by username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByUsername(ctx, username)
}

// List returns all registered users.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// IsSuperuser reports whether the user has the superuser role.
func (s *UserService) IsSuperuser(ctx context.Context, userID string) (bool, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsSuperuser, nil
}

// UpdateProfile applies a partial profile update to the user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd users.ProfileUpdate) error {
	return s.repomanager.Users(s.db).UpdateProfile(ctx, userID, upd)
}

// Delete removes the user's account (listings cascade away with it) and
// revokes any active session.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	deleted, err := s.repomanager.Users(s.db).Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return common.ErrNotFound
	}
	return s.sessions.Revoke(ctx, userID)
}

// DeleteAll removes every registered user except superusers.
func (s *UserService) DeleteAll(ctx context.Context) (int64, error) {
	return s.repomanager.Users(s.db).DeleteAllExceptSuperusers(ctx)
}

// EnsureSuperuser creates the bootstrap superuser account unless one already
// exists. Called once at startup.
func (s *UserService) EnsureSuperuser(ctx context.Context, username, email, password string) (bool, error) {
	repo := s.repomanager.Users(s.db)

	exists, err := repo.SuperuserExists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("error hashing password: %w", err)
	}
	user := &models.User{
		ID:           newID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsSuperuser:  true,
		Gender:       models.GenderNotSpecified,
	}
	if err := repo.Create(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// GenerateFakeUsers inserts n random users, for demo and load purposes. All
// of them get an unguessable random password.
func (s *UserService) GenerateFakeUsers(ctx context.Context, n int) ([]*models.User, error) {
	genders := []models.Gender{models.GenderMale, models.GenderFemale, models.GenderNotSpecified}

	fakes := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		suffix, err := common.MakeRandHexString(4)
		if err != nil {
			return nil, err
		}
		password, err := common.MakeRandHexString(16)
		if err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}

		fakes = append(fakes, &models.User{
			ID:           newID(),
			Username:     "user_" + suffix,
			Email:        suffix + "@example.com",
			PasswordHash: hash,
			Gender:       genders[i%len(genders)],
		})
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Users(tx).CreateBatch(ctx, fakes)
	})
	if err != nil {
		return nil, err
	}
	return fakes, nil
}

// newID returns a 32-character hex id.
func newID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
