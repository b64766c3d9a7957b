// Package users provides a PostgreSQL-backed repository for user accounts.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkireev/realty/internal/common"
	"github.com/dkireev/realty/internal/dbx"
	"github.com/dkireev/realty/internal/server/models"
)

const userColumns = `id, username, full_name, email, password_hash, is_superuser, date_of_birth, gender, created_at, updated_at`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, full_name, email, password_hash, is_superuser, date_of_birth, gender)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.FullName, user.Email,
		user.PasswordHash, user.IsSuperuser, user.DateOfBirth, user.Gender)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// CreateBatch inserts several users one by one. Callers wanting atomicity
// should run it inside dbx.WithTx.
func (r *PostgresRepository) CreateBatch(ctx context.Context, users []*models.User) error {
	for _, u := range users {
		if err := r.Create(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *PostgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *PostgresRepository) SuperuserExists(ctx context.Context) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE is_superuser)`)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash,
			&u.IsSuperuser, &u.DateOfBirth, &u.Gender, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// UpdateProfile applies the non-nil fields of upd; absent fields keep their
// current values.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    full_name = COALESCE($3, full_name),
		    email = COALESCE($4, email),
		    updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, upd.Username, upd.FullName, upd.Email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes the user and reports whether a row was deleted. Listings
// owned by the user go with it via the FK cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) DeleteAllExceptSuperusers(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE NOT is_superuser`)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash,
		&u.IsSuperuser, &u.DateOfBirth, &u.Gender, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}
