// Package listings provides a PostgreSQL-backed repository for property
// listings.
package listings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkireev/realty/internal/common"
	"github.com/dkireev/realty/internal/dbx"
	"github.com/dkireev/realty/internal/server/models"
)

const listingColumns = `id, type, available_now, owner_id, address, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, listing *models.Listing) error {
	query := `
		INSERT INTO listings (id, type, available_now, owner_id, address)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		listing.ID, listing.Type, listing.AvailableNow, listing.OwnerID, listing.Address)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	l := &models.Listing{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Type, &l.AvailableNow, &l.OwnerID, &l.Address, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at`
	return r.queryListings(ctx, query)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE owner_id = $1 ORDER BY created_at`
	return r.queryListings(ctx, query, ownerID)
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd Update) error {
	query := `
		UPDATE listings
		SET available_now = COALESCE($2, available_now),
		    address = COALESCE($3, address),
		    updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, upd.AvailableNow, upd.Address); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	return r.execCount(ctx, `DELETE FROM listings WHERE owner_id = $1`, ownerID)
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.execCount(ctx, `DELETE FROM listings`)
}

func (r *PostgresRepository) queryListings(ctx context.Context, query string, args ...any) ([]*models.Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Listing
	for rows.Next() {
		l := &models.Listing{}
		if err := rows.Scan(&l.ID, &l.Type, &l.AvailableNow, &l.OwnerID, &l.Address,
			&l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) execCount(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
