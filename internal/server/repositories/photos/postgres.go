// Package photos provides a PostgreSQL-backed repository for listing photo
// records. The photo bytes live in object storage; only the storage key is
// kept here.
package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkireev/realty/internal/common"
	"github.com/dkireev/realty/internal/dbx"
	"github.com/dkireev/realty/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, photo *models.ListingPhoto) error {
	query := `
		INSERT INTO listing_photos (id, listing_id, storage_key)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, photo.ID, photo.ListingID, photo.StorageKey); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ListingPhoto, error) {
	query := `SELECT id, listing_id, storage_key, created_at FROM listing_photos WHERE id = $1`

	p := &models.ListingPhoto{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.ListingID, &p.StorageKey, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByListing(ctx context.Context, listingID string) ([]*models.ListingPhoto, error) {
	query := `SELECT id, listing_id, storage_key, created_at FROM listing_photos WHERE listing_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ListingPhoto
	for rows.Next() {
		p := &models.ListingPhoto{}
		if err := rows.Scan(&p.ID, &p.ListingID, &p.StorageKey, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listing_photos WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
