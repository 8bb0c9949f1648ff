package repositories

import (
	"context"
	"errors"

	"billing-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaxRepository struct {
	DB *pgxpool.Pool
}

func NewTaxRepository(db *pgxpool.Pool) *TaxRepository {
	return &TaxRepository{DB: db}
}

// Get returns the single active tax policy row.
func (r *TaxRepository) Get(ctx context.Context) (*models.Tax, error) {
	var t models.Tax
	err := r.DB.QueryRow(ctx,
		`SELECT id, rate, threshold, is_deleted, created_at, updated_at
         FROM taxes WHERE is_deleted=FALSE
         ORDER BY id LIMIT 1`,
	).Scan(&t.ID, &t.Rate, &t.Threshold, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaxRepository) Update(ctx context.Context, t *models.Tax) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE taxes SET rate=$1, threshold=$2, updated_at=NOW()
         WHERE id=$3 AND is_deleted=FALSE`,
		t.Rate, t.Threshold, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Bootstrap inserts the default policy when the table is empty. Idempotent;
// called once at process start by the supervisor, never by the engine.
func (r *TaxRepository) Bootstrap(ctx context.Context, defaults *models.Tax) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO taxes(rate, threshold)
         SELECT $1, $2
         WHERE NOT EXISTS (SELECT 1 FROM taxes WHERE is_deleted=FALSE)`,
		defaults.Rate, defaults.Threshold)
	return err
}
