package repositories

import (
	"context"
	"errors"

	"billing-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SupplierRepository struct {
	DB *pgxpool.Pool
}

func NewSupplierRepository(db *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{DB: db}
}

const supplierColumns = `id, name, phone, address, is_deleted, created_at, updated_at`

func scanSupplier(row pgx.Row) (*models.Supplier, error) {
	var s models.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Phone, &s.Address, &s.IsDeleted, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepository) Create(ctx context.Context, s *models.Supplier) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO suppliers(name, phone, address)
         VALUES($1, $2, $3)
         RETURNING id, created_at, updated_at`,
		s.Name, s.Phone, s.Address,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SupplierRepository) Get(ctx context.Context, id int) (*models.Supplier, error) {
	return scanSupplier(r.DB.QueryRow(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE id=$1 AND is_deleted=FALSE`, id))
}

func (r *SupplierRepository) List(ctx context.Context, page, perPage int) ([]*models.Supplier, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+supplierColumns+` FROM suppliers
         WHERE is_deleted=FALSE
         ORDER BY created_at DESC
         LIMIT $1 OFFSET $2`, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *SupplierRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM suppliers WHERE is_deleted=FALSE`).Scan(&n)
	return n, err
}

func (r *SupplierRepository) CountDeleted(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM suppliers WHERE is_deleted=TRUE`).Scan(&n)
	return n, err
}

func (r *SupplierRepository) Update(ctx context.Context, s *models.Supplier) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE suppliers SET name=$1, phone=$2, address=$3, updated_at=NOW()
         WHERE id=$4 AND is_deleted=FALSE`,
		s.Name, s.Phone, s.Address, s.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SupplierRepository) SoftDelete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE suppliers SET is_deleted=TRUE, updated_at=NOW()
         WHERE id=$1 AND is_deleted=FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
