package repositories

import (
	"context"
	"errors"

	"billing-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `id, COALESCE(supplier_id, 0), name, barcode, quantity, price, image, is_deleted, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.SupplierID, &p.Name, &p.Barcode, &p.Quantity,
		&p.Price, &p.Image, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO products(supplier_id, name, barcode, quantity, price, image)
         VALUES(NULLIF($1, 0), $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at`,
		p.SupplierID, p.Name, p.Barcode, p.Quantity, p.Price, p.Image,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) Get(ctx context.Context, id int) (*models.Product, error) {
	return scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1 AND is_deleted=FALSE`, id))
}

// GetByIDs fetches every non-deleted product in ids with a single query.
// Missing ids are simply absent from the result; callers diff against the
// request to report them.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int) ([]*models.Product, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+productColumns+` FROM products
         WHERE id = ANY($1) AND is_deleted=FALSE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) List(ctx context.Context, page, perPage int) ([]*models.Product, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+productColumns+` FROM products
         WHERE is_deleted=FALSE
         ORDER BY created_at DESC
         LIMIT $1 OFFSET $2`, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE is_deleted=FALSE`).Scan(&n)
	return n, err
}

func (r *ProductRepository) CountDeleted(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE is_deleted=TRUE`).Scan(&n)
	return n, err
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE products
         SET supplier_id=NULLIF($1, 0), name=$2, barcode=$3, quantity=$4, price=$5, image=$6, updated_at=NOW()
         WHERE id=$7 AND is_deleted=FALSE`,
		p.SupplierID, p.Name, p.Barcode, p.Quantity, p.Price, p.Image, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Adjust atomically applies delta to the quantity on hand, refusing to
// bring it below zero. Used by the stock-in/stock-out endpoints outside
// the invoice flow.
func (r *ProductRepository) Adjust(ctx context.Context, id, delta int) (*models.Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx,
		`UPDATE products
         SET quantity = quantity + $1, updated_at=NOW()
         WHERE id=$2 AND is_deleted=FALSE AND quantity + $1 >= 0
         RETURNING `+productColumns, delta, id))
	if errors.Is(err, ErrNotFound) {
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStockGuard
	}
	return p, err
}

func (r *ProductRepository) SetImage(ctx context.Context, id int, image string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE products SET image=$1, updated_at=NOW()
         WHERE id=$2 AND is_deleted=FALSE`, image, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE products SET is_deleted=TRUE, updated_at=NOW()
         WHERE id=$1 AND is_deleted=FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
