package repositories

import (
	"context"
	"errors"

	"billing-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `id, first_name, last_name, address, phone, balance, is_deleted, created_at, updated_at`

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Address, &c.Phone,
		&c.Balance, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO customers(first_name, last_name, address, phone, balance)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		c.FirstName, c.LastName, c.Address, c.Phone, c.Balance,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	return scanCustomer(r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id=$1 AND is_deleted=FALSE`, id))
}

func (r *CustomerRepository) List(ctx context.Context, page, perPage int) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+customerColumns+` FROM customers
         WHERE is_deleted=FALSE
         ORDER BY created_at DESC
         LIMIT $1 OFFSET $2`, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM customers WHERE is_deleted=FALSE`).Scan(&n)
	return n, err
}

func (r *CustomerRepository) CountDeleted(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM customers WHERE is_deleted=TRUE`).Scan(&n)
	return n, err
}

func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE customers
         SET first_name=$1, last_name=$2, address=$3, phone=$4, balance=$5, updated_at=NOW()
         WHERE id=$6 AND is_deleted=FALSE`,
		c.FirstName, c.LastName, c.Address, c.Phone, c.Balance, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Adjust atomically applies delta to the balance, refusing to bring it
// below zero. Used by the deposit/withdraw endpoints outside the invoice
// flow.
func (r *CustomerRepository) Adjust(ctx context.Context, id int, delta decimal.Decimal) (*models.Customer, error) {
	c, err := scanCustomer(r.DB.QueryRow(ctx,
		`UPDATE customers
         SET balance = balance + $1, updated_at=NOW()
         WHERE id=$2 AND is_deleted=FALSE AND balance + $1 >= 0
         RETURNING `+customerColumns, delta, id))
	if errors.Is(err, ErrNotFound) {
		// Distinguish a missing customer from a refused withdrawal.
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrBalanceGuard
	}
	return c, err
}

func (r *CustomerRepository) SoftDelete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE customers SET is_deleted=TRUE, updated_at=NOW()
         WHERE id=$1 AND is_deleted=FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
