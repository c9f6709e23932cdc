package repository

import (
	"context"

	"acai-backend/internal/db"
	"acai-backend/internal/domain"
)

type CustomerRepository struct {
	DB *db.Postgres
}

const customerColumns = `id, name, phone, address_cep, address_number, address_full, last_order_date, created_at, updated_at`

func scanCustomer(row interface{ Scan(dest ...any) error }) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.AddressCEP, &c.AddressNumber, &c.AddressFull, &c.LastOrderAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns customers with the most recent buyers first.
func (r CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		ORDER BY last_order_date DESC NULLS LAST, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Save creates or edits a customer from the admin screen. The phone is
// stored normalized.
func (r CustomerRepository) Save(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO customers (id, name, phone, address_cep, address_number, address_full, last_order_date, created_at, updated_at)
		VALUES (COALESCE($1, nextval('customers_id_seq')), $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name,
			phone=EXCLUDED.phone,
			address_cep=EXCLUDED.address_cep,
			address_number=EXCLUDED.address_number,
			address_full=EXCLUDED.address_full,
			updated_at=now()
		RETURNING `+customerColumns,
		nullableID(c.ID), c.Name, domain.NormalizePhone(c.Phone), domain.NormalizeCEP(c.AddressCEP), c.AddressNumber, c.AddressFull, c.LastOrderAt)
	out, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err)
	}
	return out, nil
}

// UpsertByPhone records a checkout. Customers are keyed by normalized phone
// so repeat orders update the same row.
func (r CustomerRepository) UpsertByPhone(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO customers (name, phone, address_cep, address_number, address_full, last_order_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (phone) DO UPDATE SET
			name=EXCLUDED.name,
			address_cep=EXCLUDED.address_cep,
			address_number=EXCLUDED.address_number,
			address_full=EXCLUDED.address_full,
			last_order_date=EXCLUDED.last_order_date,
			updated_at=now()
		RETURNING `+customerColumns,
		c.Name, domain.NormalizePhone(c.Phone), domain.NormalizeCEP(c.AddressCEP), c.AddressNumber, c.AddressFull, c.LastOrderAt)
	return scanCustomer(row)
}

func (r CustomerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE phone=$1
	`, domain.NormalizePhone(phone))
	c, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r CustomerRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	return err
}
