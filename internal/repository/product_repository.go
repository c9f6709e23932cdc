package repository

import (
	"context"

	"acai-backend/internal/db"
	"acai-backend/internal/domain"
)

type ProductRepository struct {
	DB *db.Postgres
}

const productColumns = `id, name, description, price, category, list_ids, image, available, created_at, updated_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ListIDs, &p.Image, &p.Available, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func (r ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id=$1
	`, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// Save inserts when ID is zero and updates otherwise. The order of ListIDs
// is kept as given.
func (r ProductRepository) Save(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID == 0 {
		row := r.DB.Pool.QueryRow(ctx, `
			INSERT INTO products (name, description, price, category, list_ids, image, available, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7, now(), now())
			RETURNING `+productColumns,
			p.Name, p.Description, p.Price, p.Category, idsOrEmpty(p.ListIDs), p.Image, p.Available)
		return scanProduct(row)
	}
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE products
		SET name=$1,
			description=$2,
			price=$3,
			category=$4,
			list_ids=$5,
			image=$6,
			available=$7,
			updated_at=now()
		WHERE id=$8
		RETURNING `+productColumns,
		p.Name, p.Description, p.Price, p.Category, idsOrEmpty(p.ListIDs), p.Image, p.Available, p.ID)
	out, err := scanProduct(row)
	if err != nil {
		return nil, notFound(err)
	}
	return out, nil
}

func (r ProductRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	return err
}

func (r ProductRepository) UpdateImage(ctx context.Context, id int64, image string) error {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE products
		SET image=$1, updated_at=now()
		WHERE id=$2
	`, image, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// idsOrEmpty avoids writing NULL into NOT NULL array columns.
func idsOrEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
