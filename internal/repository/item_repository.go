package repository

import (
	"context"

	"acai-backend/internal/db"
	"acai-backend/internal/domain"
)

// ItemRepository stores topping items.
type ItemRepository struct {
	DB *db.Postgres
}

const itemColumns = `id, name, price, image, free, available, created_at, updated_at`

func scanItem(row interface{ Scan(dest ...any) error }) (*domain.ToppingItem, error) {
	var it domain.ToppingItem
	if err := row.Scan(&it.ID, &it.Name, &it.Price, &it.Image, &it.Free, &it.Available, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r ItemRepository) List(ctx context.Context) ([]domain.ToppingItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.ToppingItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (r ItemRepository) Save(ctx context.Context, it domain.ToppingItem) (*domain.ToppingItem, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO items (id, name, price, image, free, available, created_at, updated_at)
		VALUES (COALESCE($1, nextval('items_id_seq')), $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name,
			price=EXCLUDED.price,
			image=EXCLUDED.image,
			free=EXCLUDED.free,
			available=EXCLUDED.available,
			updated_at=now()
		RETURNING `+itemColumns,
		nullableID(it.ID), it.Name, it.Price, it.Image, it.Free, it.Available)
	return scanItem(row)
}

func (r ItemRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `DELETE FROM items WHERE id=$1`, id)
	return err
}
