package repository

import (
	"context"

	"acai-backend/internal/db"
	"acai-backend/internal/domain"
)

// ListRepository stores topping lists.
type ListRepository struct {
	DB *db.Postgres
}

const listColumns = `id, name, item_ids, max_free, created_at, updated_at`

func scanList(row interface{ Scan(dest ...any) error }) (*domain.ToppingList, error) {
	var l domain.ToppingList
	if err := row.Scan(&l.ID, &l.Name, &l.ItemIDs, &l.MaxFree, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r ListRepository) List(ctx context.Context) ([]domain.ToppingList, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT `+listColumns+` FROM lists ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.ToppingList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

func (r ListRepository) Save(ctx context.Context, l domain.ToppingList) (*domain.ToppingList, error) {
	if l.MaxFree < 0 {
		l.MaxFree = 0
	}
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO lists (id, name, item_ids, max_free, created_at, updated_at)
		VALUES (COALESCE($1, nextval('lists_id_seq')), $2, $3, $4, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name,
			item_ids=EXCLUDED.item_ids,
			max_free=EXCLUDED.max_free,
			updated_at=now()
		RETURNING `+listColumns,
		nullableID(l.ID), l.Name, idsOrEmpty(l.ItemIDs), l.MaxFree)
	return scanList(row)
}

func (r ListRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `DELETE FROM lists WHERE id=$1`, id)
	return err
}
