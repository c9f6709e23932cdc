package repository

import (
	"context"

	"acai-backend/internal/db"
	"acai-backend/internal/domain"
)

// SupplyRepository stores raw materials used by recipes.
type SupplyRepository struct {
	DB *db.Postgres
}

const supplyColumns = `id, name, category, unit, price, amount, recipe_id, created_at, updated_at`

func scanSupply(row interface{ Scan(dest ...any) error }) (*domain.Supply, error) {
	var (
		s    domain.Supply
		unit string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &unit, &s.Price, &s.Amount, &s.RecipeID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Unit = domain.SupplyUnit(unit)
	return &s, nil
}

func (r SupplyRepository) List(ctx context.Context) ([]domain.Supply, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT `+supplyColumns+` FROM supplies ORDER BY category ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Supply
	for rows.Next() {
		s, err := scanSupply(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func (r SupplyRepository) Save(ctx context.Context, s domain.Supply) (*domain.Supply, error) {
	if s.Category == "" {
		s.Category = "Geral"
	}
	if s.Unit == "" {
		s.Unit = domain.UnitGram
	}
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO supplies (id, name, category, unit, price, amount, created_at, updated_at)
		VALUES (COALESCE($1, nextval('supplies_id_seq')), $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name,
			category=EXCLUDED.category,
			unit=EXCLUDED.unit,
			price=EXCLUDED.price,
			amount=EXCLUDED.amount,
			updated_at=now()
		RETURNING `+supplyColumns,
		nullableID(s.ID), s.Name, s.Category, string(s.Unit), s.Price, s.Amount)
	return scanSupply(row)
}

func (r SupplyRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `DELETE FROM supplies WHERE id=$1`, id)
	return err
}
