package repository

import (
	"context"
	"errors"
	"fmt"

	"acai-backend/internal/db"
	"acai-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ErrCannotMove is returned when a category is already first or last.
var ErrCannotMove = errors.New("category cannot move further")

type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

type CategoryRepository struct {
	DB *db.Postgres
}

func (r CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, sort_order, created_at, updated_at
		FROM categories
		ORDER BY sort_order ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Save inserts a new category at the end of the ordering or renames an
// existing one.
func (r CategoryRepository) Save(ctx context.Context, c domain.Category) (*domain.Category, error) {
	var out domain.Category
	var err error
	if c.ID == 0 {
		err = r.DB.Pool.QueryRow(ctx, `
			INSERT INTO categories (name, sort_order, created_at, updated_at)
			VALUES ($1, (SELECT count(*) + 1 FROM categories), now(), now())
			RETURNING id, name, sort_order, created_at, updated_at
		`, c.Name).Scan(&out.ID, &out.Name, &out.SortOrder, &out.CreatedAt, &out.UpdatedAt)
	} else {
		err = r.DB.Pool.QueryRow(ctx, `
			UPDATE categories SET name=$1, updated_at=now()
			WHERE id=$2
			RETURNING id, name, sort_order, created_at, updated_at
		`, c.Name, c.ID).Scan(&out.ID, &out.Name, &out.SortOrder, &out.CreatedAt, &out.UpdatedAt)
	}
	if err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (r CategoryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	return err
}

func (r CategoryRepository) Get(ctx context.Context, id int64) (*domain.Category, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, sort_order, created_at, updated_at
		FROM categories
		WHERE id=$1
	`, id)
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Move swaps the sort order of a category with its neighbour in the given
// direction. Both rows are updated in one transaction.
func (r CategoryRepository) Move(ctx context.Context, id int64, dir MoveDirection) error {
	tx, err := r.DB.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT id, sort_order FROM categories ORDER BY sort_order ASC, id ASC FOR UPDATE`)
	if err != nil {
		return err
	}
	var ordered []categorySlot
	for rows.Next() {
		var s categorySlot
		if err := rows.Scan(&s.ID, &s.Order); err != nil {
			rows.Close()
			return err
		}
		ordered = append(ordered, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	updates, err := planMove(ordered, id, dir)
	if err != nil {
		return err
	}
	for _, u := range updates {
		if _, err := tx.Exec(ctx, `UPDATE categories SET sort_order=$1, updated_at=now() WHERE id=$2`, u.Order, u.ID); err != nil {
			return fmt.Errorf("move category: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// categorySlot is a category id with its sort order.
type categorySlot struct {
	ID    int64
	Order int
}

// planMove returns the sort order updates that move id one step in dir.
// ordered must be sorted by (sort_order, id). When sort orders are strictly
// increasing only the two neighbours swap; otherwise every category is
// renumbered 1..n by position with the pair swapped, so the result is
// always a total order.
func planMove(ordered []categorySlot, id int64, dir MoveDirection) ([]categorySlot, error) {
	idx := -1
	for i, s := range ordered {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}
	target := idx - 1
	if dir == MoveDown {
		target = idx + 1
	}
	if target < 0 || target >= len(ordered) {
		return nil, ErrCannotMove
	}

	strict := true
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Order <= ordered[i-1].Order {
			strict = false
			break
		}
	}
	a, b := ordered[idx], ordered[target]
	if strict {
		return []categorySlot{{ID: a.ID, Order: b.Order}, {ID: b.ID, Order: a.Order}}, nil
	}

	var updates []categorySlot
	for i, s := range ordered {
		pos := i
		switch i {
		case idx:
			pos = target
		case target:
			pos = idx
		}
		if s.Order != pos+1 {
			updates = append(updates, categorySlot{ID: s.ID, Order: pos + 1})
		}
	}
	return updates, nil
}
