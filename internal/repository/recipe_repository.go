package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"acai-backend/internal/db"
	"acai-backend/internal/domain"
	"acai-backend/internal/pricing"
	"github.com/jackc/pgx/v5"
)

// RecipeRepository stores recipes. Ingredients are kept as a JSONB snapshot
// so later supply price changes do not rewrite saved costs.
type RecipeRepository struct {
	DB *db.Postgres
}

const recipeColumns = `id, name, ingredients, profit_percent, operational_percent, pricing_mode, manual_prices,
	is_reusable, yield_amount, yield_unit, instructions, created_at, updated_at`

func scanRecipe(row interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var (
		rc          domain.Recipe
		ingredients []byte
		manual      []byte
		mode        string
	)
	if err := row.Scan(&rc.ID, &rc.Name, &ingredients, &rc.ProfitPercent, &rc.OperationalPercent, &mode, &manual,
		&rc.IsReusable, &rc.YieldAmount, &rc.YieldUnit, &rc.Instructions, &rc.CreatedAt, &rc.UpdatedAt); err != nil {
		return nil, err
	}
	rc.PricingMode = domain.PricingMode(mode)
	if len(ingredients) > 0 {
		if err := json.Unmarshal(ingredients, &rc.Ingredients); err != nil {
			return nil, fmt.Errorf("decode ingredients of recipe %d: %w", rc.ID, err)
		}
	}
	if len(manual) > 0 {
		if err := json.Unmarshal(manual, &rc.ManualPrices); err != nil {
			return nil, fmt.Errorf("decode manual prices of recipe %d: %w", rc.ID, err)
		}
	}
	return &rc, nil
}

func (r RecipeRepository) List(ctx context.Context) ([]domain.Recipe, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Recipe
	for rows.Next() {
		rc, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rc)
	}
	return items, rows.Err()
}

func (r RecipeRepository) Get(ctx context.Context, id int64) (*domain.Recipe, error) {
	rc, err := scanRecipe(r.DB.Pool.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return rc, nil
}

// Save upserts the recipe and, for reusable recipes with a yield, the
// supply it produces. A recipe that stops being reusable keeps its supply
// row so recipes already using it stay intact.
func (r RecipeRepository) Save(ctx context.Context, rc domain.Recipe) (*domain.Recipe, error) {
	if rc.PricingMode == "" {
		rc.PricingMode = domain.PricingFull
	}
	ingredients := rc.Ingredients
	if ingredients == nil {
		ingredients = []domain.RecipeIngredient{}
	}
	ingJSON, err := json.Marshal(ingredients)
	if err != nil {
		return nil, err
	}
	manual := rc.ManualPrices
	if manual == nil {
		manual = map[int64]float64{}
	}
	manualJSON, err := json.Marshal(manual)
	if err != nil {
		return nil, err
	}

	tx, err := r.DB.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out, err := scanRecipe(tx.QueryRow(ctx, `
		INSERT INTO recipes (id, name, ingredients, profit_percent, operational_percent, pricing_mode, manual_prices,
		                     is_reusable, yield_amount, yield_unit, instructions, created_at, updated_at)
		VALUES (COALESCE($1, nextval('recipes_id_seq')), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name,
			ingredients=EXCLUDED.ingredients,
			profit_percent=EXCLUDED.profit_percent,
			operational_percent=EXCLUDED.operational_percent,
			pricing_mode=EXCLUDED.pricing_mode,
			manual_prices=EXCLUDED.manual_prices,
			is_reusable=EXCLUDED.is_reusable,
			yield_amount=EXCLUDED.yield_amount,
			yield_unit=EXCLUDED.yield_unit,
			instructions=EXCLUDED.instructions,
			updated_at=now()
		RETURNING `+recipeColumns,
		nullableID(rc.ID), rc.Name, ingJSON, rc.ProfitPercent, rc.OperationalPercent, string(rc.PricingMode), manualJSON,
		rc.IsReusable, rc.YieldAmount, rc.YieldUnit, rc.Instructions))
	if err != nil {
		return nil, err
	}

	if s, ok := pricing.ReusableSupply(*out); ok {
		_, err = tx.Exec(ctx, `
			INSERT INTO supplies (name, category, unit, price, amount, recipe_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			ON CONFLICT (recipe_id) DO UPDATE SET
				name=EXCLUDED.name,
				category=EXCLUDED.category,
				unit=EXCLUDED.unit,
				price=EXCLUDED.price,
				amount=EXCLUDED.amount,
				updated_at=now()
		`, s.Name, s.Category, string(s.Unit), s.Price, s.Amount, s.RecipeID)
		if err != nil {
			return nil, fmt.Errorf("sync reusable supply: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r RecipeRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `DELETE FROM recipes WHERE id=$1`, id)
	return err
}
