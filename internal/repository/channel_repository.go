package repository

import (
	"context"

	"acai-backend/internal/db"
	"acai-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ChannelRepository stores sales channels.
type ChannelRepository struct {
	DB *db.Postgres
}

const channelColumns = `id, name, commission_percent, payment_fee_percent, fixed_fee, color, is_base, created_at, updated_at`

func scanChannel(row interface{ Scan(dest ...any) error }) (*domain.SalesChannel, error) {
	var c domain.SalesChannel
	if err := row.Scan(&c.ID, &c.Name, &c.CommissionPercent, &c.PaymentFeePercent, &c.FixedFee, &c.Color, &c.IsBase, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns channels in creation order, which is the order pricing
// falls back on when no base channel is flagged.
func (r ChannelRepository) List(ctx context.Context) ([]domain.SalesChannel, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT `+channelColumns+` FROM channels ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.SalesChannel
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Save upserts a channel. Flagging a channel as base clears the flag on
// every other channel in the same transaction.
func (r ChannelRepository) Save(ctx context.Context, c domain.SalesChannel) (*domain.SalesChannel, error) {
	tx, err := r.DB.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if c.Color == "" {
		c.Color = "bg-gray-200"
	}
	out, err := scanChannel(tx.QueryRow(ctx, `
		INSERT INTO channels (id, name, commission_percent, payment_fee_percent, fixed_fee, color, is_base, created_at, updated_at)
		VALUES (COALESCE($1, nextval('channels_id_seq')), $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name,
			commission_percent=EXCLUDED.commission_percent,
			payment_fee_percent=EXCLUDED.payment_fee_percent,
			fixed_fee=EXCLUDED.fixed_fee,
			color=EXCLUDED.color,
			is_base=EXCLUDED.is_base,
			updated_at=now()
		RETURNING `+channelColumns,
		nullableID(c.ID), c.Name, c.CommissionPercent, c.PaymentFeePercent, c.FixedFee, c.Color, c.IsBase))
	if err != nil {
		return nil, err
	}
	if out.IsBase {
		if _, err := tx.Exec(ctx, `UPDATE channels SET is_base=FALSE, updated_at=now() WHERE id<>$1 AND is_base`, out.ID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r ChannelRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `DELETE FROM channels WHERE id=$1`, id)
	return err
}
