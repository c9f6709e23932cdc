package repository

import "context"

// SeedDefaults creates the counter and iFood channels on an empty table.
func (r ChannelRepository) SeedDefaults(ctx context.Context) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO channels (name, commission_percent, payment_fee_percent, fixed_fee, color, is_base, created_at, updated_at)
		SELECT v.name, v.commission, v.payment, v.fixed, v.color, v.is_base, now(), now()
		FROM (VALUES
			('Balcão', 0::float8, 0::float8, 0::float8, 'bg-purple-600', TRUE),
			('iFood', 23::float8, 3.2::float8, 0::float8, 'bg-red-500', FALSE)
		) AS v(name, commission, payment, fixed, color, is_base)
		WHERE NOT EXISTS (SELECT 1 FROM channels)
	`)
	return err
}
