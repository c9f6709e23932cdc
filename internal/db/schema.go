package db

import (
	"context"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL UNIQUE,
	role TEXT NOT NULL DEFAULT 'admin',
	password_hash TEXT,
	is_google BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS categories (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	sort_order INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS items (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	price DOUBLE PRECISION NOT NULL DEFAULT 0,
	image TEXT NOT NULL DEFAULT '',
	free BOOLEAN NOT NULL DEFAULT FALSE,
	available BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS lists (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	item_ids BIGINT[] NOT NULL DEFAULT '{}',
	max_free INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS products (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price DOUBLE PRECISION NOT NULL DEFAULT 0,
	category TEXT NOT NULL DEFAULT '',
	list_ids BIGINT[] NOT NULL DEFAULT '{}',
	image TEXT NOT NULL DEFAULT '',
	available BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS customers (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL UNIQUE,
	address_cep TEXT NOT NULL DEFAULT '',
	address_number TEXT NOT NULL DEFAULT '',
	address_full TEXT NOT NULL DEFAULT '',
	last_order_date TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS supplies (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT 'Geral',
	unit TEXT NOT NULL DEFAULT 'g',
	price DOUBLE PRECISION NOT NULL DEFAULT 0,
	amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	recipe_id BIGINT UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS recipes (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	ingredients JSONB NOT NULL DEFAULT '[]',
	profit_percent DOUBLE PRECISION NOT NULL DEFAULT 20,
	operational_percent DOUBLE PRECISION NOT NULL DEFAULT 30,
	pricing_mode TEXT NOT NULL DEFAULT 'full',
	manual_prices JSONB NOT NULL DEFAULT '{}',
	is_reusable BOOLEAN NOT NULL DEFAULT FALSE,
	yield_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	yield_unit TEXT NOT NULL DEFAULT '',
	instructions TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS channels (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	commission_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
	payment_fee_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
	fixed_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
	color TEXT NOT NULL DEFAULT 'bg-gray-200',
	is_base BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates missing tables. Statements are idempotent.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
