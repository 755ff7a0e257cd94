package database

import (
	"context"
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
  id            BIGSERIAL PRIMARY KEY,
  name          TEXT NOT NULL,
  email         TEXT UNIQUE,
  password_hash TEXT NOT NULL,
  role          TEXT NOT NULL DEFAULT 'user',
  address       TEXT,
  phone         TEXT,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS books (
  id           BIGSERIAL PRIMARY KEY,
  title        TEXT NOT NULL,
  author       TEXT NOT NULL,
  category     TEXT,
  stock        BIGINT NOT NULL DEFAULT 0 CHECK (stock >= 0),
  is_rented    BOOLEAN NOT NULL DEFAULT false,
  avg_rating   DOUBLE PRECISION NOT NULL DEFAULT 0,
  rating_count BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS rentals (
  id               BIGSERIAL PRIMARY KEY,
  user_id          TEXT NOT NULL,
  book_id          BIGINT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
  book_title       TEXT NOT NULL,
  renter_name      TEXT NOT NULL,
  renter_address   TEXT NOT NULL,
  renter_phone     TEXT NOT NULL,
  rental_date      TIMESTAMPTZ NOT NULL,
  due_date         TIMESTAMPTZ NOT NULL,
  return_date      TIMESTAMPTZ,
  returned         BOOLEAN NOT NULL DEFAULT false,
  late_fee_charged DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_rentals_user_open ON rentals (user_id) WHERE returned = false;
CREATE INDEX IF NOT EXISTS idx_rentals_book_user ON rentals (book_id, user_id);
CREATE INDEX IF NOT EXISTS idx_rentals_due_open ON rentals (due_date) WHERE returned = false;

CREATE TABLE IF NOT EXISTS reviews (
  id          BIGSERIAL PRIMARY KEY,
  book_id     BIGINT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
  user_id     TEXT NOT NULL,
  renter_name TEXT NOT NULL,
  rating      INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
  review      TEXT,
  rental_date TIMESTAMPTZ,
  return_date TIMESTAMPTZ,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_reviews_book ON reviews (book_id, created_at DESC);

CREATE TABLE IF NOT EXISTS settings (
  id               INT PRIMARY KEY,
  late_fee_per_day DOUBLE PRECISION NOT NULL DEFAULT 0
);
`

// Migrate applies the schema. Every statement is idempotent so it runs
// unconditionally at startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
