// internal/store/schema.go
package store

import (
	"context"

	"franchise-pos/internal/models"
)

// schema is applied in order on startup. Every statement is idempotent.
// Idempotency keys are unique per franchise, matching the lookup in
// CreateBill.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id           text PRIMARY KEY,
		email        text NOT NULL,
		franchise_id text,
		created_at   timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id           text PRIMARY KEY,
		name         text NOT NULL,
		price        numeric(12,2) NOT NULL,
		category     text NOT NULL DEFAULT '',
		franchise_id text NOT NULL,
		created_by   text,
		created_at   timestamptz NOT NULL DEFAULT now(),
		updated_at   timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS generated_bills (
		id              text PRIMARY KEY,
		created_at      timestamptz NOT NULL,
		total           numeric(12,2) NOT NULL,
		mode_payment    text NOT NULL,
		franchise_id    text NOT NULL,
		idempotency_key text
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS generated_bills_franchise_idempotency_key
		ON generated_bills (franchise_id, idempotency_key)`,
	`CREATE INDEX IF NOT EXISTS generated_bills_franchise_created_at
		ON generated_bills (franchise_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS bill_items (
		id           bigserial PRIMARY KEY,
		bill_id      text NOT NULL REFERENCES generated_bills (id) ON DELETE CASCADE,
		menu_item_id text,
		item_name    text NOT NULL,
		qty          integer NOT NULL,
		price        numeric(12,2) NOT NULL,
		franchise_id text NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS bill_items_franchise_bill
		ON bill_items (franchise_id, bill_id)`,
}

// EnsureSchema creates the POS tables and indexes that do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return queryError(ctx, models.QueryTypeSchema, err)
		}
	}
	s.logger.Debug("schema ensured", map[string]interface{}{"statements": len(schema)})
	return nil
}
