package repository

import (
	"context"
	"fmt"
)

// CreateSchema создаёт таблицы приложения. Безопасно вызывать повторно: используется IF NOT EXISTS.
func (s *Storage) CreateSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
-- Participants
CREATE TABLE IF NOT EXISTS participants (
    id SERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    full_name TEXT,
    birth_date DATE,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_participants_active ON participants(is_active);

-- Exchange history: one row per giver per year
CREATE TABLE IF NOT EXISTS exchange_history (
    id BIGSERIAL PRIMARY KEY,
    year INT NOT NULL,
    responsible_id INT NOT NULL REFERENCES participants(id) ON DELETE RESTRICT,
    birthday_person_id INT NOT NULL REFERENCES participants(id) ON DELETE RESTRICT,
    relaxed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CHECK (responsible_id <> birthday_person_id),
    UNIQUE (year, responsible_id),
    UNIQUE (year, birthday_person_id)
);

CREATE INDEX IF NOT EXISTS idx_exchange_history_year ON exchange_history(year);

-- Audit log
CREATE TABLE IF NOT EXISTS audit_log (
    id UUID PRIMARY KEY,
    action TEXT NOT NULL,
    entity TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log(created_at DESC);
`
