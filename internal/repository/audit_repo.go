package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

// insertAuditTx пишет запись журнала аудита в рамках уже открытой транзакции.
func insertAuditTx(ctx context.Context, tx pgx.Tx, action models.AuditAction, entity, entityID, details string) error {
	const insertAudit = `
	INSERT INTO audit_log (id, action, entity, entity_id, details)
	VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := tx.Exec(ctx, insertAudit, uuid.NewString(), string(action), entity, entityID, details); err != nil {
		return fmt.Errorf("insert audit_log: %w", err)
	}
	return nil
}

// ListAudit возвращает последние limit записей журнала, новые первыми.
func (s *Storage) ListAudit(ctx context.Context, limit int) ([]*models.AuditEntry, error) {
	const q = `
SELECT id::text, action, entity, entity_id, details, created_at
FROM audit_log
ORDER BY created_at DESC
LIMIT $1
`

	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit_log: %w", err)
	}
	defer rows.Close()

	var result []*models.AuditEntry
	for rows.Next() {
		var (
			entry   models.AuditEntry
			action  string
			created time.Time
		)
		if err := rows.Scan(&entry.Id, &action, &entry.Entity, &entry.EntityId, &entry.Details, &created); err != nil {
			return nil, fmt.Errorf("scan audit_log: %w", err)
		}
		entry.Action = models.AuditAction(action)
		entry.CreatedAt = &created
		result = append(result, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error audit_log: %w", err)
	}
	return result, nil
}
