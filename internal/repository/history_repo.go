package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/domain"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

// GetAssignmentsByYear возвращает пары жеребьёвки указанного года (пусто, если её не было).
func (s *Storage) GetAssignmentsByYear(ctx context.Context, year int) ([]models.PriorAssignment, error) {
	const q = `
	SELECT responsible_id, birthday_person_id
	FROM exchange_history
	WHERE year = $1
	ORDER BY responsible_id
	`

	rows, err := s.pool.Query(ctx, q, year)
	if err != nil {
		return nil, fmt.Errorf("query exchange_history by year: %w", err)
	}
	defer rows.Close()

	var result []models.PriorAssignment
	for rows.Next() {
		var a models.PriorAssignment
		if err := rows.Scan(&a.ResponsibleId, &a.BirthdayPersonId); err != nil {
			return nil, fmt.Errorf("scan exchange_history by year: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error exchange_history by year: %w", err)
	}
	return result, nil
}

// SaveDraw сохраняет все пары жеребьёвки и запись аудита в одной транзакции.
func (s *Storage) SaveDraw(ctx context.Context, year int, result *models.DrawResult) (err error) {
	if result == nil {
		return fmt.Errorf("draw result is nil")
	}
	if len(result.Pairs) == 0 {
		return fmt.Errorf("draw result has no pairs")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback tx: %w", rollbackErr))
			}
		}
	}()

	const qExists = `SELECT EXISTS (SELECT 1 FROM exchange_history WHERE year = $1)`
	var exists bool
	if err := tx.QueryRow(ctx, qExists, year).Scan(&exists); err != nil {
		return fmt.Errorf("check draw exists: %w", err)
	}
	if exists {
		return domain.NewDrawExistsError(year)
	}

	const insertPair = `
	INSERT INTO exchange_history (year, responsible_id, birthday_person_id, relaxed)
	VALUES ($1, $2, $3, $4)
	`
	for _, pair := range result.Pairs {
		if _, err := tx.Exec(ctx, insertPair, year, pair.ResponsibleId, pair.BirthdayPersonId, result.Relaxed); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				// Параллельное сохранение того же года.
				return domain.NewDrawExistsError(year)
			}
			return fmt.Errorf("insert exchange_history (%d -> %d): %w", pair.ResponsibleId, pair.BirthdayPersonId, err)
		}
	}

	details := fmt.Sprintf("pairs=%d relaxed=%t", len(result.Pairs), result.Relaxed)
	if err := insertAuditTx(ctx, tx, models.AuditActionDrawCommitted, "draw", strconv.Itoa(year), details); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// DeleteDraw удаляет жеребьёвку года и фиксирует это в журнале аудита.
func (s *Storage) DeleteDraw(ctx context.Context, year int) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback tx: %w", rollbackErr))
			}
		}
	}()

	const deleteYear = `DELETE FROM exchange_history WHERE year = $1`
	tag, err := tx.Exec(ctx, deleteYear, year)
	if err != nil {
		return fmt.Errorf("delete exchange_history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("draw for year %d", year))
	}

	details := fmt.Sprintf("pairs=%d", tag.RowsAffected())
	if err := insertAuditTx(ctx, tx, models.AuditActionDrawDeleted, "draw", strconv.Itoa(year), details); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// ListHistory возвращает пары указанного года вместе с именами участников.
func (s *Storage) ListHistory(ctx context.Context, year int) ([]*models.HistoryRecord, error) {
	const q = `
SELECT
    h.id,
    h.year,
    h.responsible_id,
    COALESCE(r.name, ''),
    h.birthday_person_id,
    COALESCE(b.name, ''),
    h.relaxed,
    h.created_at
FROM exchange_history h
LEFT JOIN participants r ON r.id = h.responsible_id
LEFT JOIN participants b ON b.id = h.birthday_person_id
WHERE h.year = $1
ORDER BY r.name, h.responsible_id
`

	rows, err := s.pool.Query(ctx, q, year)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var result []*models.HistoryRecord
	for rows.Next() {
		var (
			rec     models.HistoryRecord
			created *time.Time
		)
		if err := rows.Scan(
			&rec.Id,
			&rec.Year,
			&rec.ResponsibleId,
			&rec.ResponsibleName,
			&rec.BirthdayPersonId,
			&rec.BirthdayPersonName,
			&rec.Relaxed,
			&created,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.CreatedAt = created
		result = append(result, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// ListYears возвращает годы, за которые сохранены жеребьёвки, начиная с последнего.
func (s *Storage) ListYears(ctx context.Context) ([]models.YearSummary, error) {
	const q = `
SELECT year, COUNT(*) AS pairs, BOOL_OR(relaxed) AS relaxed
FROM exchange_history
GROUP BY year
ORDER BY year DESC
`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query years: %w", err)
	}
	defer rows.Close()

	var result []models.YearSummary
	for rows.Next() {
		var (
			year    int
			pairs   int64
			relaxed bool
		)
		if err := rows.Scan(&year, &pairs, &relaxed); err != nil {
			return nil, fmt.Errorf("scan years: %w", err)
		}
		result = append(result, models.YearSummary{
			Year:    year,
			Pairs:   int(pairs),
			Relaxed: relaxed,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("years rows: %w", err)
	}
	return result, nil
}
