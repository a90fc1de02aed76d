package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/domain"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

const participantColumns = `id, name, full_name, birth_date, is_active`

// CreateParticipant добавляет участника и записывает присвоенный идентификатор в p.Id.
func (s *Storage) CreateParticipant(ctx context.Context, p *models.Participant) error {
	if p == nil {
		return fmt.Errorf("participant is nil")
	}

	const insertParticipant = `
	INSERT INTO participants (name, full_name, birth_date, is_active)
	VALUES ($1, NULLIF($2, ''), $3, $4)
	RETURNING id
	`

	var id int
	if err := s.pool.QueryRow(ctx, insertParticipant, p.Name, p.FullName, p.BirthDate, p.IsActive).Scan(&id); err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	p.Id = id
	return nil
}

// UpdateParticipant перезаписывает все поля участника.
func (s *Storage) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	if p == nil {
		return fmt.Errorf("participant is nil")
	}

	const updateParticipant = `
	UPDATE participants
	SET name = $2,
		full_name = NULLIF($3, ''),
		birth_date = $4,
		is_active = $5
	WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, updateParticipant, p.Id, p.Name, p.FullName, p.BirthDate, p.IsActive)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("participant %d", p.Id))
	}
	return nil
}

// GetParticipant возвращает участника по идентификатору.
func (s *Storage) GetParticipant(ctx context.Context, id int) (*models.Participant, error) {
	const q = `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`

	rows, err := s.pool.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("query GetParticipant: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, domain.NewNotFoundError(fmt.Sprintf("participant %d", id))
	}

	p, err := scanParticipant(rows)
	if err != nil {
		return nil, fmt.Errorf("scan GetParticipant: %w", err)
	}
	return p, nil
}

// ListParticipants возвращает участников, отсортированных по имени.
func (s *Storage) ListParticipants(ctx context.Context, activeOnly bool) ([]*models.Participant, error) {
	const q = `
SELECT ` + participantColumns + `
FROM participants
WHERE ($1 = FALSE OR is_active)
ORDER BY name, id
`
	return s.queryParticipants(ctx, "ListParticipants", q, activeOnly)
}

// GetParticipantsByIDs достаёт участников с указанными идентификаторами.
// Отсутствующие идентификаторы просто не попадают в результат.
func (s *Storage) GetParticipantsByIDs(ctx context.Context, ids []int) ([]*models.Participant, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const q = `
SELECT ` + participantColumns + `
FROM participants
WHERE id = ANY($1)
ORDER BY id
`
	return s.queryParticipants(ctx, "GetParticipantsByIDs", q, ids)
}

// DeleteParticipant удаляет участника, если на него не ссылается история обменов.
func (s *Storage) DeleteParticipant(ctx context.Context, id int) error {
	const deleteParticipant = `DELETE FROM participants WHERE id = $1`

	tag, err := s.pool.Exec(ctx, deleteParticipant, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return domain.NewParticipantInUseError(id)
		}
		return fmt.Errorf("delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("participant %d", id))
	}
	return nil
}

// queryParticipants выполняет запрос, возвращающий строки participants.
func (s *Storage) queryParticipants(ctx context.Context, op, q string, args ...any) ([]*models.Participant, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error %s: %w", op, err)
	}
	return result, nil
}

// scanParticipant читает одну строку participants; full_name и birth_date могут быть NULL.
func scanParticipant(row rowScanner) (*models.Participant, error) {
	var (
		id        int
		name      string
		fullName  *string
		birthDate *time.Time
		isActive  bool
	)
	if err := row.Scan(&id, &name, &fullName, &birthDate, &isActive); err != nil {
		return nil, err
	}

	p := &models.Participant{
		Id:        id,
		Name:      name,
		BirthDate: birthDate,
		IsActive:  isActive,
	}
	if fullName != nil {
		p.FullName = *fullName
	}
	return p, nil
}
