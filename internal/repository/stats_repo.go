package repository

import (
	"context"
	"fmt"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

// GetExchangeStats собирает статистику обменов по участникам и по годам.
func (s *Storage) GetExchangeStats(ctx context.Context) (*models.ExchangeStats, error) {
	byParticipant, err := s.participantExchangeStats(ctx)
	if err != nil {
		return nil, err
	}

	byYear, err := s.ListYears(ctx)
	if err != nil {
		return nil, err
	}

	return &models.ExchangeStats{
		ByParticipant: byParticipant,
		ByYear:        byYear,
	}, nil
}

func (s *Storage) participantExchangeStats(ctx context.Context) ([]models.ParticipantExchangeStat, error) {
	const q = `
SELECT
    p.id,
    p.name,
    COUNT(h.id) FILTER (WHERE h.responsible_id = p.id) AS given,
    COUNT(h.id) FILTER (WHERE h.birthday_person_id = p.id) AS received
FROM participants p
LEFT JOIN exchange_history h
    ON h.responsible_id = p.id OR h.birthday_person_id = p.id
GROUP BY p.id, p.name
ORDER BY given DESC, p.name
`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query participant stats: %w", err)
	}
	defer rows.Close()

	var result []models.ParticipantExchangeStat
	for rows.Next() {
		var (
			stat     models.ParticipantExchangeStat
			given    int64
			received int64
		)
		if err := rows.Scan(&stat.ParticipantId, &stat.Name, &given, &received); err != nil {
			return nil, fmt.Errorf("scan participant stats: %w", err)
		}
		stat.Given = int(given)
		stat.Received = int(received)
		result = append(result, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("participant stats rows: %w", err)
	}
	return result, nil
}
