package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/domain"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/draw"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/metrics"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

// Границы размера страницы журнала аудита.
const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 500
)

type DrawRepository interface {
	ListParticipants(ctx context.Context, activeOnly bool) ([]*models.Participant, error)
	GetParticipantsByIDs(ctx context.Context, ids []int) ([]*models.Participant, error)
	GetAssignmentsByYear(ctx context.Context, year int) ([]models.PriorAssignment, error)
	SaveDraw(ctx context.Context, year int, result *models.DrawResult) error
	DeleteDraw(ctx context.Context, year int) error
	ListHistory(ctx context.Context, year int) ([]*models.HistoryRecord, error)
	ListYears(ctx context.Context) ([]models.YearSummary, error)
	ListAudit(ctx context.Context, limit int) ([]*models.AuditEntry, error)
	GetExchangeStats(ctx context.Context) (*models.ExchangeStats, error)
}

type computeFunc func(participants []models.Participant, previous []models.PriorAssignment, maxAttempts int) (*models.DrawResult, error)

type strictCheckFunc func(participants []models.Participant, previous []models.PriorAssignment, maxAttempts int) (bool, error)

type DrawManager struct {
	repo        DrawRepository
	metrics     metrics.Collector
	maxAttempts int
	compute     computeFunc
	strictCheck strictCheckFunc
}

// NewDrawManager связывает менеджер жеребьёвок с хранилищем и сборщиком метрик.
func NewDrawManager(repo DrawRepository, collector metrics.Collector, maxAttempts int) *DrawManager {
	if collector == nil {
		collector = metrics.NewNop()
	}
	if maxAttempts <= 0 {
		maxAttempts = draw.DefaultMaxAttempts
	}
	return &DrawManager{
		repo:        repo,
		metrics:     collector,
		maxAttempts: maxAttempts,
		compute:     draw.Compute,
		strictCheck: draw.StrictSatisfiable,
	}
}

// Preview проводит жеребьёвку на год, ничего не сохраняя. Повторный вызов даёт новый вариант.
func (dm *DrawManager) Preview(ctx context.Context, body models.PostDrawPreviewJSONBody) (*models.DrawResult, error) {
	if body.Year <= 0 {
		return nil, domain.NewInvalidInputError("year must be a positive number")
	}

	participants, err := dm.loadParticipants(ctx, body.ParticipantIds)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateParticipant) {
			dm.metrics.ObserveDraw(metrics.OutcomeDuplicate, 0, 0)
		}
		return nil, err
	}

	previous, err := dm.repo.GetAssignmentsByYear(ctx, body.Year-1)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw for year %d: %w", body.Year-1, err)
	}

	start := time.Now()
	result, err := dm.compute(participants, previous, dm.maxAttempts)
	elapsed := time.Since(start)
	if err != nil {
		dm.metrics.ObserveDraw(drawOutcome(err), 0, elapsed)
		slog.Warn("draw failed", "year", body.Year, "participants", len(participants), "err", err)
		return nil, err
	}

	outcome := metrics.OutcomeStrict
	if result.Relaxed {
		outcome = metrics.OutcomeRelaxed
	}
	dm.metrics.ObserveDraw(outcome, result.Attempts, elapsed)
	slog.Info("draw computed",
		"year", body.Year,
		"participants", len(participants),
		"relaxed", result.Relaxed,
		"attempts", result.Attempts,
	)

	return result, nil
}

// Commit перепроверяет присланную жеребьёвку и сохраняет её как итог года.
func (dm *DrawManager) Commit(ctx context.Context, body models.PostDrawCommitJSONBody) (*domain.CommitResponse, error) {
	if body.Year <= 0 {
		return nil, domain.NewInvalidInputError("year must be a positive number")
	}
	if len(body.Pairs) == 0 {
		dm.metrics.ObserveCommit(metrics.CommitInvalid)
		return nil, domain.NewInvalidDrawError("draw has no pairs")
	}

	ids := pairParticipantIDs(body.Pairs)
	found, err := dm.repo.GetParticipantsByIDs(ctx, ids)
	if err != nil {
		dm.metrics.ObserveCommit(metrics.CommitError)
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	byID := make(map[int]models.Participant, len(found))
	for _, p := range found {
		byID[p.Id] = *p
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			dm.metrics.ObserveCommit(metrics.CommitInvalid)
			return nil, domain.NewNotFoundError(fmt.Sprintf("participant %d", id))
		}
	}

	participants := make([]models.Participant, 0, len(ids))
	for _, id := range ids {
		participants = append(participants, byID[id])
	}

	previous, err := dm.repo.GetAssignmentsByYear(ctx, body.Year-1)
	if err != nil {
		dm.metrics.ObserveCommit(metrics.CommitError)
		return nil, fmt.Errorf("failed to load draw for year %d: %w", body.Year-1, err)
	}

	result := &models.DrawResult{
		Pairs:   make([]models.Pair, len(body.Pairs)),
		Relaxed: body.Relaxed,
	}
	copy(result.Pairs, body.Pairs)

	if err := draw.Validate(result, participants, previous); err != nil {
		dm.metrics.ObserveCommit(metrics.CommitInvalid)
		return nil, err
	}

	// Ослабленный результат принимаем, только если строгий уровень не находится.
	if result.Relaxed {
		strict, err := dm.strictCheck(participants, previous, dm.maxAttempts)
		if err != nil {
			dm.metrics.ObserveCommit(metrics.CommitError)
			return nil, fmt.Errorf("failed to check strict draw for year %d: %w", body.Year, err)
		}
		if strict {
			dm.metrics.ObserveCommit(metrics.CommitInvalid)
			return nil, domain.NewInvalidDrawError("draw is marked relaxed but a draw without repeats of the previous year exists")
		}
	}

	// Имена и даты берём из хранилища, а не из тела запроса.
	for i, pair := range result.Pairs {
		giver, receiver := byID[pair.ResponsibleId], byID[pair.BirthdayPersonId]
		result.Pairs[i].ResponsibleName = giver.Name
		result.Pairs[i].BirthdayPersonName = receiver.Name
		result.Pairs[i].BirthdayDate = receiver.BirthDate
	}

	if err := dm.repo.SaveDraw(ctx, body.Year, result); err != nil {
		if errors.Is(err, domain.ErrDrawExists) {
			dm.metrics.ObserveCommit(metrics.CommitExists)
			return nil, err
		}
		dm.metrics.ObserveCommit(metrics.CommitError)
		return nil, fmt.Errorf("failed to save draw for year %d: %w", body.Year, err)
	}

	dm.metrics.ObserveCommit(metrics.CommitOK)
	slog.Info("draw committed", "year", body.Year, "pairs", len(result.Pairs), "relaxed", result.Relaxed)

	return &domain.CommitResponse{
		Year:    body.Year,
		Relaxed: result.Relaxed,
		Pairs:   result.Pairs,
	}, nil
}

// DeleteDraw удаляет сохранённую жеребьёвку года, после чего год можно разыграть заново.
func (dm *DrawManager) DeleteDraw(ctx context.Context, year int) error {
	if year <= 0 {
		return domain.NewInvalidInputError("year must be a positive number")
	}
	if err := dm.repo.DeleteDraw(ctx, year); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete draw for year %d: %w", year, err)
	}
	slog.Info("draw deleted", "year", year)
	return nil
}

// History возвращает сохранённые пары года.
func (dm *DrawManager) History(ctx context.Context, year int) ([]*models.HistoryRecord, error) {
	if year <= 0 {
		return nil, domain.NewInvalidInputError("year must be a positive number")
	}
	records, err := dm.repo.ListHistory(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for year %d: %w", year, err)
	}
	if len(records) == 0 {
		return nil, domain.NewNotFoundError(fmt.Sprintf("draw for year %d", year))
	}
	return records, nil
}

// Years перечисляет годы с сохранёнными жеребьёвками.
func (dm *DrawManager) Years(ctx context.Context) ([]models.YearSummary, error) {
	years, err := dm.repo.ListYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}
	if years == nil {
		years = []models.YearSummary{}
	}
	return years, nil
}

// ExchangeStats возвращает агрегированную статистику обменов.
func (dm *DrawManager) ExchangeStats(ctx context.Context) (*models.ExchangeStats, error) {
	stats, err := dm.repo.GetExchangeStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange stats: %w", err)
	}
	return stats, nil
}

// AuditLog возвращает последние записи журнала; limit ограничивается [1, MaxAuditLimit].
func (dm *DrawManager) AuditLog(ctx context.Context, limit int) ([]*models.AuditEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultAuditLimit
	case limit > MaxAuditLimit:
		limit = MaxAuditLimit
	}
	entries, err := dm.repo.ListAudit(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}
	if entries == nil {
		entries = []*models.AuditEntry{}
	}
	return entries, nil
}

// loadParticipants возвращает активных участников либо ровно тех, чьи id переданы.
func (dm *DrawManager) loadParticipants(ctx context.Context, ids []int) ([]models.Participant, error) {
	if len(ids) == 0 {
		active, err := dm.repo.ListParticipants(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("failed to list active participants: %w", err)
		}
		return derefParticipants(active), nil
	}

	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, domain.NewDuplicateParticipantError(id)
		}
		seen[id] = struct{}{}
	}

	found, err := dm.repo.GetParticipantsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	byID := make(map[int]*models.Participant, len(found))
	for _, p := range found {
		byID[p.Id] = p
	}

	// Порядок задаёт запрос клиента.
	participants := make([]models.Participant, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, domain.NewNotFoundError(fmt.Sprintf("participant %d", id))
		}
		participants = append(participants, *p)
	}
	return participants, nil
}

func derefParticipants(list []*models.Participant) []models.Participant {
	out := make([]models.Participant, 0, len(list))
	for _, p := range list {
		out = append(out, *p)
	}
	return out
}

// pairParticipantIDs собирает уникальные id дарителей и получателей в порядке появления.
func pairParticipantIDs(pairs []models.Pair) []int {
	seen := make(map[int]struct{}, len(pairs))
	ids := make([]int, 0, len(pairs))
	add := func(id int) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, pair := range pairs {
		add(pair.ResponsibleId)
		add(pair.BirthdayPersonId)
	}
	return ids
}

func drawOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientParticipants):
		return metrics.OutcomeInsufficient
	case errors.Is(err, domain.ErrDuplicateParticipant):
		return metrics.OutcomeDuplicate
	case errors.Is(err, domain.ErrDrawUnsatisfiable):
		return metrics.OutcomeUnsatisfiable
	default:
		return metrics.OutcomeError
	}
}
