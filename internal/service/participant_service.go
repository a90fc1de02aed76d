package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/domain"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

// ParticipantNumber начальная ёмкость кэша участников.
const ParticipantNumber = 64

const birthDateLayout = "2006-01-02"

type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, p *models.Participant) error
	UpdateParticipant(ctx context.Context, p *models.Participant) error
	GetParticipant(ctx context.Context, id int) (*models.Participant, error)
	ListParticipants(ctx context.Context, activeOnly bool) ([]*models.Participant, error)
	DeleteParticipant(ctx context.Context, id int) error
}

type ParticipantManager struct {
	repo         ParticipantRepository
	validate     *validator.Validate
	participants map[int]*models.Participant
	mu           sync.RWMutex
}

// NewParticipantManager создаёт менеджер участников с кэшем в памяти.
func NewParticipantManager(repo ParticipantRepository) *ParticipantManager {
	return &ParticipantManager{
		repo:         repo,
		validate:     validator.New(),
		participants: make(map[int]*models.Participant, ParticipantNumber),
		mu:           sync.RWMutex{},
	}
}

// AddParticipant проверяет тело запроса, сохраняет участника и кладёт его в кэш.
func (pm *ParticipantManager) AddParticipant(ctx context.Context, body models.PostParticipantAddJSONBody) (*models.Participant, error) {
	body.Name = strings.TrimSpace(body.Name)
	body.FullName = strings.TrimSpace(body.FullName)
	if err := pm.validate.Struct(body); err != nil {
		return nil, domain.NewInvalidInputError(validationMessage(err))
	}

	birthDate, err := parseBirthDate(body.BirthDate)
	if err != nil {
		return nil, err
	}

	p := &models.Participant{
		Name:      body.Name,
		FullName:  body.FullName,
		BirthDate: birthDate,
		IsActive:  true,
	}
	if body.IsActive != nil {
		p.IsActive = *body.IsActive
	}

	if err := pm.repo.CreateParticipant(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to persist participant %q: %w", p.Name, err)
	}

	pm.cache(p)
	slog.Info("participant added", "id", p.Id, "name", p.Name)
	return p, nil
}

// UpdateParticipant меняет имя, полное имя и дату рождения; активность не трогает.
func (pm *ParticipantManager) UpdateParticipant(ctx context.Context, body models.PostParticipantUpdateJSONBody) (*models.Participant, error) {
	body.Name = strings.TrimSpace(body.Name)
	body.FullName = strings.TrimSpace(body.FullName)
	if err := pm.validate.Struct(body); err != nil {
		return nil, domain.NewInvalidInputError(validationMessage(err))
	}

	birthDate, err := parseBirthDate(body.BirthDate)
	if err != nil {
		return nil, err
	}

	current, err := pm.GetParticipant(ctx, body.Id)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Name = body.Name
	updated.FullName = body.FullName
	updated.BirthDate = birthDate

	if err := pm.repo.UpdateParticipant(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update participant %d: %w", body.Id, err)
	}

	pm.cache(&updated)
	return &updated, nil
}

// GetParticipant возвращает участника из кэша, при промахе подгружает его из репозитория.
func (pm *ParticipantManager) GetParticipant(ctx context.Context, id int) (*models.Participant, error) {
	pm.mu.RLock()
	p, exists := pm.participants[id]
	pm.mu.RUnlock()
	if exists {
		cp := *p
		return &cp, nil
	}

	p, err := pm.repo.GetParticipant(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("participant %d", id))
		}
		return nil, fmt.Errorf("failed to get participant from repository: %w", err)
	}

	pm.cache(p)
	return p, nil
}

// ListParticipants читает участников напрямую из репозитория и обновляет кэш.
func (pm *ParticipantManager) ListParticipants(ctx context.Context, activeOnly bool) ([]*models.Participant, error) {
	list, err := pm.repo.ListParticipants(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	pm.mu.Lock()
	for _, p := range list {
		cp := *p
		pm.participants[p.Id] = &cp
	}
	pm.mu.Unlock()

	return list, nil
}

// SetParticipantActivity включает или исключает участника из жеребьёвок по умолчанию.
func (pm *ParticipantManager) SetParticipantActivity(ctx context.Context, id int, isActive bool) (*models.Participant, error) {
	current, err := pm.GetParticipant(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsActive == isActive {
		return current, nil
	}

	updated := *current
	updated.IsActive = isActive
	if err := pm.repo.UpdateParticipant(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to save participant: %w", err)
	}

	pm.cache(&updated)
	return &updated, nil
}

// RemoveParticipant удаляет участника без истории обменов.
func (pm *ParticipantManager) RemoveParticipant(ctx context.Context, id int) error {
	if err := pm.repo.DeleteParticipant(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrParticipantInUse) {
			return err
		}
		return fmt.Errorf("failed to remove participant %d: %w", id, err)
	}

	pm.mu.Lock()
	delete(pm.participants, id)
	pm.mu.Unlock()

	slog.Info("participant removed", "id", id)
	return nil
}

// cache кладёт в кэш копию участника, чтобы вызывающий не мог изменить её снаружи.
func (pm *ParticipantManager) cache(p *models.Participant) {
	cp := *p
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.participants[p.Id] = &cp
}

func parseBirthDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(birthDateLayout, raw)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("birth_date must match %s", birthDateLayout))
	}
	return &t, nil
}

// validationMessage превращает ошибки validator в короткое сообщение для клиента.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("field %s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("field %s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
