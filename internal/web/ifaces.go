package web

import (
	"context"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/domain"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

// ParticipantService описывает операции над участниками, которые нужны HTTP-слою.
type ParticipantService interface {
	AddParticipant(ctx context.Context, body models.PostParticipantAddJSONBody) (*models.Participant, error)
	UpdateParticipant(ctx context.Context, body models.PostParticipantUpdateJSONBody) (*models.Participant, error)
	GetParticipant(ctx context.Context, id int) (*models.Participant, error)
	ListParticipants(ctx context.Context, activeOnly bool) ([]*models.Participant, error)
	SetParticipantActivity(ctx context.Context, id int, isActive bool) (*models.Participant, error)
	RemoveParticipant(ctx context.Context, id int) error
}

// DrawService объединяет жеребьёвку, историю, статистику и аудит.
type DrawService interface {
	Preview(ctx context.Context, body models.PostDrawPreviewJSONBody) (*models.DrawResult, error)
	Commit(ctx context.Context, body models.PostDrawCommitJSONBody) (*domain.CommitResponse, error)
	DeleteDraw(ctx context.Context, year int) error
	History(ctx context.Context, year int) ([]*models.HistoryRecord, error)
	Years(ctx context.Context) ([]models.YearSummary, error)
	ExchangeStats(ctx context.Context) (*models.ExchangeStats, error)
	AuditLog(ctx context.Context, limit int) ([]*models.AuditEntry, error)
}
