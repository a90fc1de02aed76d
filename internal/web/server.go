package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AlekseyZapadovnikov/gift-exchange/conf"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/domain"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

type Server struct {
	Address string
	server  *http.Server

	router             *chi.Mux
	participantService ParticipantService
	drawService        DrawService
	metricsHandler     http.Handler
}

// New конструирует HTTP-сервер на базе chi и регистрирует все маршруты.
// metricsHandler может быть nil, тогда /metrics не публикуется.
func New(cfg conf.HttpServConf, participants ParticipantService, draws DrawService, metricsHandler http.Handler) *Server {
	servAdres := cfg.GetAddress()
	mux := chi.NewMux()
	srv := &Server{
		Address:            servAdres,
		router:             mux,
		participantService: participants,
		drawService:        draws,
		metricsHandler:     metricsHandler,
	}
	srv.server = &http.Server{
		Addr:              servAdres,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv.setupRoutes()

	return srv
}

// Start запускает HTTP-сервер и блокирует поток до остановки.
func (s *Server) Start() error {
	slog.Info("server starting", "address", s.server.Addr)
	return s.server.ListenAndServe()
}

// Handler возвращает корневой обработчик со всеми маршрутами.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes настраивает middleware и HTTP-маршруты.
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// Простейший health-check.
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.metricsHandler != nil {
		s.router.Handle("/metrics", s.metricsHandler)
	}

	// Участники.
	s.router.Post("/participants/add", s.handleParticipantAdd)
	s.router.Post("/participants/update", s.handleParticipantUpdate)
	s.router.Get("/participants/get", s.handleParticipantGet)
	s.router.Get("/participants/list", s.handleParticipantList)
	s.router.Post("/participants/setIsActive", s.handleParticipantSetActivity)
	s.router.Post("/participants/remove", s.handleParticipantRemove)

	// Жеребьёвка.
	s.router.Post("/draw/preview", s.handleDrawPreview)
	s.router.Post("/draw/commit", s.handleDrawCommit)
	s.router.Post("/draw/delete", s.handleDrawDelete)

	// История, статистика и аудит.
	s.router.Get("/history/get", s.handleHistoryGet)
	s.router.Get("/history/years", s.handleHistoryYears)
	s.router.Get("/stats/exchanges", s.handleExchangeStats)
	s.router.Get("/audit/list", s.handleAuditList)
}

// Shutdown останавливает HTTP-сервер с таймаутом на корректное завершение.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// ---------- утилитарные функции ----------

// writeJSON сериализует структуру в JSON-ответ с нужным статусом.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// mapDomainError переводит доменные ошибки в HTTP-статусы и коды ответа.
func mapDomainError(err error) (status int, code, msg string) {
	if err == nil {
		return http.StatusOK, "", ""
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientParticipants):
		return http.StatusBadRequest, string(models.INSUFFICIENTPARTICIPANTS), err.Error()
	case errors.Is(err, domain.ErrDuplicateParticipant):
		return http.StatusBadRequest, string(models.DUPLICATEPARTICIPANT), err.Error()
	case errors.Is(err, domain.ErrDrawUnsatisfiable):
		return http.StatusConflict, string(models.DRAWUNSATISFIABLE), err.Error()
	case errors.Is(err, domain.ErrInvalidDraw):
		return http.StatusBadRequest, string(models.INVALIDDRAW), err.Error()
	case errors.Is(err, domain.ErrDrawExists):
		return http.StatusConflict, string(models.DRAWEXISTS), err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, string(models.NOTFOUND), err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, string(models.INVALIDINPUT), err.Error()
	case errors.Is(err, domain.ErrParticipantInUse):
		return http.StatusConflict, string(models.PARTICIPANTINUSE), err.Error()
	default:
		slog.Warn("unmapped domain error", "err", err.Error())
		return http.StatusInternalServerError, string(models.INTERNALERROR), err.Error()
	}
}
