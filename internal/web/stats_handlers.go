package web

import (
	"net/http"
	"strconv"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

type historyResp struct {
	Year    int                     `json:"year"`
	Records []*models.HistoryRecord `json:"records"`
}

type yearsResp struct {
	Years []models.YearSummary `json:"years"`
}

type auditResp struct {
	Entries []*models.AuditEntry `json:"entries"`
}

// handleHistoryGet возвращает сохранённые пары за год.
func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	year, ok := intQueryParam(w, r, "year")
	if !ok {
		return
	}

	records, err := s.drawService.History(r.Context(), year)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResp{Year: year, Records: records})
}

// handleHistoryYears перечисляет годы с сохранёнными жеребьёвками.
func (s *Server) handleHistoryYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.drawService.Years(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if years == nil {
		years = []models.YearSummary{}
	}

	writeJSON(w, http.StatusOK, yearsResp{Years: years})
}

// handleExchangeStats возвращает агрегированную статистику обменов.
func (s *Server) handleExchangeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.drawService.ExchangeStats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if stats == nil {
		stats = &models.ExchangeStats{}
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleAuditList возвращает последние записи журнала аудита.
func (s *Server) handleAuditList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, models.INVALIDINPUT, "limit must be an integer")
			return
		}
		limit = v
	}

	entries, err := s.drawService.AuditLog(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []*models.AuditEntry{}
	}

	writeJSON(w, http.StatusOK, auditResp{Entries: entries})
}
