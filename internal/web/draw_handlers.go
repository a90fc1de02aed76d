package web

import (
	"encoding/json"
	"net/http"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

type drawResp struct {
	Draw *models.DrawResult `json:"draw"`
}

type commitResp struct {
	Year    int           `json:"year"`
	Relaxed bool          `json:"relaxed"`
	Pairs   []models.Pair `json:"pairs"`
}

type drawDeleteResp struct {
	Deleted int `json:"deleted"`
}

// handleDrawPreview проводит жеребьёвку без сохранения.
func (s *Server) handleDrawPreview(w http.ResponseWriter, r *http.Request) {
	var p models.PostDrawPreviewJSONBody
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, models.INVALIDPAYLOAD, "invalid json payload")
		return
	}
	if p.Year == 0 {
		writeError(w, http.StatusBadRequest, models.MISSINGPARAM, "year is required")
		return
	}

	result, err := s.drawService.Preview(r.Context(), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, drawResp{Draw: result})
}

// handleDrawCommit сохраняет выбранный вариант жеребьёвки как итог года.
func (s *Server) handleDrawCommit(w http.ResponseWriter, r *http.Request) {
	var p models.PostDrawCommitJSONBody
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, models.INVALIDPAYLOAD, "invalid json payload")
		return
	}
	if p.Year == 0 || len(p.Pairs) == 0 {
		writeError(w, http.StatusBadRequest, models.MISSINGPARAM, "year and pairs are required")
		return
	}

	res, err := s.drawService.Commit(r.Context(), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, commitResp{
		Year:    res.Year,
		Relaxed: res.Relaxed,
		Pairs:   res.Pairs,
	})
}

// handleDrawDelete удаляет сохранённую жеребьёвку года.
func (s *Server) handleDrawDelete(w http.ResponseWriter, r *http.Request) {
	var p models.PostDrawDeleteJSONBody
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, models.INVALIDPAYLOAD, "invalid json payload")
		return
	}
	if p.Year == 0 {
		writeError(w, http.StatusBadRequest, models.MISSINGPARAM, "year is required")
		return
	}

	if err := s.drawService.DeleteDraw(r.Context(), p.Year); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, drawDeleteResp{Deleted: p.Year})
}
