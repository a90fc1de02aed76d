package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

type participantResp struct {
	Participant *models.Participant `json:"participant"`
}

type participantListResp struct {
	Participants []*models.Participant `json:"participants"`
}

type participantRemoveResp struct {
	Removed int `json:"removed"`
}

// handleParticipantAdd регистрирует нового участника.
func (s *Server) handleParticipantAdd(w http.ResponseWriter, r *http.Request) {
	var p models.PostParticipantAddJSONBody
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, models.INVALIDPAYLOAD, "invalid json payload")
		return
	}
	if p.Name == "" {
		writeError(w, http.StatusBadRequest, models.MISSINGPARAM, "name is required")
		return
	}

	participant, err := s.participantService.AddParticipant(r.Context(), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, participantResp{Participant: participant})
}

// handleParticipantUpdate меняет данные участника.
func (s *Server) handleParticipantUpdate(w http.ResponseWriter, r *http.Request) {
	var p models.PostParticipantUpdateJSONBody
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, models.INVALIDPAYLOAD, "invalid json payload")
		return
	}
	if p.Id == 0 || p.Name == "" {
		writeError(w, http.StatusBadRequest, models.MISSINGPARAM, "id and name are required")
		return
	}

	participant, err := s.participantService.UpdateParticipant(r.Context(), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, participantResp{Participant: participant})
}

// handleParticipantGet возвращает участника по id из query-параметра.
func (s *Server) handleParticipantGet(w http.ResponseWriter, r *http.Request) {
	id, ok := intQueryParam(w, r, "id")
	if !ok {
		return
	}

	participant, err := s.participantService.GetParticipant(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, participant)
}

// handleParticipantList возвращает всех участников или только активных (?active=true).
func (s *Server) handleParticipantList(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, models.INVALIDINPUT, "active must be a boolean")
			return
		}
		activeOnly = v
	}

	list, err := s.participantService.ListParticipants(r.Context(), activeOnly)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []*models.Participant{}
	}

	writeJSON(w, http.StatusOK, participantListResp{Participants: list})
}

// handleParticipantSetActivity меняет признак активности участника.
func (s *Server) handleParticipantSetActivity(w http.ResponseWriter, r *http.Request) {
	var p models.PostParticipantSetIsActiveJSONBody
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, models.INVALIDPAYLOAD, "invalid json payload")
		return
	}
	if p.Id == 0 {
		writeError(w, http.StatusBadRequest, models.MISSINGPARAM, "id is required")
		return
	}

	participant, err := s.participantService.SetParticipantActivity(r.Context(), p.Id, p.IsActive)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, participantResp{Participant: participant})
}

// handleParticipantRemove удаляет участника без истории обменов.
func (s *Server) handleParticipantRemove(w http.ResponseWriter, r *http.Request) {
	var p models.PostParticipantRemoveJSONBody
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, models.INVALIDPAYLOAD, "invalid json payload")
		return
	}
	if p.Id == 0 {
		writeError(w, http.StatusBadRequest, models.MISSINGPARAM, "id is required")
		return
	}

	if err := s.participantService.RemoveParticipant(r.Context(), p.Id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, participantRemoveResp{Removed: p.Id})
}

// intQueryParam читает обязательный целочисленный query-параметр и сам пишет ответ при ошибке.
func intQueryParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		writeError(w, http.StatusBadRequest, models.MISSINGPARAM, name+" is required")
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, models.INVALIDINPUT, name+" must be an integer")
		return 0, false
	}
	return v, true
}
