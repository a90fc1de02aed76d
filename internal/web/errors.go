package web

import (
	"net/http"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

// writeError формирует стандартный JSON с кодом и сообщением об ошибке.
func writeError(w http.ResponseWriter, status int, code models.ErrorResponseErrorCode, message string) {
	var resp models.ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	writeJSON(w, status, resp)
}

// writeDomainError отвечает клиенту статусом и кодом, соответствующими ошибке сервиса.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code, msg := mapDomainError(err)
	writeError(w, status, models.ErrorResponseErrorCode(code), msg)
}
