package models

// ErrorResponse описывает тело ответа с ошибкой: {"error":{"code","message"}}.
type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}

// ErrorResponseErrorCode задаёт возможные значения кода ошибки.
type ErrorResponseErrorCode string

// Коды ошибок API. Первые восемь соответствуют доменным ошибкам, остальные
// выставляет HTTP-слой до вызова сервиса.
const (
	INSUFFICIENTPARTICIPANTS ErrorResponseErrorCode = "INSUFFICIENT_PARTICIPANTS"
	DUPLICATEPARTICIPANT     ErrorResponseErrorCode = "DUPLICATE_PARTICIPANT"
	DRAWUNSATISFIABLE        ErrorResponseErrorCode = "DRAW_UNSATISFIABLE"
	INVALIDDRAW              ErrorResponseErrorCode = "INVALID_DRAW"
	DRAWEXISTS               ErrorResponseErrorCode = "DRAW_EXISTS"
	NOTFOUND                 ErrorResponseErrorCode = "NOT_FOUND"
	INVALIDINPUT             ErrorResponseErrorCode = "INVALID_INPUT"
	PARTICIPANTINUSE         ErrorResponseErrorCode = "PARTICIPANT_IN_USE"

	INVALIDPAYLOAD ErrorResponseErrorCode = "INVALID_PAYLOAD"
	MISSINGPARAM   ErrorResponseErrorCode = "MISSING_PARAM"
	INTERNALERROR  ErrorResponseErrorCode = "INTERNAL_ERROR"
)
