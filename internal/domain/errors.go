package domain

import (
	"errors"
	"fmt"
)

// Сентинельные ошибки домена, используемые движком жеребьёвки, сервисами, репозиториями и веб-слоем.
var (
	ErrInsufficientParticipants = errors.New("INSUFFICIENT_PARTICIPANTS")
	ErrDuplicateParticipant     = errors.New("DUPLICATE_PARTICIPANT")
	ErrDrawUnsatisfiable        = errors.New("DRAW_UNSATISFIABLE")
	ErrInvalidDraw              = errors.New("INVALID_DRAW")
	ErrDrawExists               = errors.New("DRAW_EXISTS")
	ErrNotFound                 = errors.New("NOT_FOUND")
	ErrInvalidInput             = errors.New("INVALID_INPUT")
	ErrParticipantInUse         = errors.New("PARTICIPANT_IN_USE")
)

// NewInsufficientParticipantsError сообщает, что для жеребьёвки нужно минимум два участника.
func NewInsufficientParticipantsError(got int) error {
	return fmt.Errorf("%w: at least 2 participants are required for a draw, got %d", ErrInsufficientParticipants, got)
}

// NewDuplicateParticipantError возвращает ошибку о повторяющемся идентификаторе участника.
func NewDuplicateParticipantError(id int) error {
	return fmt.Errorf("%w: participant %d is listed more than once", ErrDuplicateParticipant, id)
}

// NewDrawUnsatisfiableError используется, когда оба уровня ограничений исчерпали попытки.
func NewDrawUnsatisfiableError(participants, maxAttempts int) error {
	return fmt.Errorf("%w: no valid assignment for %d participants after %d attempts per tier, try again",
		ErrDrawUnsatisfiable, participants, maxAttempts)
}

// NewInvalidDrawError сообщает, что присланный результат жеребьёвки нарушает инварианты.
func NewInvalidDrawError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidDraw, reason)
}

// NewDrawExistsError сигнализирует, что жеребьёвка за год уже сохранена.
func NewDrawExistsError(year int) error {
	return fmt.Errorf("%w: draw for year %d already exists", ErrDrawExists, year)
}

// NewNotFoundError возвращает ошибку отсутствия переданного ресурса.
func NewNotFoundError(resource string) error {
	return fmt.Errorf("%w: %s not found", ErrNotFound, resource)
}

// NewInvalidInputError оборачивает ошибку валидации входных данных.
func NewInvalidInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

// NewParticipantInUseError сообщает, что участника нельзя удалить из-за истории обменов.
func NewParticipantInUseError(id int) error {
	return fmt.Errorf("%w: participant %d is referenced by exchange history", ErrParticipantInUse, id)
}
