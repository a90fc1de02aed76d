package models

import "time"

// Participant описывает участника клуба обмена подарками.
type Participant struct {
	Id        int        `json:"id"`
	Name      string     `json:"name"`
	FullName  string     `json:"full_name,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	IsActive  bool       `json:"is_active"`
}

// ParticipantIdQuery задаёт тип идентификатора участника в query-параметрах.
type ParticipantIdQuery = string

// PostParticipantAddJSONBody описывает тело запроса на добавление участника.
type PostParticipantAddJSONBody struct {
	Name      string `json:"name" validate:"required,max=100"`
	FullName  string `json:"full_name" validate:"max=200"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive  *bool  `json:"is_active"`
}

// PostParticipantUpdateJSONBody описывает тело запроса на изменение участника.
type PostParticipantUpdateJSONBody struct {
	Id        int    `json:"id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,max=100"`
	FullName  string `json:"full_name" validate:"max=200"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

// PostParticipantSetIsActiveJSONBody описывает тело запроса на изменение активности участника.
type PostParticipantSetIsActiveJSONBody struct {
	Id       int  `json:"id"`
	IsActive bool `json:"is_active"`
}

// PostParticipantRemoveJSONBody описывает тело запроса на удаление участника.
type PostParticipantRemoveJSONBody struct {
	Id int `json:"id"`
}
