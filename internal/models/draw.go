package models

import "time"

// PriorAssignment хранит одну пару прошлогодней жеребьёвки: кто (ResponsibleId) дарил кому.
type PriorAssignment struct {
	ResponsibleId    int `json:"responsible_id"`
	BirthdayPersonId int `json:"birthday_person_id"`
}

// Pair описывает одну пару новой жеребьёвки.
type Pair struct {
	ResponsibleId      int        `json:"responsible_id"`
	ResponsibleName    string     `json:"responsible_name"`
	BirthdayPersonId   int        `json:"birthday_person_id"`
	BirthdayPersonName string     `json:"birthday_person_name"`
	BirthdayDate       *time.Time `json:"birthday_date,omitempty"`
}

// DrawResult содержит результат жеребьёвки.
type DrawResult struct {
	Pairs []Pair `json:"pairs"`
	// Relaxed выставляется, когда ограничение «не повторять прошлый год» пришлось снять.
	Relaxed bool `json:"relaxed"`
	// Attempts количество перемешиваний, потраченных на оба уровня ограничений.
	Attempts int `json:"attempts"`
}

// PostDrawPreviewJSONBody описывает запрос на предварительную жеребьёвку.
type PostDrawPreviewJSONBody struct {
	Year int `json:"year"`
	// ParticipantIds пустой список означает «все активные участники».
	ParticipantIds []int `json:"participant_ids"`
}

// PostDrawCommitJSONBody описывает запрос на сохранение жеребьёвки.
type PostDrawCommitJSONBody struct {
	Year    int    `json:"year"`
	Pairs   []Pair `json:"pairs"`
	Relaxed bool   `json:"relaxed"`
}

// PostDrawDeleteJSONBody описывает запрос на удаление жеребьёвки за год.
type PostDrawDeleteJSONBody struct {
	Year int `json:"year"`
}
