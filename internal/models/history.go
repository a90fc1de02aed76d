package models

import "time"

// HistoryRecord описывает сохранённую пару обмена подарками за конкретный год.
type HistoryRecord struct {
	Id                 int64      `json:"id"`
	Year               int        `json:"year"`
	ResponsibleId      int        `json:"responsible_id"`
	ResponsibleName    string     `json:"responsible_name"`
	BirthdayPersonId   int        `json:"birthday_person_id"`
	BirthdayPersonName string     `json:"birthday_person_name"`
	Relaxed            bool       `json:"relaxed"`
	CreatedAt          *time.Time `json:"created_at"`
}

// YearSummary показывает, сколько пар сохранено за год и была ли жеребьёвка ослаблена.
type YearSummary struct {
	Year    int  `json:"year"`
	Pairs   int  `json:"pairs"`
	Relaxed bool `json:"relaxed"`
}

// YearQuery задаёт тип года в query-параметрах.
type YearQuery = string
