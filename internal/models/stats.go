package models

// ExchangeStats содержит агрегированную статистику обменов подарками.
type ExchangeStats struct {
	ByParticipant []ParticipantExchangeStat `json:"by_participant"`
	ByYear        []YearSummary             `json:"by_year"`
}

// ParticipantExchangeStat показывает, сколько раз участник дарил и получал подарки.
type ParticipantExchangeStat struct {
	ParticipantId int    `json:"participant_id"`
	Name          string `json:"name"`
	Given         int    `json:"given"`
	Received      int    `json:"received"`
}
