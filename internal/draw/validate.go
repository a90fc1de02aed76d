package draw

import (
	"fmt"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/domain"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

// Validate проверяет, что result является корректной жеребьёвкой для participants.
// Используется при сохранении результата, пришедшего от клиента.
func Validate(result *models.DrawResult, participants []models.Participant, previous []models.PriorAssignment) error {
	if result == nil {
		return domain.NewInvalidDrawError("draw result is empty")
	}
	if len(participants) < 2 {
		return domain.NewInsufficientParticipantsError(len(participants))
	}
	if err := ensureDistinct(participants); err != nil {
		return err
	}
	if len(result.Pairs) != len(participants) {
		return domain.NewInvalidDrawError(fmt.Sprintf("expected %d pairs, got %d", len(participants), len(result.Pairs)))
	}

	known := make(map[int]struct{}, len(participants))
	for _, p := range participants {
		known[p.Id] = struct{}{}
	}
	strict := buildRestrictions(participants, previous)

	givers := make(map[int]struct{}, len(result.Pairs))
	receivers := make(map[int]struct{}, len(result.Pairs))
	for _, pair := range result.Pairs {
		g, r := pair.ResponsibleId, pair.BirthdayPersonId
		if _, ok := known[g]; !ok {
			return domain.NewInvalidDrawError(fmt.Sprintf("unknown responsible participant %d", g))
		}
		if _, ok := known[r]; !ok {
			return domain.NewInvalidDrawError(fmt.Sprintf("unknown birthday participant %d", r))
		}
		if _, dup := givers[g]; dup {
			return domain.NewInvalidDrawError(fmt.Sprintf("participant %d gives more than once", g))
		}
		if _, dup := receivers[r]; dup {
			return domain.NewInvalidDrawError(fmt.Sprintf("participant %d receives more than once", r))
		}
		if g == r {
			return domain.NewInvalidDrawError(fmt.Sprintf("participant %d is assigned to themselves", g))
		}
		if _, repeated := strict[g][r]; repeated && !result.Relaxed {
			return domain.NewInvalidDrawError(fmt.Sprintf("pair %d -> %d repeats the previous year", g, r))
		}
		givers[g] = struct{}{}
		receivers[r] = struct{}{}
	}
	return nil
}
