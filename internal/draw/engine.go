package draw

import (
	"crypto/rand"
	"io"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/domain"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

// DefaultMaxAttempts используется, когда вызывающий не задал бюджет попыток.
const DefaultMaxAttempts = 1000

// restrictions хранит для каждого дарителя множество запрещённых получателей.
type restrictions map[int]map[int]struct{}

// Compute проводит жеребьёвку, используя криптографический источник случайности.
func Compute(participants []models.Participant, previous []models.PriorAssignment, maxAttempts int) (*models.DrawResult, error) {
	return ComputeWithSource(rand.Reader, participants, previous, maxAttempts)
}

// ComputeWithSource проводит жеребьёвку, читая случайные байты из src.
// Нужен тестам и симулятору; в рабочем коде используйте Compute.
func ComputeWithSource(src io.Reader, participants []models.Participant, previous []models.PriorAssignment, maxAttempts int) (*models.DrawResult, error) {
	if len(participants) < 2 {
		return nil, domain.NewInsufficientParticipantsError(len(participants))
	}
	if err := ensureDistinct(participants); err != nil {
		return nil, err
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if src == nil {
		src = rand.Reader
	}

	// Первый уровень: запрещены сам участник и прошлогодний получатель.
	receivers, used, err := attempt(src, participants, buildRestrictions(participants, previous), maxAttempts)
	if err != nil {
		return nil, err
	}
	if receivers != nil {
		return buildResult(participants, receivers, false, used), nil
	}

	// Второй уровень: остаётся только запрет дарить самому себе.
	receivers, more, err := attempt(src, participants, buildRestrictions(participants, nil), maxAttempts)
	if err != nil {
		return nil, err
	}
	if receivers == nil {
		return nil, domain.NewDrawUnsatisfiableError(len(participants), maxAttempts)
	}
	return buildResult(participants, receivers, true, used+more), nil
}

// StrictSatisfiable проверяет, находится ли за maxAttempts перемешиваний жеребьёвка
// без повторов прошлого года. Нужна при сохранении результата с Relaxed == true.
func StrictSatisfiable(participants []models.Participant, previous []models.PriorAssignment, maxAttempts int) (bool, error) {
	if len(participants) < 2 {
		return false, domain.NewInsufficientParticipantsError(len(participants))
	}
	if err := ensureDistinct(participants); err != nil {
		return false, err
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	receivers, _, err := attempt(rand.Reader, participants, buildRestrictions(participants, previous), maxAttempts)
	if err != nil {
		return false, err
	}
	return receivers != nil, nil
}

// ensureDistinct проверяет, что идентификаторы участников не повторяются.
func ensureDistinct(participants []models.Participant) error {
	seen := make(map[int]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := seen[p.Id]; dup {
			return domain.NewDuplicateParticipantError(p.Id)
		}
		seen[p.Id] = struct{}{}
	}
	return nil
}

// buildRestrictions собирает запреты: сам участник плюс его прошлогодние получатели.
// Записи прошлого года о незнакомых дарителях просто не попадают в карту.
func buildRestrictions(participants []models.Participant, previous []models.PriorAssignment) restrictions {
	r := make(restrictions, len(participants))
	for _, p := range participants {
		r[p.Id] = map[int]struct{}{p.Id: {}}
	}
	for _, prior := range previous {
		if forbidden, ok := r[prior.ResponsibleId]; ok {
			forbidden[prior.BirthdayPersonId] = struct{}{}
		}
	}
	return r
}

// attempt перемешивает получателей до maxAttempts раз и возвращает первую подходящую
// перестановку вместе с числом потраченных попыток. nil означает, что бюджет исчерпан.
func attempt(src io.Reader, givers []models.Participant, forbidden restrictions, maxAttempts int) ([]models.Participant, int, error) {
	receivers := make([]models.Participant, len(givers))
	for n := 1; n <= maxAttempts; n++ {
		copy(receivers, givers)
		if err := shuffle(src, receivers); err != nil {
			return nil, n, err
		}
		if satisfies(givers, receivers, forbidden) {
			return receivers, n, nil
		}
	}
	return nil, maxAttempts, nil
}

// satisfies проверяет попарно, что ни один получатель не запрещён своему дарителю.
func satisfies(givers, receivers []models.Participant, forbidden restrictions) bool {
	for i, giver := range givers {
		if _, bad := forbidden[giver.Id][receivers[i].Id]; bad {
			return false
		}
	}
	return true
}

// buildResult превращает найденную перестановку в пары.
func buildResult(givers, receivers []models.Participant, relaxed bool, attempts int) *models.DrawResult {
	pairs := make([]models.Pair, 0, len(givers))
	for i, giver := range givers {
		receiver := receivers[i]
		pairs = append(pairs, models.Pair{
			ResponsibleId:      giver.Id,
			ResponsibleName:    giver.Name,
			BirthdayPersonId:   receiver.Id,
			BirthdayPersonName: receiver.Name,
			BirthdayDate:       receiver.BirthDate,
		})
	}
	return &models.DrawResult{
		Pairs:    pairs,
		Relaxed:  relaxed,
		Attempts: attempts,
	}
}
