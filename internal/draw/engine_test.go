package draw

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/domain"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

func makeParticipants(n int) []models.Participant {
	ps := make([]models.Participant, 0, n)
	for i := 1; i <= n; i++ {
		ps = append(ps, models.Participant{Id: i, Name: fmt.Sprintf("p-%d", i), IsActive: true})
	}
	return ps
}

// cycle строит прошлогоднюю жеребьёвку 1→2→...→n→1.
func cycle(n int) []models.PriorAssignment {
	prev := make([]models.PriorAssignment, 0, n)
	for i := 1; i <= n; i++ {
		prev = append(prev, models.PriorAssignment{ResponsibleId: i, BirthdayPersonId: i%n + 1})
	}
	return prev
}

// requireDerangement проверяет P1 и P2, а при Relaxed == false ещё и P3.
func requireDerangement(t *testing.T, participants []models.Participant, previous []models.PriorAssignment, res *models.DrawResult) {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Pairs, len(participants))

	ids := make(map[int]int, len(participants))
	for _, p := range participants {
		ids[p.Id]++
	}
	givers := make(map[int]int, len(res.Pairs))
	receivers := make(map[int]int, len(res.Pairs))
	for _, pair := range res.Pairs {
		require.NotEqual(t, pair.ResponsibleId, pair.BirthdayPersonId, "self assignment for %d", pair.ResponsibleId)
		givers[pair.ResponsibleId]++
		receivers[pair.BirthdayPersonId]++
	}
	require.Equal(t, ids, givers)
	require.Equal(t, ids, receivers)

	if !res.Relaxed {
		prior := make(map[int]int, len(previous))
		for _, a := range previous {
			prior[a.ResponsibleId] = a.BirthdayPersonId
		}
		for _, pair := range res.Pairs {
			if last, ok := prior[pair.ResponsibleId]; ok {
				require.NotEqual(t, last, pair.BirthdayPersonId, "pair %d repeats previous year", pair.ResponsibleId)
			}
		}
	}
}

// scriptedReader по кругу отдаёт заранее заданные 32-битные слова.
type scriptedReader struct {
	words []uint32
	pos   int
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	n := 0
	for len(p)-n >= 4 {
		binary.LittleEndian.PutUint32(p[n:], r.words[r.pos%len(r.words)])
		r.pos++
		n += 4
	}
	return n, nil
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestCompute_ScenarioA_ThreeWithoutHistory(t *testing.T) {
	participants := []models.Participant{
		{Id: 1, Name: "Alice"},
		{Id: 2, Name: "Bob"},
		{Id: 3, Name: "Carol"},
	}

	res, err := Compute(participants, nil, DefaultMaxAttempts)
	require.NoError(t, err)
	require.False(t, res.Relaxed)
	requireDerangement(t, participants, nil, res)

	names := map[int]string{1: "Alice", 2: "Bob", 3: "Carol"}
	for _, pair := range res.Pairs {
		require.Equal(t, names[pair.ResponsibleId], pair.ResponsibleName)
		require.Equal(t, names[pair.BirthdayPersonId], pair.BirthdayPersonName)
	}
}

func TestCompute_ScenarioB_MutualPairForcesRelaxation(t *testing.T) {
	participants := []models.Participant{{Id: 1, Name: "Alice"}, {Id: 2, Name: "Bob"}}
	previous := []models.PriorAssignment{
		{ResponsibleId: 1, BirthdayPersonId: 2},
		{ResponsibleId: 2, BirthdayPersonId: 1},
	}

	for i := 0; i < 10; i++ {
		res, err := Compute(participants, previous, 50)
		require.NoError(t, err)
		require.True(t, res.Relaxed)
		requireDerangement(t, participants, previous, res)
		require.Equal(t, []models.Pair{
			{ResponsibleId: 1, ResponsibleName: "Alice", BirthdayPersonId: 2, BirthdayPersonName: "Bob"},
			{ResponsibleId: 2, ResponsibleName: "Bob", BirthdayPersonId: 1, BirthdayPersonName: "Alice"},
		}, res.Pairs)
		require.Greater(t, res.Attempts, 50)
	}
}

func TestCompute_ScenarioC_TooFewParticipants(t *testing.T) {
	for _, n := range []int{0, 1} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			res, err := Compute(makeParticipants(n), nil, DefaultMaxAttempts)
			require.Nil(t, res)
			require.ErrorIs(t, err, domain.ErrInsufficientParticipants)
			require.Contains(t, err.Error(), "at least 2 participants")
		})
	}
}

func TestCompute_TwoParticipantsSucceed(t *testing.T) {
	participants := makeParticipants(2)
	res, err := Compute(participants, nil, DefaultMaxAttempts)
	require.NoError(t, err)
	require.False(t, res.Relaxed)
	require.Len(t, res.Pairs, 2)
	requireDerangement(t, participants, nil, res)
}

func TestCompute_ScenarioD_FullCycleNeverRepeats(t *testing.T) {
	participants := makeParticipants(10)
	previous := cycle(10)

	for run := 0; run < 20; run++ {
		res, err := Compute(participants, previous, DefaultMaxAttempts)
		require.NoError(t, err)
		requireDerangement(t, participants, previous, res)
		require.NoError(t, Validate(res, participants, previous))
	}
}

func TestCompute_ScenarioE_ThirtyParticipants(t *testing.T) {
	participants := makeParticipants(30)
	res, err := Compute(participants, nil, DefaultMaxAttempts)
	require.NoError(t, err)
	require.False(t, res.Relaxed)
	requireDerangement(t, participants, nil, res)
}

func TestCompute_OutputsVaryBetweenCalls(t *testing.T) {
	participants := makeParticipants(10)
	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		res, err := Compute(participants, nil, DefaultMaxAttempts)
		require.NoError(t, err)
		seen[fmt.Sprint(res.Pairs)] = struct{}{}
	}
	require.Greater(t, len(seen), 1)
}

func TestCompute_UnknownPriorsIgnored(t *testing.T) {
	participants := makeParticipants(4)
	previous := []models.PriorAssignment{
		{ResponsibleId: 99, BirthdayPersonId: 1},
		{ResponsibleId: 1, BirthdayPersonId: 42},
	}
	res, err := ComputeWithSource(zeroReader{}, participants, previous, 1)
	require.NoError(t, err)
	require.False(t, res.Relaxed)
	require.Equal(t, 1, res.Attempts)
	requireDerangement(t, participants, previous, res)
}

func TestCompute_FallsBackToSelfOnlyTier(t *testing.T) {
	// Нулевой источник всегда даёт перестановку [2,3,1], то есть ровно прошлогодний цикл.
	participants := makeParticipants(3)
	previous := cycle(3)

	res, err := ComputeWithSource(zeroReader{}, participants, previous, 5)
	require.NoError(t, err)
	require.True(t, res.Relaxed)
	require.Equal(t, 6, res.Attempts)
	requireDerangement(t, participants, previous, res)
	for _, pair := range res.Pairs {
		require.Equal(t, pair.ResponsibleId%3+1, pair.BirthdayPersonId)
	}
}

func TestCompute_UnsatisfiableWhenSourceAlwaysYieldsIdentity(t *testing.T) {
	// Слова 3,2,1 оставляют каждый элемент на месте: j == i на каждом шаге.
	participants := makeParticipants(4)
	src := &scriptedReader{words: []uint32{3, 2, 1}}

	res, err := ComputeWithSource(src, participants, nil, 7)
	require.Nil(t, res)
	require.ErrorIs(t, err, domain.ErrDrawUnsatisfiable)
	require.Contains(t, err.Error(), "after 7 attempts")
}

func TestCompute_DuplicateParticipant(t *testing.T) {
	participants := []models.Participant{{Id: 1}, {Id: 2}, {Id: 1}}
	_, err := Compute(participants, nil, DefaultMaxAttempts)
	require.ErrorIs(t, err, domain.ErrDuplicateParticipant)
}

func TestCompute_SourceFailure(t *testing.T) {
	_, err := ComputeWithSource(failingReader{}, makeParticipants(3), nil, 3)
	require.Error(t, err)
	require.Contains(t, err.Error(), "entropy exhausted")
	require.NotErrorIs(t, err, domain.ErrDrawUnsatisfiable)
}

func TestCompute_DefaultAttemptBudget(t *testing.T) {
	participants := makeParticipants(4)
	src := &scriptedReader{words: []uint32{3, 2, 1}}

	_, err := ComputeWithSource(src, participants, nil, 0)
	require.ErrorIs(t, err, domain.ErrDrawUnsatisfiable)
	require.Contains(t, err.Error(), fmt.Sprintf("after %d attempts", DefaultMaxAttempts))
}

func TestCompute_PassesBirthdayDateThrough(t *testing.T) {
	born := time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC)
	participants := []models.Participant{
		{Id: 1, Name: "Alice", BirthDate: &born},
		{Id: 2, Name: "Bob"},
	}
	res, err := Compute(participants, nil, DefaultMaxAttempts)
	require.NoError(t, err)
	for _, pair := range res.Pairs {
		if pair.BirthdayPersonId == 1 {
			require.Equal(t, &born, pair.BirthdayDate)
		} else {
			require.Nil(t, pair.BirthdayDate)
		}
	}
}

func TestCompute_ConcurrentCalls(t *testing.T) {
	const (
		workers = 32
		draws   = 50
	)
	participants := makeParticipants(8)
	previous := cycle(8)

	errs := make(chan error, workers*draws)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < draws; i++ {
				res, err := Compute(participants, previous, 0)
				if err != nil {
					errs <- err
					continue
				}
				if res.Relaxed {
					errs <- fmt.Errorf("unexpected relaxed draw")
					continue
				}
				if err := Validate(res, participants, previous); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

func TestStrictSatisfiable(t *testing.T) {
	t.Run("no history", func(t *testing.T) {
		ok, err := StrictSatisfiable(makeParticipants(3), nil, 0)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("reverse cycle remains", func(t *testing.T) {
		ok, err := StrictSatisfiable(makeParticipants(3), cycle(3), 0)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("mutual pair", func(t *testing.T) {
		ok, err := StrictSatisfiable(makeParticipants(2), cycle(2), 50)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("too few participants", func(t *testing.T) {
		_, err := StrictSatisfiable(makeParticipants(1), nil, 0)
		require.ErrorIs(t, err, domain.ErrInsufficientParticipants)
	})
}

func TestUniformIndex(t *testing.T) {
	t.Run("rejects biased words", func(t *testing.T) {
		// 2^32 mod 3 == 1, поэтому 0xFFFFFFFF выходит за границу и отбрасывается.
		src := &scriptedReader{words: []uint32{0xFFFFFFFF, 5}}
		j, err := uniformIndex(src, 3)
		require.NoError(t, err)
		require.Equal(t, 2, j)
		require.Equal(t, 2, src.pos)
	})

	t.Run("power of two bound never rejects", func(t *testing.T) {
		src := &scriptedReader{words: []uint32{0xFFFFFFFF}}
		j, err := uniformIndex(src, 4)
		require.NoError(t, err)
		require.Equal(t, 3, j)
		require.Equal(t, 1, src.pos)
	})

	t.Run("zero bound", func(t *testing.T) {
		_, err := uniformIndex(zeroReader{}, 0)
		require.Error(t, err)
	})

	t.Run("short read", func(t *testing.T) {
		_, err := uniformIndex(io.LimitReader(zeroReader{}, 2), 3)
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
}

func TestShuffle_KeepsElements(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, shuffle(&scriptedReader{words: []uint32{11, 7, 3, 19, 2, 5, 1}}, items))
	require.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, items)
}

func BenchmarkCompute_ThirtyWithCycle(b *testing.B) {
	participants := makeParticipants(30)
	previous := cycle(30)
	for i := 0; i < b.N; i++ {
		if _, err := Compute(participants, previous, DefaultMaxAttempts); err != nil {
			b.Fatal(err)
		}
	}
}
