// Команда drawsim прогоняет движок жеребьёвки на синтетических данных без базы
// и печатает сводку: сколько раз хватило строгих ограничений, сколько попыток ушло, задержки.
package main

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/AlekseyZapadovnikov/gift-exchange/internal/domain"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/draw"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/models"
)

// Схемы прошлогодней жеребьёвки.
const (
	priorNone  = "none"
	priorCycle = "cycle"
	priorPairs = "pairs"
)

type simEnv struct {
	MaxAttempts int `env:"DRAW_MAX_ATTEMPTS" envDefault:"1000"`
}

type runConfig struct {
	Participants int
	Runs         int
	Prior        string
	MaxAttempts  int
	Seed         uint64
	ReportPath   string
}

type latencySummary struct {
	Samples   int     `json:"samples"`
	AverageMs float64 `json:"average_ms"`
	P95Ms     float64 `json:"p95_ms"`
	MaxMs     float64 `json:"max_ms"`
}

type totalsSummary struct {
	Runs          int `json:"runs"`
	Strict        int `json:"strict"`
	Relaxed       int `json:"relaxed"`
	Unsatisfiable int `json:"unsatisfiable"`
	Invalid       int `json:"invalid"`
}

type simSummary struct {
	GeneratedAt  time.Time      `json:"generated_at"`
	Participants int            `json:"participants"`
	Prior        string         `json:"prior"`
	MaxAttempts  int            `json:"max_attempts"`
	Seed         uint64         `json:"seed,omitempty"`
	Totals       totalsSummary  `json:"totals"`
	MeanAttempts float64        `json:"mean_attempts"`
	PeakAttempts int            `json:"peak_attempts"`
	Latency      latencySummary `json:"latency_ms"`
	Errors       []string       `json:"errors,omitempty"`
}

type recorder struct {
	totals    totalsSummary
	attempts  []int
	durations []time.Duration
	errors    []string
}

func (r *recorder) record(result *models.DrawResult, d time.Duration, err error) {
	r.totals.Runs++
	r.durations = append(r.durations, d)
	switch {
	case errors.Is(err, domain.ErrDrawUnsatisfiable):
		r.totals.Unsatisfiable++
	case errors.Is(err, domain.ErrInvalidDraw):
		r.totals.Invalid++
		r.addError(err)
	case err != nil:
		r.addError(err)
	case result.Relaxed:
		r.totals.Relaxed++
		r.attempts = append(r.attempts, result.Attempts)
	default:
		r.totals.Strict++
		r.attempts = append(r.attempts, result.Attempts)
	}
}

func (r *recorder) addError(err error) {
	if len(r.errors) < 10 {
		r.errors = append(r.errors, err.Error())
	}
}

func (r *recorder) toSummary(cfg runConfig) simSummary {
	summary := simSummary{
		GeneratedAt:  time.Now(),
		Participants: cfg.Participants,
		Prior:        cfg.Prior,
		MaxAttempts:  cfg.MaxAttempts,
		Seed:         cfg.Seed,
		Totals:       r.totals,
		Latency:      calcLatency(r.durations),
		Errors:       append([]string(nil), r.errors...),
	}
	if len(r.attempts) > 0 {
		total := 0
		for _, a := range r.attempts {
			total += a
			if a > summary.PeakAttempts {
				summary.PeakAttempts = a
			}
		}
		summary.MeanAttempts = float64(total) / float64(len(r.attempts))
	}
	return summary
}

func calcLatency(data []time.Duration) latencySummary {
	if len(data) == 0 {
		return latencySummary{}
	}
	samples := append([]time.Duration(nil), data...)
	sort.Slice(samples, func(i, j int) bool {
		return samples[i] < samples[j]
	})

	var total time.Duration
	for _, d := range samples {
		total += d
	}
	avg := float64(total.Microseconds()) / float64(len(samples))
	maxDur := samples[len(samples)-1]
	p95 := samples[int(math.Ceil(0.95*float64(len(samples))))-1]
	return latencySummary{
		Samples:   len(samples),
		AverageMs: avg / 1000.0,
		P95Ms:     float64(p95.Microseconds()) / 1000.0,
		MaxMs:     float64(maxDur.Microseconds()) / 1000.0,
	}
}

func main() {
	cfg := parseFlags()
	if err := run(cfg, os.Stdout); err != nil {
		log.Fatalf("draw simulation failed: %v", err)
	}
}

func parseFlags() runConfig {
	// .env необязателен.
	_ = godotenv.Load()
	var defaults simEnv
	if err := env.Parse(&defaults); err != nil {
		log.Fatalf("could not read environment: %v", err)
	}

	var cfg runConfig
	flag.IntVar(&cfg.Participants, "participants", 10, "number of synthetic participants")
	flag.IntVar(&cfg.Runs, "runs", 1000, "number of draws to compute")
	flag.StringVar(&cfg.Prior, "prior", priorCycle, "previous year layout: none, cycle or pairs")
	flag.IntVar(&cfg.MaxAttempts, "max-attempts", defaults.MaxAttempts, "shuffle budget per restriction tier")
	flag.Uint64Var(&cfg.Seed, "seed", 0, "fixed seed for a reproducible run (0 uses crypto/rand)")
	flag.StringVar(&cfg.ReportPath, "report", "", "path to store the JSON summary (stdout when empty)")
	flag.Parse()
	return cfg
}

func run(cfg runConfig, stdout io.Writer) error {
	if cfg.Runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", cfg.Runs)
	}
	participants := syntheticParticipants(cfg.Participants)
	previous, err := priorAssignments(cfg.Prior, participants)
	if err != nil {
		return err
	}

	var src io.Reader
	if cfg.Seed != 0 {
		var key [32]byte
		binary.LittleEndian.PutUint64(key[:], cfg.Seed)
		src = rand.NewChaCha8(key)
	}

	rec := &recorder{}
	for i := 0; i < cfg.Runs; i++ {
		start := time.Now()
		result, err := draw.ComputeWithSource(src, participants, previous, cfg.MaxAttempts)
		elapsed := time.Since(start)
		if err == nil {
			err = draw.Validate(result, participants, previous)
		}
		if errors.Is(err, domain.ErrInsufficientParticipants) {
			return err
		}
		rec.record(result, elapsed, err)
	}

	return writeReport(cfg.ReportPath, stdout, rec.toSummary(cfg))
}

func syntheticParticipants(n int) []models.Participant {
	out := make([]models.Participant, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Participant{Id: i, Name: fmt.Sprintf("participant-%03d", i), IsActive: true})
	}
	return out
}

// priorAssignments строит прошлогоднюю жеребьёвку по выбранной схеме.
// pairs меняет участников местами попарно; при нечётном числе последний замыкает тройку.
func priorAssignments(layout string, participants []models.Participant) ([]models.PriorAssignment, error) {
	n := len(participants)
	switch layout {
	case priorNone:
		return nil, nil
	case priorCycle:
		out := make([]models.PriorAssignment, 0, n)
		for i := range participants {
			out = append(out, models.PriorAssignment{
				ResponsibleId:    participants[i].Id,
				BirthdayPersonId: participants[(i+1)%n].Id,
			})
		}
		return out, nil
	case priorPairs:
		out := make([]models.PriorAssignment, 0, n)
		for i := 0; i+1 < n; i += 2 {
			a, b := participants[i].Id, participants[i+1].Id
			out = append(out,
				models.PriorAssignment{ResponsibleId: a, BirthdayPersonId: b},
				models.PriorAssignment{ResponsibleId: b, BirthdayPersonId: a},
			)
		}
		if n%2 == 1 && n >= 3 {
			a, b, c := participants[n-3].Id, participants[n-2].Id, participants[n-1].Id
			out = out[:len(out)-2]
			out = append(out,
				models.PriorAssignment{ResponsibleId: a, BirthdayPersonId: b},
				models.PriorAssignment{ResponsibleId: b, BirthdayPersonId: c},
				models.PriorAssignment{ResponsibleId: c, BirthdayPersonId: a},
			)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown prior layout %q", layout)
	}
}

func writeReport(path string, stdout io.Writer, summary simSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = stdout.Write(data)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(stdout, "report written to %s\n", path)
	return nil
}
