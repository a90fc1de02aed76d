// Package metrics собирает метрики жеребьёвок.
package metrics

import "time"

// Исходы жеребьёвки для ObserveDraw.
const (
	OutcomeStrict        = "strict"
	OutcomeRelaxed       = "relaxed"
	OutcomeInsufficient  = "insufficient"
	OutcomeDuplicate     = "duplicate"
	OutcomeUnsatisfiable = "unsatisfiable"
	OutcomeError         = "error"
)

// Результаты сохранения для ObserveCommit.
const (
	CommitOK      = "ok"
	CommitInvalid = "invalid"
	CommitExists  = "exists"
	CommitError   = "error"
)

// Collector принимает наблюдения сервиса жеребьёвки.
type Collector interface {
	ObserveDraw(outcome string, attempts int, d time.Duration)
	ObserveCommit(result string)
}

// NopMetrics ничего не делает; используется по умолчанию и в тестах.
type NopMetrics struct{}

var _ Collector = (*NopMetrics)(nil)

// NewNop создаёт пустой сборщик.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

func (*NopMetrics) ObserveDraw(string, int, time.Duration) {}

func (*NopMetrics) ObserveCommit(string) {}
