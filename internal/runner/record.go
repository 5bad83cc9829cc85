package runner

import (
	"time"

	"github.com/comalice/turingx/internal/production"
)

// Record converts r into a run-store record for machine.
func (r Result) Record(machine string) production.RunRecord {
	return production.RunRecord{
		ID:          r.RunID,
		Machine:     machine,
		Version:     r.Version,
		Input:       r.Input,
		InputLength: r.InputLength,
		Steps:       r.Steps,
		Outcome:     string(r.Outcome),
		State:       string(r.State),
		Value:       r.Value,
		HasValue:    r.HasValue,
		Elapsed:     r.Elapsed,
		CreatedAt:   time.Now(),
	}
}

// FitRecords fits execution time in seconds against input length.
func FitRecords(records []production.RunRecord) ([3]float64, error) {
	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	for i, r := range records {
		xs[i] = float64(r.InputLength)
		ys[i] = r.Elapsed.Seconds()
	}
	return FitQuadratic(xs, ys)
}
