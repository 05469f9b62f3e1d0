// Package sim replays the outcome generator offline and reports the
// distribution a player would face.
package sim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/avvvet/round-services/internal/gamesvc/engine"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrNoRounds = errors.New("simulation needs at least one round")

// DefaultCashOuts are the fixed cash-out strategies reported when none are given.
var DefaultCashOuts = []float64{1.5, 2, 5, 10, 50}

type CrashStats struct {
	Rounds int                `yaml:"rounds"`
	Mean   float64            `yaml:"mean"`
	StdDev float64            `yaml:"stddev"`
	Median float64            `yaml:"median"`
	P90    float64            `yaml:"p90"`
	P99    float64            `yaml:"p99"`
	Min    float64            `yaml:"min"`
	Max    float64            `yaml:"max"`
	RTP    map[string]float64 `yaml:"rtp"` // keyed by cash-out target, e.g. "2.00x"
}

type DoubleStats struct {
	Rounds    int             `yaml:"rounds"`
	Frequency map[int]float64 `yaml:"frequency"`
	RTP       map[int]float64 `yaml:"rtp"` // return of always betting on that target
}

type Report struct {
	Crash  CrashStats  `yaml:"crash"`
	Double DoubleStats `yaml:"double"`
}

// Run draws rounds crash points and rounds double results from gen, calling
// onStep after each pair.
func Run(gen *engine.Generator, rounds int, onStep func()) (Report, error) {
	return RunCashOuts(gen, rounds, DefaultCashOuts, onStep)
}

// RunCashOuts is Run with explicit cash-out strategies.
func RunCashOuts(gen *engine.Generator, rounds int, cashOuts []float64, onStep func()) (Report, error) {
	if rounds <= 0 {
		return Report{}, ErrNoRounds
	}

	points := make([]float64, rounds)
	hits := make(map[int]int, len(engine.DoubleMultipliers))
	for i := 0; i < rounds; i++ {
		p, err := gen.CrashPoint()
		if err != nil {
			return Report{}, fmt.Errorf("round %d crash point: %w", i, err)
		}
		points[i] = p

		r, err := gen.DoubleResult()
		if err != nil {
			return Report{}, fmt.Errorf("round %d double result: %w", i, err)
		}
		hits[r]++

		if onStep != nil {
			onStep()
		}
	}

	return Report{
		Crash:  crashStats(points, cashOuts),
		Double: doubleStats(hits, rounds),
	}, nil
}

func crashStats(points []float64, cashOuts []float64) CrashStats {
	s := CrashStats{Rounds: len(points), RTP: make(map[string]float64, len(cashOuts))}
	s.Mean, s.StdDev = stat.MeanStdDev(points, nil)

	// a cash-out at x pays when the multiplier climbs past x before the crash
	for _, x := range cashOuts {
		won := 0
		for _, p := range points {
			if x < p {
				won++
			}
		}
		s.RTP[fmt.Sprintf("%.2fx", x)] = x * float64(won) / float64(len(points))
	}

	sorted := append([]float64(nil), points...)
	sort.Float64s(sorted)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.P90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	s.P99 = stat.Quantile(0.99, stat.Empirical, sorted, nil)
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	return s
}

func doubleStats(hits map[int]int, rounds int) DoubleStats {
	s := DoubleStats{
		Rounds:    rounds,
		Frequency: make(map[int]float64, len(engine.DoubleMultipliers)),
		RTP:       make(map[int]float64, len(engine.DoubleMultipliers)),
	}
	for _, m := range engine.DoubleMultipliers {
		f := float64(hits[m]) / float64(rounds)
		s.Frequency[m] = f
		s.RTP[m] = f * float64(m)
	}
	return s
}
