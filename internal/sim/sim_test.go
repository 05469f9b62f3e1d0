package sim

import (
	"testing"

	"github.com/avvvet/round-services/internal/gamesvc/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(t *testing.T, src engine.Source) *engine.Generator {
	t.Helper()
	gen, err := engine.NewGenerator(src)
	require.NoError(t, err)
	return gen
}

func TestRunConstantSource(t *testing.T) {
	// every sample is 0.5: crash point 6.00 and double result 3
	gen := newGenerator(t, engine.SourceFunc(func() float64 { return 0.5 }))

	steps := 0
	rep, err := Run(gen, 50, func() { steps++ })
	require.NoError(t, err)
	assert.Equal(t, 50, steps)

	assert.Equal(t, 50, rep.Crash.Rounds)
	assert.InDelta(t, 6.0, rep.Crash.Mean, 1e-9)
	assert.InDelta(t, 0.0, rep.Crash.StdDev, 1e-9)
	assert.InDelta(t, 6.0, rep.Crash.Median, 1e-9)
	assert.InDelta(t, 6.0, rep.Crash.Max, 1e-9)
	assert.InDelta(t, 1.5, rep.Crash.RTP["1.50x"], 1e-9)
	assert.InDelta(t, 5.0, rep.Crash.RTP["5.00x"], 1e-9)
	assert.InDelta(t, 0.0, rep.Crash.RTP["10.00x"], 1e-9)

	assert.Equal(t, 1.0, rep.Double.Frequency[3])
	assert.Equal(t, 0.0, rep.Double.Frequency[2])
	assert.Equal(t, 3.0, rep.Double.RTP[3])
	assert.Equal(t, 0.0, rep.Double.RTP[50])
}

func TestRunDistribution(t *testing.T) {
	gen := newGenerator(t, engine.NewRandSource(42))

	rep, err := RunCashOuts(gen, 200000, []float64{2}, nil)
	require.NoError(t, err)

	// banded mean: 0.5*2 + 0.3*6 + 0.15*30 + 0.05*75
	assert.InDelta(t, 11.05, rep.Crash.Mean, 0.3)
	assert.GreaterOrEqual(t, rep.Crash.Min, 1.0)
	assert.Less(t, rep.Crash.Max, 100.0)
	assert.LessOrEqual(t, rep.Crash.Median, rep.Crash.P90)
	assert.LessOrEqual(t, rep.Crash.P90, rep.Crash.P99)

	want := map[int]float64{2: 0.40, 3: 0.30, 4: 0.15, 10: 0.12, 50: 0.03}
	for m, f := range want {
		assert.InDelta(t, f, rep.Double.Frequency[m], 0.01, "result %d", m)
		assert.InDelta(t, f*float64(m), rep.Double.RTP[m], 0.02*float64(m), "result %d", m)
	}
}

func TestRunErrors(t *testing.T) {
	gen := newGenerator(t, engine.NewRandSource(1))
	_, err := Run(gen, 0, nil)
	assert.ErrorIs(t, err, ErrNoRounds)

	bad := newGenerator(t, engine.SourceFunc(func() float64 { return 1 }))
	_, err = Run(bad, 10, nil)
	assert.ErrorIs(t, err, engine.ErrEntropy)
}
