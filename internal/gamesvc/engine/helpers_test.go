package engine

import (
	"testing"
	"time"

	"github.com/avvvet/round-services/internal/gamesvc/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// seqSource replays vals in a loop.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Next() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func seq(vals ...float64) *seqSource { return &seqSource{vals: vals} }

var testNames = []string{"Viper", "Nova", "Ghost", "Raven"}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newUser(id int64, balance int64) *models.User {
	return &models.User{UserId: id, Name: "player", Balance: dec(balance)}
}

func testCrashConfig() CrashConfig {
	return CrashConfig{
		Betting:   10 * time.Second,
		Tick:      50 * time.Millisecond,
		Unit:      time.Second,
		MaxFlight: 15 * time.Second,
		Crashed:   3 * time.Second,
		History:   5,
		Policy:    CashOutPolicy{Chance: 0.01, MinMultiplier: 1.5},
	}
}

func testDoubleConfig() DoubleConfig {
	return DoubleConfig{
		Betting:  15 * time.Second,
		Spinning: 3 * time.Second,
		Result:   5 * time.Second,
		Tick:     250 * time.Millisecond,
		History:  5,
	}
}

// newTestCrash wires a crash scheduler whose outcomes come from outcome and whose
// crowd comes from a seeded source.
func newTestCrash(t *testing.T, outcome Source) (*Crash, *Ledger) {
	t.Helper()
	gen, err := NewGenerator(outcome)
	require.NoError(t, err)
	pool, err := NewBettorPool(testNames, PoolConfig{MinCount: 3, MaxCount: 6, MinBet: 100, MaxBet: 1000}, NewRandSource(7))
	require.NoError(t, err)
	ledger := NewLedger()
	c, err := NewCrash(testCrashConfig(), gen, pool, ledger)
	require.NoError(t, err)
	return c, ledger
}

func newTestDouble(t *testing.T, outcome Source) (*Double, *Ledger) {
	t.Helper()
	gen, err := NewGenerator(outcome)
	require.NoError(t, err)
	pool, err := NewBettorPool(testNames, PoolConfig{MinCount: 3, MaxCount: 7, MinBet: 200, MaxBet: 999}, NewRandSource(11))
	require.NoError(t, err)
	ledger := NewLedger()
	d, err := NewDouble(testDoubleConfig(), gen, pool, ledger)
	require.NoError(t, err)
	return d, ledger
}

func findUserView(s Snapshot, userID int64) (ParticipantView, bool) {
	for _, p := range s.Participants {
		if p.UserId == userID {
			return p, true
		}
	}
	return ParticipantView{}, false
}
