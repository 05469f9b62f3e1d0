package engine

import (
	"testing"

	"github.com/avvvet/round-services/internal/gamesvc/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceBetWholeBalance(t *testing.T) {
	l := NewLedger()
	u := newUser(1, 1000)

	p, err := l.PlaceBet(u, dec(1000), true)
	require.NoError(t, err)
	assert.True(t, p.Bet.Equal(dec(1000)))
	assert.True(t, l.Balance(u).IsZero())
}

func TestPlaceBetOverBalance(t *testing.T) {
	l := NewLedger()
	u := newUser(1, 1000)

	_, err := l.PlaceBet(u, dec(1001), true)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, l.Balance(u).Equal(dec(1000)))
	assert.Empty(t, l.Journal(1))
}

func TestPlaceBetRejections(t *testing.T) {
	tests := []struct {
		name   string
		user   *models.User
		amount decimal.Decimal
		open   bool
		want   error
	}{
		{"no user", nil, dec(10), true, ErrUnauthenticated},
		{"zero", newUser(1, 100), decimal.Zero, true, ErrInvalidAmount},
		{"negative", newUser(1, 100), dec(-5), true, ErrInvalidAmount},
		{"sub cent", newUser(1, 100), decimal.RequireFromString("1.005"), true, ErrInvalidAmount},
		{"closed", newUser(1, 100), dec(10), false, ErrWrongPhase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger()
			_, err := l.PlaceBet(tt.user, tt.amount, tt.open)
			assert.ErrorIs(t, err, tt.want)
			if tt.user != nil {
				assert.True(t, tt.user.Balance.Equal(dec(100)))
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	for _, raw := range []string{"", "abc", "NaN", "0", "-1", "0.001", "1e-3"} {
		_, err := ParseAmount(raw)
		assert.ErrorIs(t, err, ErrInvalidAmount, raw)
	}

	d, err := ParseAmount(" 12.50 ")
	require.NoError(t, err)
	assert.Equal(t, "12.5", d.String())

	d, err = ParseAmount("100")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec(100)))
}

func TestSettleIsIdempotent(t *testing.T) {
	l := NewLedger()
	u := newUser(1, 500)

	p, err := l.PlaceBet(u, dec(200), true)
	require.NoError(t, err)

	assert.True(t, l.Settle(p, dec(600)))
	assert.True(t, l.Balance(u).Equal(dec(900)))

	assert.False(t, l.Settle(p, dec(600)))
	assert.True(t, l.Balance(u).Equal(dec(900)))
	assert.True(t, p.Settled())
}

func TestSettleSyntheticMovesNoMoney(t *testing.T) {
	l := NewLedger()
	p := newParticipant("Nova42", nil, dec(300))

	assert.True(t, l.Settle(p, dec(900)))
	assert.True(t, p.Payout.Equal(dec(900)))
	assert.Empty(t, l.Journal(0))
}

func TestSettleAfterCashOutKeepsPayout(t *testing.T) {
	l := NewLedger()
	u := newUser(1, 1000)

	p, err := l.PlaceBet(u, dec(100), true)
	require.NoError(t, err)
	p.Status = StatusPlaying

	_, err = l.CashOut(p, 1.5)
	require.NoError(t, err)
	assert.False(t, p.Settled())

	assert.True(t, l.Settle(p, dec(0)))
	assert.True(t, p.Settled())
	assert.True(t, p.Payout.Equal(dec(150)))
	assert.True(t, l.Balance(u).Equal(dec(1050)))
	assert.Len(t, l.Journal(1), 2)
}

func TestCashOutFloorsPayout(t *testing.T) {
	tests := []struct {
		bet        int64
		multiplier float64
		want       int64
	}{
		{100, 1.80, 180},
		{33, 1.57, 51},
		{999, 1.01, 1008},
		{250, 2.5, 625},
	}
	for _, tt := range tests {
		l := NewLedger()
		u := newUser(1, 1000)
		p, err := l.PlaceBet(u, dec(tt.bet), true)
		require.NoError(t, err)
		p.Status = StatusPlaying

		payout, err := l.CashOut(p, tt.multiplier)
		require.NoError(t, err)
		assert.True(t, payout.Equal(dec(tt.want)), "got %s", payout)
		assert.Equal(t, StatusCashed, p.Status)
		assert.Equal(t, tt.multiplier, p.CashOutMultiplier)
		assert.True(t, l.Balance(u).Equal(dec(1000-tt.bet+tt.want)))

		_, err = l.CashOut(p, tt.multiplier)
		assert.ErrorIs(t, err, ErrNoActivePosition)
	}
}

func TestJournal(t *testing.T) {
	l := NewLedger()
	u := newUser(7, 1000)

	p, err := l.PlaceBet(u, dec(100), true)
	require.NoError(t, err)
	l.Settle(p, dec(300))

	j := l.Journal(7)
	require.Len(t, j, 2)
	assert.Equal(t, models.TTypeBet, j[0].TType)
	assert.True(t, j[0].Cr.Equal(dec(100)))
	assert.Equal(t, p.ID, j[0].TRef)
	assert.Equal(t, models.TTypePayout, j[1].TType)
	assert.True(t, j[1].Dr.Equal(dec(300)))
}

func TestDebitCredit(t *testing.T) {
	l := NewLedger()
	u := newUser(1, 50)

	assert.ErrorIs(t, l.Debit(u, dec(51), models.TTypeBet, "x"), ErrInsufficientBalance)
	require.NoError(t, l.Debit(u, dec(50), models.TTypeBet, "x"))
	l.Credit(u, dec(20), models.TTypePayout, "x")
	assert.True(t, l.Balance(u).Equal(dec(20)))
}

func TestJournalIsBounded(t *testing.T) {
	l := NewLedger()
	u := newUser(3, 0)

	for i := 0; i < 2*journalLimit-1; i++ {
		l.Credit(u, dec(1), models.TTypePayout, "x")
	}
	assert.Len(t, l.Journal(3), 2*journalLimit-1)

	l.Credit(u, dec(1), models.TTypePayout, "last")
	j := l.Journal(3)
	require.Len(t, j, journalLimit)
	assert.Equal(t, "last", j[len(j)-1].TRef)
	assert.Equal(t, int64(2*journalLimit), j[len(j)-1].ID)
	assert.Equal(t, int64(journalLimit+1), j[0].ID)
	assert.True(t, l.Balance(u).Equal(dec(2*journalLimit)))
}
