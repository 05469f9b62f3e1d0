package engine

import (
	"strings"
	"sync"
	"time"

	"github.com/avvvet/round-services/internal/gamesvc/models"
	"github.com/shopspring/decimal"
)

// journal lines kept in memory. The journal grows to twice the limit before the
// oldest lines are dropped in one go.
const journalLimit = 10000

// Ledger owns every balance movement. Stakes are debited when the bet is placed
// and winnings are credited at cash out or settlement.
type Ledger struct {
	mu      sync.Mutex
	nextID  int64
	journal []models.Balance
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// ParseAmount reads a bet amount typed by a client.
func ParseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !validAmount(d) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// amounts are positive with at most two decimals
func validAmount(d decimal.Decimal) bool {
	return d.Sign() > 0 && d.Equal(d.Truncate(2))
}

func (l *Ledger) Balance(u *models.User) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return u.Balance
}

// Debit takes amount from the user. It fails with ErrInsufficientBalance rather
// than going negative.
func (l *Ledger) Debit(u *models.User, amount decimal.Decimal, ttype, tref string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debit(u, amount, ttype, tref)
}

func (l *Ledger) Credit(u *models.User, amount decimal.Decimal, ttype, tref string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(u, amount, ttype, tref)
}

func (l *Ledger) debit(u *models.User, amount decimal.Decimal, ttype, tref string) error {
	if u.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	u.Balance = u.Balance.Sub(amount)
	l.record(u, ttype, decimal.Zero, amount, tref)
	return nil
}

func (l *Ledger) credit(u *models.User, amount decimal.Decimal, ttype, tref string) {
	u.Balance = u.Balance.Add(amount)
	l.record(u, ttype, amount, decimal.Zero, tref)
}

func (l *Ledger) record(u *models.User, ttype string, dr, cr decimal.Decimal, tref string) {
	l.nextID++
	l.journal = append(l.journal, models.Balance{
		ID:        l.nextID,
		UserID:    u.UserId,
		TType:     ttype,
		Dr:        dr,
		Cr:        cr,
		TRef:      tref,
		CreatedAt: time.Now(),
	})
	if len(l.journal) >= 2*journalLimit {
		l.journal = append([]models.Balance(nil), l.journal[len(l.journal)-journalLimit:]...)
	}
}

// PlaceBet validates a stake and debits it. open tells whether the round accepts
// bets. The returned participant has no status yet; the scheduler assigns one.
func (l *Ledger) PlaceBet(u *models.User, amount decimal.Decimal, open bool) (*Participant, error) {
	if u == nil {
		return nil, ErrUnauthenticated
	}
	if !validAmount(amount) {
		return nil, ErrInvalidAmount
	}
	if !open {
		return nil, ErrWrongPhase
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p := newParticipant(u.Name, u, amount)
	if err := l.debit(u, amount, models.TTypeBet, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// Settle finalizes p with payout and credits the owner. It returns false, and
// moves no money, when p was already finalized. A cashed position was paid at
// cash out, so settling it only finalizes it.
func (l *Ledger) Settle(p *Participant, payout decimal.Decimal) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if p.settled {
		return false
	}
	p.settled = true
	if p.Status == StatusCashed {
		return true
	}
	p.Payout = payout
	if p.User != nil && payout.Sign() > 0 {
		l.credit(p.User, payout, models.TTypePayout, p.ID)
	}
	return true
}

// CashOut pays floor(bet * multiplier) to a playing crash participant. The
// position stays unsettled until the round crashes.
func (l *Ledger) CashOut(p *Participant, multiplier float64) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if p.settled || p.Status != StatusPlaying {
		return decimal.Zero, ErrNoActivePosition
	}
	payout := p.Bet.Mul(decimal.NewFromFloat(multiplier)).Floor()

	p.Status = StatusCashed
	p.CashOutMultiplier = multiplier
	p.Payout = payout
	if p.User != nil {
		l.credit(p.User, payout, models.TTypeCashOut, p.ID)
	}
	return payout, nil
}

// Journal returns the movements recorded for one user, oldest first.
func (l *Ledger) Journal(userID int64) []models.Balance {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []models.Balance
	for _, b := range l.journal {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out
}
