package engine

import (
	"time"

	"github.com/avvvet/round-services/internal/gamesvc/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Phase string

const (
	PhaseBetting  Phase = "betting"
	PhaseFlying   Phase = "flying"
	PhaseCrashed  Phase = "crashed"
	PhaseSpinning Phase = "spinning"
	PhaseResult   Phase = "result"
)

type Status string

const (
	StatusPlaying Status = "playing" // crash, stake still riding
	StatusCashed  Status = "cashed"
	StatusCrashed Status = "crashed"
	StatusPending Status = "pending" // double, waiting for the result
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Participant is one stake inside one round. User is nil for synthetic bettors.
type Participant struct {
	ID                string
	Name              string
	User              *models.User
	Bet               decimal.Decimal
	Status            Status
	CashOutMultiplier float64
	Target            int
	Won               bool
	Payout            decimal.Decimal
	PlacedAt          time.Time

	settled bool
}

func newParticipant(name string, user *models.User, bet decimal.Decimal) *Participant {
	return &Participant{
		ID:       uuid.New().String(),
		Name:     name,
		User:     user,
		Bet:      bet,
		PlacedAt: time.Now(),
	}
}

func (p *Participant) Synthetic() bool { return p.User == nil }

// Settled reports whether the participant has been finalized.
func (p *Participant) Settled() bool { return p.settled }

func (p *Participant) ownedBy(u *models.User) bool {
	return u != nil && p.User != nil && p.User.UserId == u.UserId
}

// round is the state shared by both schedulers.
type round struct {
	id           int64
	phase        Phase
	enteredAt    time.Time
	elapsed      time.Duration
	participants []*Participant
}

func (r *round) enter(p Phase, now time.Time) {
	r.phase = p
	r.enteredAt = now
	r.elapsed = 0
}

// History keeps the most recent outcomes first.
type History struct {
	capacity int
	values   []float64
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{capacity: capacity, values: make([]float64, 0, capacity)}
}

func (h *History) Push(v float64) {
	h.values = append([]float64{v}, h.values...)
	if len(h.values) > h.capacity {
		h.values = h.values[:h.capacity]
	}
}

func (h *History) Values() []float64 {
	return append([]float64(nil), h.values...)
}
