package engine

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ParticipantView is the read-only form of a Participant.
type ParticipantView struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	UserId            int64           `json:"user_id,omitempty"`
	Synthetic         bool            `json:"synthetic"`
	Bet               decimal.Decimal `json:"bet"`
	Status            Status          `json:"status"`
	CashOutMultiplier float64         `json:"cashout_multiplier,omitempty"`
	Target            int             `json:"target,omitempty"`
	Won               bool            `json:"won"`
	Payout            decimal.Decimal `json:"payout"`
	Settled           bool            `json:"settled"`
	PlacedAt          time.Time       `json:"placed_at"`
}

func (p *Participant) View() ParticipantView {
	v := ParticipantView{
		ID:                p.ID,
		Name:              p.Name,
		Synthetic:         p.Synthetic(),
		Bet:               p.Bet,
		Status:            p.Status,
		CashOutMultiplier: p.CashOutMultiplier,
		Target:            p.Target,
		Won:               p.Won,
		Payout:            p.Payout,
		Settled:           p.settled,
		PlacedAt:          p.PlacedAt,
	}
	if p.User != nil {
		v.UserId = p.User.UserId
	}
	return v
}

// Snapshot is a copy of a scheduler's live round. Result is only set once the
// double round reached its result phase.
type Snapshot struct {
	Game           string            `json:"game"`
	RoundID        int64             `json:"round_id"`
	Phase          Phase             `json:"phase"`
	PhaseEnteredAt time.Time         `json:"phase_entered_at"`
	ElapsedMs      int64             `json:"elapsed_ms"`
	Countdown      int               `json:"countdown"`
	Multiplier     float64           `json:"multiplier,omitempty"`
	Result         int               `json:"result,omitempty"`
	Participants   []ParticipantView `json:"participants"`
	History        []float64         `json:"history"`
}

func (r *round) snapshot(game string, hold time.Duration, history *History) Snapshot {
	s := Snapshot{
		Game:           game,
		RoundID:        r.id,
		Phase:          r.phase,
		PhaseEnteredAt: r.enteredAt,
		ElapsedMs:      r.elapsed.Milliseconds(),
		Countdown:      countdown(hold, r.elapsed),
		Participants:   make([]ParticipantView, 0, len(r.participants)),
		History:        history.Values(),
	}
	for _, p := range r.participants {
		s.Participants = append(s.Participants, p.View())
	}
	return s
}

// countdown is the number of whole time units left in a timed phase.
func countdown(hold, elapsed time.Duration) int {
	if hold <= 0 || elapsed >= hold {
		return 0
	}
	return int(math.Ceil((hold - elapsed).Seconds()))
}
