package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avvvet/round-services/internal/gamesvc/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const GameDouble = "double"

type DoubleConfig struct {
	Betting  time.Duration
	Spinning time.Duration // reveal delay
	Result   time.Duration // pause after settlement
	Tick     time.Duration
	History  int
}

// Double runs the double game: betting, spinning, result, and again.
type Double struct {
	mu      sync.Mutex
	cfg     DoubleConfig
	gen     *Generator
	pool    *BettorPool
	ledger  *Ledger
	history *History
	notify  notifier
	now     func() time.Time

	round  round
	result int
}

func NewDouble(cfg DoubleConfig, gen *Generator, pool *BettorPool, ledger *Ledger) (*Double, error) {
	if gen == nil || pool == nil {
		return nil, ErrNoEntropy
	}
	if ledger == nil {
		return nil, fmt.Errorf("double: ledger is required")
	}
	if cfg.Tick <= 0 {
		return nil, fmt.Errorf("double: tick must be positive")
	}
	d := &Double{
		cfg:     cfg,
		gen:     gen,
		pool:    pool,
		ledger:  ledger,
		history: NewHistory(cfg.History),
		now:     time.Now,
	}
	if err := d.startRound(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Double) startRound() error {
	crowd, err := d.pool.Generate()
	if err != nil {
		return err
	}
	for _, p := range crowd {
		target, err := pickTarget(d.pool.src)
		if err != nil {
			return err
		}
		p.Target = target
		p.Status = StatusPending
	}
	d.round.id++
	d.round.participants = crowd
	d.round.enter(PhaseBetting, d.now())
	d.result = 0

	log.Infof("double round %d open for bets, %d synthetic bettors", d.round.id, len(crowd))
	return nil
}

func (d *Double) spin() error {
	result, err := d.gen.DoubleResult()
	if err != nil {
		return err
	}
	d.result = result
	d.round.enter(PhaseSpinning, d.now())
	return nil
}

// reveal settles the whole round against the drawn result.
func (d *Double) reveal() {
	winners := 0
	for _, p := range d.round.participants {
		p.Won = p.Target == d.result
		payout := decimal.Zero
		if p.Won {
			payout = p.Bet.Mul(decimal.NewFromInt(int64(p.Target)))
			p.Status = StatusWon
			winners++
		} else {
			p.Status = StatusLost
		}
		d.ledger.Settle(p, payout)
	}
	d.history.Push(float64(d.result))
	d.round.enter(PhaseResult, d.now())

	log.Infof("double round %d result %dx, %d winning positions", d.round.id, d.result, winners)
}

func (d *Double) advance(dt time.Duration) error {
	d.round.elapsed += dt
	switch d.round.phase {
	case PhaseBetting:
		if d.round.elapsed >= d.cfg.Betting {
			return d.spin()
		}
	case PhaseSpinning:
		if d.round.elapsed >= d.cfg.Spinning {
			d.reveal()
		}
	case PhaseResult:
		if d.round.elapsed >= d.cfg.Result {
			return d.startRound()
		}
	}
	return nil
}

// Tick advances the round by dt and notifies subscribers.
func (d *Double) Tick(dt time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.advance(dt); err != nil {
		return fmt.Errorf("double round %d: %w", d.round.id, err)
	}
	d.notify.publish(d.snapshot())
	return nil
}

func (d *Double) Run(ctx context.Context) error {
	defer d.notify.close()
	return runTicker(ctx, d.cfg.Tick, d.Tick)
}

// PlaceBet stakes amount on target. A user may hold several bets per round.
func (d *Double) PlaceBet(u *models.User, amount decimal.Decimal, target int) (ParticipantView, error) {
	if u == nil {
		return ParticipantView{}, ErrUnauthenticated
	}
	if !ValidTarget(target) {
		return ParticipantView{}, ErrInvalidTarget
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.ledger.PlaceBet(u, amount, d.round.phase == PhaseBetting)
	if err != nil {
		return ParticipantView{}, err
	}
	p.Target = target
	p.Status = StatusPending
	d.round.participants = append(d.round.participants, p)

	log.Infof("double round %d: user %d bet %s on %dx", d.round.id, u.UserId, amount.StringFixed(2), target)
	return p.View(), nil
}

func (d *Double) snapshot() Snapshot {
	var hold time.Duration
	switch d.round.phase {
	case PhaseBetting:
		hold = d.cfg.Betting
	case PhaseSpinning:
		hold = d.cfg.Spinning
	case PhaseResult:
		hold = d.cfg.Result
	}
	s := d.round.snapshot(GameDouble, hold, d.history)
	if d.round.phase == PhaseResult {
		s.Result = d.result
	}
	return s
}

func (d *Double) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

func (d *Double) Subscribe(buffer int) (<-chan Snapshot, func()) {
	return d.notify.subscribe(buffer)
}
