package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/avvvet/round-services/internal/gamesvc/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const GameCrash = "crash"

type CrashConfig struct {
	Betting   time.Duration // betting window
	Tick      time.Duration // sampling interval while running
	Unit      time.Duration // flight time per unit of crash point
	MaxFlight time.Duration
	Crashed   time.Duration // pause after the crash
	History   int
	Policy    CashOutPolicy
}

// CashOutResult is what a user receives from Crash.CashOut.
type CashOutResult struct {
	Multiplier float64         `json:"multiplier"`
	Payout     decimal.Decimal `json:"payout"`
	Positions  int             `json:"positions"`
}

// Crash runs the crash game: betting, flying, crashed, and again.
type Crash struct {
	mu      sync.Mutex
	cfg     CrashConfig
	gen     *Generator
	pool    *BettorPool
	ledger  *Ledger
	history *History
	notify  notifier
	now     func() time.Time

	round      round
	target     float64
	duration   time.Duration
	multiplier float64
}

// NewCrash builds the scheduler and opens the first betting window.
func NewCrash(cfg CrashConfig, gen *Generator, pool *BettorPool, ledger *Ledger) (*Crash, error) {
	if gen == nil || pool == nil {
		return nil, ErrNoEntropy
	}
	if ledger == nil {
		return nil, fmt.Errorf("crash: ledger is required")
	}
	if cfg.Tick <= 0 || cfg.Unit <= 0 {
		return nil, fmt.Errorf("crash: tick and unit must be positive")
	}
	c := &Crash{
		cfg:     cfg,
		gen:     gen,
		pool:    pool,
		ledger:  ledger,
		history: NewHistory(cfg.History),
		now:     time.Now,
	}
	if err := c.startRound(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Crash) startRound() error {
	crowd, err := c.pool.Generate()
	if err != nil {
		return err
	}
	for _, p := range crowd {
		p.Status = StatusPlaying
	}
	c.round.id++
	c.round.participants = crowd
	c.round.enter(PhaseBetting, c.now())
	c.target = 0
	c.duration = 0
	c.multiplier = 1

	log.Infof("crash round %d open for bets, %d synthetic bettors", c.round.id, len(crowd))
	return nil
}

func (c *Crash) takeOff() error {
	target, err := c.gen.CrashPoint()
	if err != nil {
		return err
	}
	c.target = target
	c.duration = time.Duration(target * float64(c.cfg.Unit))
	if c.cfg.MaxFlight > 0 && c.duration > c.cfg.MaxFlight {
		c.duration = c.cfg.MaxFlight
	}
	c.multiplier = 1
	c.round.enter(PhaseFlying, c.now())
	return nil
}

func (c *Crash) fly() error {
	progress := float64(c.round.elapsed) / float64(c.duration)
	if progress >= 1 {
		c.crash()
		return nil
	}

	m := math.Floor((1+(c.target-1)*progress)*100) / 100
	if m > c.multiplier {
		c.multiplier = m
	}

	src := c.pool.src
	for _, p := range c.round.participants {
		if !p.Synthetic() || p.Status != StatusPlaying || c.multiplier <= c.cfg.Policy.MinMultiplier {
			continue
		}
		u, err := sample(src)
		if err != nil {
			return err
		}
		if AutoCashOut(c.cfg.Policy, c.multiplier, u) {
			if _, err := c.ledger.CashOut(p, c.multiplier); err != nil {
				log.Warnf("Error [Crash.fly] auto cash out of %s: %s", p.Name, err)
			}
		}
	}
	return nil
}

// crash settles every participant and records the crash point. Positions still
// riding are lost.
func (c *Crash) crash() {
	c.multiplier = c.target
	lost := 0
	for _, p := range c.round.participants {
		if p.Status == StatusPlaying {
			p.Status = StatusCrashed
			lost++
		}
		c.ledger.Settle(p, decimal.Zero)
	}
	c.history.Push(c.target)
	c.round.enter(PhaseCrashed, c.now())

	log.Infof("crash round %d crashed at %.2fx, %d positions lost", c.round.id, c.target, lost)
}

func (c *Crash) advance(dt time.Duration) error {
	c.round.elapsed += dt
	switch c.round.phase {
	case PhaseBetting:
		if c.round.elapsed >= c.cfg.Betting {
			return c.takeOff()
		}
	case PhaseFlying:
		return c.fly()
	case PhaseCrashed:
		if c.round.elapsed >= c.cfg.Crashed {
			return c.startRound()
		}
	}
	return nil
}

// Tick advances the round by dt and notifies subscribers. At most one phase
// transition happens per call. Any error is fatal to the game.
func (c *Crash) Tick(dt time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.advance(dt); err != nil {
		return fmt.Errorf("crash round %d: %w", c.round.id, err)
	}
	c.notify.publish(c.snapshot())
	return nil
}

// Run drives the scheduler from the wall clock until ctx is done, then closes
// every subscription.
func (c *Crash) Run(ctx context.Context) error {
	defer c.notify.close()
	return runTicker(ctx, c.cfg.Tick, c.Tick)
}

// PlaceBet stakes amount for u in the current betting window.
func (c *Crash) PlaceBet(u *models.User, amount decimal.Decimal) (ParticipantView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.ledger.PlaceBet(u, amount, c.round.phase == PhaseBetting)
	if err != nil {
		return ParticipantView{}, err
	}
	p.Status = StatusPlaying
	c.round.participants = append(c.round.participants, p)

	log.Infof("crash round %d: user %d bet %s", c.round.id, u.UserId, amount.StringFixed(2))
	return p.View(), nil
}

// CashOut closes every playing position of u at the current multiplier.
func (c *Crash) CashOut(u *models.User) (CashOutResult, error) {
	if u == nil {
		return CashOutResult{}, ErrUnauthenticated
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.round.phase != PhaseFlying {
		return CashOutResult{}, ErrWrongPhase
	}

	res := CashOutResult{Multiplier: c.multiplier, Payout: decimal.Zero}
	for _, p := range c.round.participants {
		if !p.ownedBy(u) || p.Status != StatusPlaying {
			continue
		}
		payout, err := c.ledger.CashOut(p, c.multiplier)
		if err != nil {
			continue
		}
		res.Payout = res.Payout.Add(payout)
		res.Positions++
	}
	if res.Positions == 0 {
		return CashOutResult{}, ErrNoActivePosition
	}

	log.Infof("crash round %d: user %d cashed out at %.2fx for %s", c.round.id, u.UserId, res.Multiplier, res.Payout.StringFixed(2))
	return res, nil
}

func (c *Crash) snapshot() Snapshot {
	var hold time.Duration
	switch c.round.phase {
	case PhaseBetting:
		hold = c.cfg.Betting
	case PhaseCrashed:
		hold = c.cfg.Crashed
	}
	s := c.round.snapshot(GameCrash, hold, c.history)
	s.Multiplier = c.multiplier
	return s
}

func (c *Crash) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Subscribe returns a channel of snapshots, one per tick, and its release func.
func (c *Crash) Subscribe(buffer int) (<-chan Snapshot, func()) {
	return c.notify.subscribe(buffer)
}
