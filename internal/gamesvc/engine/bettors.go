package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PoolConfig bounds one round's synthetic crowd. Both ranges are inclusive.
type PoolConfig struct {
	MinCount int
	MaxCount int
	MinBet   int64
	MaxBet   int64
}

// BettorPool produces the synthetic participants of a round.
type BettorPool struct {
	names []string
	cfg   PoolConfig
	src   Source
}

func NewBettorPool(names []string, cfg PoolConfig, src Source) (*BettorPool, error) {
	if src == nil {
		return nil, ErrNoEntropy
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("bettor pool: empty name list")
	}
	if cfg.MinCount < 0 || cfg.MaxCount < cfg.MinCount {
		return nil, fmt.Errorf("bettor pool: bad count range %d-%d", cfg.MinCount, cfg.MaxCount)
	}
	if cfg.MinBet <= 0 || cfg.MaxBet < cfg.MinBet {
		return nil, fmt.Errorf("bettor pool: bad bet range %d-%d", cfg.MinBet, cfg.MaxBet)
	}
	return &BettorPool{names: names, cfg: cfg, src: src}, nil
}

// Generate returns a fresh crowd. Names are drawn with replacement.
func (b *BettorPool) Generate() ([]*Participant, error) {
	u, err := sample(b.src)
	if err != nil {
		return nil, err
	}
	count := intBetween(u, int64(b.cfg.MinCount), int64(b.cfg.MaxCount))

	out := make([]*Participant, 0, count)
	for i := int64(0); i < count; i++ {
		nu, err := sample(b.src)
		if err != nil {
			return nil, err
		}
		su, err := sample(b.src)
		if err != nil {
			return nil, err
		}
		bu, err := sample(b.src)
		if err != nil {
			return nil, err
		}

		name := b.names[intBetween(nu, 0, int64(len(b.names)-1))]
		suffix := intBetween(su, 10, 99)
		bet := intBetween(bu, b.cfg.MinBet, b.cfg.MaxBet)

		out = append(out, newParticipant(fmt.Sprintf("%s%02d", name, suffix), nil, decimal.NewFromInt(bet)))
	}
	return out, nil
}

// pickTarget chooses a double multiplier for a synthetic bettor.
func pickTarget(src Source) (int, error) {
	u, err := sample(src)
	if err != nil {
		return 0, err
	}
	return DoubleMultipliers[intBetween(u, 0, int64(len(DoubleMultipliers)-1))], nil
}

// CashOutPolicy drives the synthetic crowd while a crash round flies.
type CashOutPolicy struct {
	Chance        float64 // per tick
	MinMultiplier float64 // exclusive
}

// AutoCashOut decides, for one synthetic participant and one tick, whether it
// cashes out at multiplier given the sample u.
func AutoCashOut(p CashOutPolicy, multiplier, u float64) bool {
	return multiplier > p.MinMultiplier && u < p.Chance
}
