package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/avvvet/round-services/internal/gamesvc/engine"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed games.yaml
var defaultGames []byte

type Pool struct {
	MinCount int   `yaml:"min_count"`
	MaxCount int   `yaml:"max_count"`
	MinBet   int64 `yaml:"min_bet"`
	MaxBet   int64 `yaml:"max_bet"`
}

type AutoCashOut struct {
	Chance        float64 `yaml:"chance"`
	MinMultiplier float64 `yaml:"min_multiplier"`
}

type Crash struct {
	BettingSeconds   float64     `yaml:"betting_seconds"`
	TickMs           int         `yaml:"tick_ms"`
	UnitSeconds      float64     `yaml:"unit_seconds"`
	MaxFlightSeconds float64     `yaml:"max_flight_seconds"`
	CrashedSeconds   float64     `yaml:"crashed_seconds"`
	History          int         `yaml:"history"`
	Bettors          Pool        `yaml:"bettors"`
	AutoCashOut      AutoCashOut `yaml:"auto_cashout"`
}

type Double struct {
	BettingSeconds  float64 `yaml:"betting_seconds"`
	SpinningSeconds float64 `yaml:"spinning_seconds"`
	ResultSeconds   float64 `yaml:"result_seconds"`
	TickMs          int     `yaml:"tick_ms"`
	History         int     `yaml:"history"`
	Bettors         Pool    `yaml:"bettors"`
}

type Config struct {
	StartingBalance string   `yaml:"starting_balance"`
	Names           []string `yaml:"names"`
	Crash           Crash    `yaml:"crash"`
	Double          Double   `yaml:"double"`
}

// Load reads the embedded defaults, then the file named by GAMES_CONFIG on top
// of them when it is set.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultGames, cfg); err != nil {
		return nil, fmt.Errorf("default games config: %w", err)
	}

	if path := os.Getenv("GAMES_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read games config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse games config %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Names) == 0 {
		return fmt.Errorf("games config: names must not be empty")
	}
	if _, err := c.Balance(); err != nil {
		return fmt.Errorf("games config: starting_balance: %w", err)
	}
	if c.Crash.TickMs <= 0 || c.Double.TickMs <= 0 {
		return fmt.Errorf("games config: tick_ms must be positive")
	}
	if c.Crash.UnitSeconds <= 0 {
		return fmt.Errorf("games config: crash unit_seconds must be positive")
	}
	return nil
}

func (c *Config) Balance() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.StartingBalance)
	if err != nil {
		return decimal.Zero, err
	}
	if d.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("negative balance %s", d)
	}
	return d, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (p Pool) Engine() engine.PoolConfig {
	return engine.PoolConfig{
		MinCount: p.MinCount,
		MaxCount: p.MaxCount,
		MinBet:   p.MinBet,
		MaxBet:   p.MaxBet,
	}
}

func (c Crash) Engine() engine.CrashConfig {
	return engine.CrashConfig{
		Betting:   seconds(c.BettingSeconds),
		Tick:      time.Duration(c.TickMs) * time.Millisecond,
		Unit:      seconds(c.UnitSeconds),
		MaxFlight: seconds(c.MaxFlightSeconds),
		Crashed:   seconds(c.CrashedSeconds),
		History:   c.History,
		Policy: engine.CashOutPolicy{
			Chance:        c.AutoCashOut.Chance,
			MinMultiplier: c.AutoCashOut.MinMultiplier,
		},
	}
}

func (d Double) Engine() engine.DoubleConfig {
	return engine.DoubleConfig{
		Betting:  seconds(d.BettingSeconds),
		Spinning: seconds(d.SpinningSeconds),
		Result:   seconds(d.ResultSeconds),
		Tick:     time.Duration(d.TickMs) * time.Millisecond,
		History:  d.History,
	}
}
