package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/backsim/market"
	"github.com/rustyeddy/backsim/sim"
	"github.com/rustyeddy/backsim/strategies"
	"gopkg.in/yaml.v3"
)

// Run represents a complete backtest run configuration.
type Run struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Symbols  []SymbolConfig `json:"symbols" yaml:"symbols"`
}

// AccountConfig contains the run-level cash flow parameters.
type AccountConfig struct {
	InitialDeposit  float64 `json:"initial_deposit" yaml:"initial_deposit"`
	PeriodicDeposit float64 `json:"periodic_deposit" yaml:"periodic_deposit"`
	DepositInterval int     `json:"deposit_interval" yaml:"deposit_interval"` // days
	Inflation       float64 `json:"inflation" yaml:"inflation"`               // %/year
	Commission      float64 `json:"commission" yaml:"commission"`             // per trade
}

// StrategyConfig contains strategy parameters.
type StrategyConfig struct {
	Name      string  `json:"name" yaml:"name"`             // "bh" or "ma-cross"
	Period    int     `json:"period" yaml:"period"`         // moving average period, days
	Offset    int     `json:"offset" yaml:"offset"`         // warm-up days before trading
	MarginRec float64 `json:"margin_rec" yaml:"margin_rec"` // borrow fraction enabling shorts
	MarginReq float64 `json:"margin_req" yaml:"margin_req"`
}

// SymbolConfig contains the per-symbol data parameters applied to a
// loaded quote series.
type SymbolConfig struct {
	Symbol             string  `json:"symbol" yaml:"symbol"`
	Spread             float64 `json:"spread" yaml:"spread"`         // %
	MarginRec          float64 `json:"margin_rec" yaml:"margin_rec"` // fraction
	MarginReq          float64 `json:"margin_req" yaml:"margin_req"` // fraction
	MarginFee          float64 `json:"margin_fee" yaml:"margin_fee"` // %/year
	UseYield           float64 `json:"use_yield" yaml:"use_yield"`   // %/year
	YieldInterval      int     `json:"yield_interval" yaml:"yield_interval"`
	TrendChangePeriod  int     `json:"trend_change_period" yaml:"trend_change_period"`
	TrendChangePercent float64 `json:"trend_change_percent" yaml:"trend_change_percent"`
}

// LoadFromFile loads a run configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Run{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves a run configuration to a file (JSON or YAML based on
// extension).
func (c *Run) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration. Simulation-level ranges are
// checked by sim.Config and market.Series as well; this catches errors
// before any quote data is loaded.
func (c *Run) Validate() error {
	if err := c.Sim().Validate(); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(c.Strategy.Name)) {
	case "bh", "buy-and-hold", "buyandhold":
	case "ma", "ma-cross", "macross":
		if c.Strategy.Period <= 0 {
			return fmt.Errorf("strategy.period must be positive for %s, got %d", c.Strategy.Name, c.Strategy.Period)
		}
	case "":
		return fmt.Errorf("strategy.name is required")
	default:
		return fmt.Errorf("unknown strategy.name %q", c.Strategy.Name)
	}
	if c.Strategy.Offset < 0 {
		return fmt.Errorf("strategy.offset must be >= 0, got %d", c.Strategy.Offset)
	}
	if c.Strategy.MarginRec < 0 || c.Strategy.MarginRec > 1 {
		return fmt.Errorf("strategy.margin_rec must be within [0, 1], got %v", c.Strategy.MarginRec)
	}
	if c.Strategy.MarginReq < 0 || c.Strategy.MarginReq > 1 {
		return fmt.Errorf("strategy.margin_req must be within [0, 1], got %v", c.Strategy.MarginReq)
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbols entry is required")
	}
	for i, s := range c.Symbols {
		if s.Symbol == "" {
			return fmt.Errorf("symbols[%d].symbol is required", i)
		}
	}
	return nil
}

// Sim maps the account parameters onto the engine configuration.
func (c *Run) Sim() sim.Config {
	return sim.Config{
		Commission:      c.Account.Commission,
		InitialDeposit:  c.Account.InitialDeposit,
		PeriodicDeposit: c.Account.PeriodicDeposit,
		DepositInterval: c.Account.DepositInterval,
		Inflation:       c.Account.Inflation,
	}
}

// Apply copies the per-symbol parameters for the series' symbol onto a
// loaded series. Unknown symbols are left untouched.
func (c *Run) Apply(s *market.Series) {
	for _, sc := range c.Symbols {
		if sc.Symbol != s.Symbol {
			continue
		}
		s.Spread = sc.Spread
		s.MarginRec = sc.MarginRec
		s.MarginReq = sc.MarginReq
		s.MarginFee = sc.MarginFee
		s.UseYield = sc.UseYield
		s.YieldInterval = sc.YieldInterval
		s.TrendChangePeriod = sc.TrendChangePeriod
		s.TrendChangePercent = sc.TrendChangePercent
		return
	}
}

// StrategyFor builds the configured strategy for one series.
func (c *Run) StrategyFor(s *market.Series) (strategies.Strategy, error) {
	return strategies.ByName(c.Strategy.Name, c.Strategy.Offset, &strategies.MACrossConfig{
		Period:             c.Strategy.Period,
		TrendChangePeriod:  s.TrendChangePeriod,
		TrendChangePercent: s.TrendChangePercent,
		MarginRec:          c.Strategy.MarginRec,
		MarginReq:          c.Strategy.MarginReq,
	})
}

// Default returns a configuration with sensible demo defaults.
func Default() *Run {
	return &Run{
		Account: AccountConfig{
			InitialDeposit:  10000,
			PeriodicDeposit: 500,
			DepositInterval: 30,
			Inflation:       2.5,
			Commission:      2.5,
		},
		Strategy: StrategyConfig{
			Name:   "bh",
			Period: 50,
		},
		Symbols: []SymbolConfig{
			{
				Symbol: "SPY",
				Spread: 0.1,
			},
		},
	}
}
