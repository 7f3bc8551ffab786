package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backsim/market"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFileYAML(t *testing.T) {
	path := writeFile(t, "run.yaml", `
account:
  initial_deposit: 10000
  periodic_deposit: 500
  deposit_interval: 30
  inflation: 2.5
  commission: 2.5
strategy:
  name: ma-cross
  period: 50
  margin_rec: 0.4
  margin_req: 0.7
symbols:
  - symbol: SPY
    spread: 0.1
    margin_rec: 0.4
    margin_req: 0.7
    margin_fee: 3.0
    trend_change_period: 2
    trend_change_percent: 2.0
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 10000.0, cfg.Account.InitialDeposit)
	assert.Equal(t, 30, cfg.Account.DepositInterval)
	assert.Equal(t, "ma-cross", cfg.Strategy.Name)
	assert.Equal(t, 50, cfg.Strategy.Period)
	require.Len(t, cfg.Symbols, 1)
	assert.Equal(t, "SPY", cfg.Symbols[0].Symbol)
	assert.Equal(t, 0.1, cfg.Symbols[0].Spread)
	assert.Equal(t, 3.0, cfg.Symbols[0].MarginFee)
}

func TestLoadFromFileJSON(t *testing.T) {
	path := writeFile(t, "run.json", `{
  "account": {"initial_deposit": 5000, "commission": 1.0},
  "strategy": {"name": "bh", "offset": 10},
  "symbols": [{"symbol": "QQQ"}]
}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5000.0, cfg.Account.InitialDeposit)
	assert.Equal(t, "bh", cfg.Strategy.Name)
	assert.Equal(t, 10, cfg.Strategy.Offset)
	assert.Equal(t, "QQQ", cfg.Symbols[0].Symbol)
}

func TestLoadFromFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "{{{{not a config")
		_, err := LoadFromFile(path)
		assert.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", `
strategy:
  name: hodl
symbols:
  - symbol: SPY
`)
		_, err := LoadFromFile(path)
		assert.Error(t, err)
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"run.yaml", "run.json"} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Strategy.Name = "ma-cross"
			cfg.Strategy.Period = 20

			path := filepath.Join(dir, name)
			require.NoError(t, cfg.SaveToFile(path))

			got, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Run {
		c := Default()
		return c
	}

	t.Run("default is valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing strategy name", func(t *testing.T) {
		c := valid()
		c.Strategy.Name = ""
		assert.Error(t, c.Validate())
	})

	t.Run("ma needs a period", func(t *testing.T) {
		c := valid()
		c.Strategy.Name = "ma-cross"
		c.Strategy.Period = 0
		assert.Error(t, c.Validate())
	})

	t.Run("bh without period is fine", func(t *testing.T) {
		c := valid()
		c.Strategy.Name = "bh"
		c.Strategy.Period = 0
		assert.NoError(t, c.Validate())
	})

	t.Run("negative offset", func(t *testing.T) {
		c := valid()
		c.Strategy.Offset = -1
		assert.Error(t, c.Validate())
	})

	t.Run("margin out of range", func(t *testing.T) {
		c := valid()
		c.Strategy.MarginRec = 1.5
		assert.Error(t, c.Validate())
	})

	t.Run("no symbols", func(t *testing.T) {
		c := valid()
		c.Symbols = nil
		assert.Error(t, c.Validate())
	})

	t.Run("unnamed symbol", func(t *testing.T) {
		c := valid()
		c.Symbols[0].Symbol = ""
		assert.Error(t, c.Validate())
	})

	t.Run("bad account values", func(t *testing.T) {
		c := valid()
		c.Account.Commission = -1
		assert.Error(t, c.Validate())
	})
}

func TestApply(t *testing.T) {
	cfg := &Run{
		Symbols: []SymbolConfig{{
			Symbol:             "SPY",
			Spread:             0.1,
			MarginRec:          0.4,
			MarginReq:          0.7,
			MarginFee:          3.0,
			UseYield:           1.5,
			YieldInterval:      30,
			TrendChangePeriod:  2,
			TrendChangePercent: 2.0,
		}},
	}

	s := &market.Series{Symbol: "SPY"}
	cfg.Apply(s)
	assert.Equal(t, 0.1, s.Spread)
	assert.Equal(t, 0.4, s.MarginRec)
	assert.Equal(t, 0.7, s.MarginReq)
	assert.Equal(t, 3.0, s.MarginFee)
	assert.Equal(t, 1.5, s.UseYield)
	assert.Equal(t, 30, s.YieldInterval)
	assert.Equal(t, 2, s.TrendChangePeriod)
	assert.Equal(t, 2.0, s.TrendChangePercent)

	other := &market.Series{Symbol: "QQQ", Spread: 0.5}
	cfg.Apply(other)
	assert.Equal(t, 0.5, other.Spread)
}

func TestStrategyFor(t *testing.T) {
	cfg := Default()
	cfg.Strategy = StrategyConfig{Name: "ma-cross", Period: 20, MarginRec: 0.4, MarginReq: 0.7}

	s := &market.Series{Symbol: "SPY", TrendChangePeriod: 2, TrendChangePercent: 1.5}

	st, err := cfg.StrategyFor(s)
	require.NoError(t, err)
	assert.Equal(t, "MACross", st.Name())
	assert.Equal(t, 20, st.Warmup())

	cfg.Strategy.Name = "bh"
	cfg.Strategy.Offset = 20
	st, err = cfg.StrategyFor(s)
	require.NoError(t, err)
	assert.Equal(t, "BuyAndHold", st.Name())
	assert.Equal(t, 20, st.Warmup())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "bh", cfg.Strategy.Name)
	assert.NotEmpty(t, cfg.Symbols)
}
