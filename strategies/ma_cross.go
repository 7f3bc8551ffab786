package strategies

import (
	"fmt"
	"math"

	"github.com/rustyeddy/backsim/indicators"
	"github.com/rustyeddy/backsim/market"
)

// MACross trades the close price crossing its simple moving average:
// - close above the average signals long
// - close below the average signals flat, or short when margin is enabled
//
// A cross is honored only once the close has stayed past the average by
// at least TrendChangePercent for TrendChangePeriod consecutive bars.
// The debounce suppresses whipsaw signals on noisy data; with both set
// to zero every cross fires immediately.
type MACross struct {
	*MACrossConfig

	sma *indicators.SMA

	side        Exposure // side currently signalled
	pendingSide Exposure
	pendingRun  int
}

type MACrossConfig struct {
	Period int // rolling average period, bars

	TrendChangePeriod  int     // bars a cross must persist
	TrendChangePercent float64 // minimum distance past the average, percent

	// Borrow thresholds as fractions of portfolio value. MarginRec > 0
	// enables margin: down-crosses signal short instead of flat and
	// long entries may borrow. The simulator still enforces the
	// per-symbol limits when sizing.
	MarginRec float64
	MarginReq float64
}

// NewMACross validates the configuration and builds the strategy. A
// nil config or a non-positive period is a configuration error,
// reported here rather than mid-run.
func NewMACross(cfg *MACrossConfig) (*MACross, error) {
	if cfg == nil {
		return nil, fmt.Errorf("strategies: ma-cross requires a config")
	}
	sma, err := indicators.NewSMA(cfg.Period)
	if err != nil {
		return nil, err
	}
	return &MACross{
		MACrossConfig: cfg,
		sma:           sma,
	}, nil
}

func (s *MACross) Name() string { return "MACross" }

func (s *MACross) Warmup() int { return s.Period }

func (s *MACross) Reset() {
	s.sma.Reset()
	s.side = Flat
	s.pendingSide = Flat
	s.pendingRun = 0
}

func (s *MACross) Tech() float64 {
	if !s.sma.Ready() {
		return math.NaN()
	}
	return s.sma.Value()
}

func (s *MACross) marginEnabled() bool { return s.MarginRec > 0 }

func (s *MACross) OnBar(b market.Bar) Signal {
	s.sma.Update(b)
	if !s.sma.Ready() {
		return HoldSignal()
	}

	avg := s.sma.Value()

	// Side the close sits on today.
	want := s.side
	switch {
	case b.Close > avg:
		want = Long
	case b.Close < avg:
		if s.marginEnabled() {
			want = Short
		} else {
			want = Flat
		}
	}

	if want == s.side {
		s.pendingRun = 0
		return HoldSignal()
	}

	// Debounce: the close must sit past the average by the configured
	// distance for the configured number of consecutive bars.
	dist := math.Abs(b.Close-avg) / avg * 100
	if dist < s.TrendChangePercent {
		s.pendingRun = 0
		return HoldSignal()
	}

	if want == s.pendingSide {
		s.pendingRun++
	} else {
		s.pendingSide = want
		s.pendingRun = 1
	}
	if s.pendingRun < s.TrendChangePeriod {
		return HoldSignal()
	}

	s.side = want
	s.pendingRun = 0

	return Signal{
		Exposure:  want,
		UseMargin: s.marginEnabled() && want != Flat,
	}
}
