package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/backsim/market"
)

// Exposure is the market exposure a strategy signals for a symbol.
type Exposure int

const (
	Flat  Exposure = 0
	Long  Exposure = +1
	Short Exposure = -1
)

func (e Exposure) String() string {
	switch e {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "flat"
	}
}

// Signal is the outcome of one strategy decision for one bar.
//
// Hold means "no new decision today": the simulator keeps whatever
// position is on. Strategies only signal desired exposure; translating
// a signal into trades, cash and margin bookkeeping is the simulator's
// job alone, so a strategy never knows whether its last signal was
// actually filled.
type Signal struct {
	Exposure  Exposure
	UseMargin bool
	Hold      bool
}

func HoldSignal() Signal { return Signal{Hold: true} }

// Strategy is called once per bar, in date order, with the bar for the
// day being decided. Implementations carry only their own indicator
// state and must be deterministic.
type Strategy interface {
	Name() string

	// Warmup returns how many bars the strategy needs before it can
	// trade. A warmup longer than the available history is rejected by
	// the simulator before any row is produced.
	Warmup() int

	Reset()

	OnBar(b market.Bar) Signal

	// Tech returns the current value of the indicator backing the
	// strategy's decisions, NaN while warming up or when the strategy
	// has none. The simulator exports it into the per-symbol Tech
	// series for reporting.
	Tech() float64
}

// ByName builds a strategy from its CLI name.
func ByName(name string, offset int, cfg *MACrossConfig) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bh", "buy-and-hold", "buyandhold":
		return NewBuyAndHold(offset), nil

	case "ma", "ma-cross", "macross":
		return NewMACross(cfg)

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: bh, ma-cross)", name)
	}
}
