// Package indicators provides streaming technical indicators used by
// the backtest strategies.
package indicators

import "github.com/rustyeddy/backsim/market"

// Indicator computes a single streaming value from bars. It is
// deterministic and safe to use in replay and backtests.
type Indicator interface {
	// Name returns a stable identifier like "SMA(50)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next bar and updates internal state.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current indicator value. If !Ready(), it returns 0;
	// callers should always check Ready().
	Value() float64
}
