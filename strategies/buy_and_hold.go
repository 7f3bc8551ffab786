package strategies

import (
	"math"

	"github.com/rustyeddy/backsim/market"
)

// BuyAndHold enters long exactly once, after an optional warm-up
// offset, and never trades again. The offset exists so a buy-and-hold
// baseline can start on the same bar as a strategy that needs an
// indicator warm-up.
type BuyAndHold struct {
	offset  int
	seen    int
	entered bool
}

func NewBuyAndHold(offset int) *BuyAndHold {
	if offset < 0 {
		offset = 0
	}
	return &BuyAndHold{offset: offset}
}

func (s *BuyAndHold) Name() string { return "BuyAndHold" }

func (s *BuyAndHold) Warmup() int { return s.offset }

func (s *BuyAndHold) Reset() {
	s.seen = 0
	s.entered = false
}

func (s *BuyAndHold) OnBar(b market.Bar) Signal {
	s.seen++
	if s.entered || s.seen <= s.offset {
		return HoldSignal()
	}
	s.entered = true
	return Signal{Exposure: Long}
}

func (s *BuyAndHold) Tech() float64 { return math.NaN() }
