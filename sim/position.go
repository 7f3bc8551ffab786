package sim

// Position is the single open position a symbol may hold. Quantity is
// signed: positive long, negative short. Opening while a position
// exists is always close-then-reopen, never an add.
type Position struct {
	Quantity   float64
	EntryPrice float64
	Debt       float64 // borrowed cash attributed to the position, 0 unmargined
}

func (p Position) Open() bool { return p.Quantity != 0 }

// MarketValue is the signed value of the position at the given price;
// negative for shorts.
func (p Position) MarketValue(price float64) float64 {
	return p.Quantity * price
}

// Borrowed is the capital on loan for this position at the given price:
// explicit debt for margined longs plus the re-marked notional of
// borrowed shares for shorts.
func (p Position) Borrowed(price float64) float64 {
	b := p.Debt
	if p.Quantity < 0 {
		b += -p.Quantity * price
	}
	return b
}
