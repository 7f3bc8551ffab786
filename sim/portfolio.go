package sim

// PortfolioState is the mutable ledger the engine carries across the
// simulated timeline. It is created once per run, mutated exactly once
// per simulated day, and discarded after the final row is emitted; only
// the Results survive a run.
type PortfolioState struct {
	Cash           float64
	TotalDeposited float64
	Positions      map[string]*Position // keyed by symbol

	// Gross running costs. These are never netted against gains.
	CommissionExpense float64
	SpreadExpense     float64
	MarginExpense     float64
	OtherExpense      float64 // yield paid on shorts, dividends owed while short

	OtherProfit float64 // dividend and synthetic yield income

	TotalTrades int
}

func newPortfolioState(cfg Config, symbols []string) *PortfolioState {
	s := &PortfolioState{
		Cash:           cfg.InitialDeposit,
		TotalDeposited: cfg.InitialDeposit,
		Positions:      make(map[string]*Position, len(symbols)),
	}
	for _, sym := range symbols {
		s.Positions[sym] = &Position{}
	}
	return s
}

func (s *PortfolioState) TotalExpenses() float64 {
	return s.CommissionExpense + s.SpreadExpense + s.MarginExpense + s.OtherExpense
}
