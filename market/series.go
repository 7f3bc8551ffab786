package market

import "fmt"

// Series is an ordered, date-indexed quote history for one symbol,
// together with the per-symbol trading parameters applied when the
// symbol is simulated. Dates must be strictly increasing; gaps between
// bars are tolerated and never interpolated.
type Series struct {
	Symbol string
	Bars   []Bar

	Spread             float64 // bid/ask friction, percent of trade price
	MarginRec          float64 // recommended borrow limit, fraction of portfolio value
	MarginReq          float64 // hard borrow limit; breaching it forces a flatten
	MarginFee          float64 // yearly margin interest, percent
	TrendChangePeriod  int     // bars a cross must persist before it is honored
	TrendChangePercent float64 // minimum distance past the average, percent
	UseYield           float64 // synthetic yearly yield, percent (0 disables)
	YieldInterval      int     // bars between synthetic yield payments
}

func (s *Series) Len() int { return len(s.Bars) }

// Validate checks the series data and its trading parameters. Every
// failure here is a configuration error: it is reported before a
// simulation starts, never mid-run.
func (s *Series) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("market: series symbol is required")
	}
	if len(s.Bars) == 0 {
		return fmt.Errorf("market: %s: series has no bars", s.Symbol)
	}
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Date.After(s.Bars[i-1].Date) {
			return fmt.Errorf("market: %s: bar dates must be strictly increasing (bar %d is %s, bar %d is %s)",
				s.Symbol, i-1, s.Bars[i-1].Date.Format("2006-01-02"), i, s.Bars[i].Date.Format("2006-01-02"))
		}
	}
	if s.Spread < 0 {
		return fmt.Errorf("market: %s: spread must be >= 0, got %v", s.Symbol, s.Spread)
	}
	if s.MarginRec < 0 || s.MarginRec > 1 {
		return fmt.Errorf("market: %s: margin_rec must be within [0, 1], got %v", s.Symbol, s.MarginRec)
	}
	if s.MarginReq < 0 || s.MarginReq > 1 {
		return fmt.Errorf("market: %s: margin_req must be within [0, 1], got %v", s.Symbol, s.MarginReq)
	}
	if s.MarginRec > s.MarginReq {
		return fmt.Errorf("market: %s: margin_rec (%v) must not exceed margin_req (%v)", s.Symbol, s.MarginRec, s.MarginReq)
	}
	if s.MarginFee < 0 {
		return fmt.Errorf("market: %s: margin_fee must be >= 0, got %v", s.Symbol, s.MarginFee)
	}
	if s.UseYield < 0 {
		return fmt.Errorf("market: %s: use_yield must be >= 0, got %v", s.Symbol, s.UseYield)
	}
	if s.UseYield > 0 && s.YieldInterval <= 0 {
		return fmt.Errorf("market: %s: yield_interval must be positive when use_yield is set, got %d", s.Symbol, s.YieldInterval)
	}
	if s.TrendChangePeriod < 0 {
		return fmt.Errorf("market: %s: trend_change_period must be >= 0, got %d", s.Symbol, s.TrendChangePeriod)
	}
	if s.TrendChangePercent < 0 {
		return fmt.Errorf("market: %s: trend_change_percent must be >= 0, got %v", s.Symbol, s.TrendChangePercent)
	}
	return nil
}
