package sim

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// NoTrade is the explicit "no trade occurred" sentinel written into the
// per-symbol trade price series. It is NaN, not zero, so downstream
// reporting can distinguish "traded at price 0" from "did not trade".
func NoTrade() float64 { return math.NaN() }

// Results is the append-only, date-ordered output of a simulation run.
// Columns are parallel per-day series; the engine writes each day's
// values exactly once and they are never mutated afterwards. The shape
// is exactly what the external reporting layer consumes to draw the
// portfolio, expenses and trades charts.
type Results struct {
	DateTime []time.Time

	TotalValue  []float64
	Deposits    []float64
	OtherProfit []float64
	TotalTrades []int

	TotalExpenses     []float64
	CommissionExpense []float64
	SpreadExpense     []float64
	DebtExpense       []float64
	OtherExpense      []float64

	Symbols []SymbolResult
}

// SymbolResult holds the per-symbol per-day series of a run.
type SymbolResult struct {
	Title string

	Open  []float64
	High  []float64
	Low   []float64
	Close []float64

	// Trade prices for the day, NoTrade() when nothing happened on that
	// side. Margin holds prices of forced flattens (margin calls).
	TradePriceLong   []float64
	TradePriceShort  []float64
	TradePriceMargin []float64

	TradesNo []int

	// Tech is the strategy's indicator series (NaN during warm-up).
	Tech []float64
}

// ResultRow is an assembled view of one simulated day.
type ResultRow struct {
	Date time.Time

	TotalValue  float64
	Deposits    float64
	OtherProfit float64
	TotalTrades int

	TotalExpenses     float64
	CommissionExpense float64
	SpreadExpense     float64
	DebtExpense       float64
	OtherExpense      float64

	Symbols []SymbolDay
}

// SymbolDay is the per-symbol slice of a ResultRow.
type SymbolDay struct {
	Title string

	TradePriceLong   float64
	TradePriceShort  float64
	TradePriceMargin float64
	Trades           int
	Tech             float64
}

func newResults(titles []string) *Results {
	r := &Results{Symbols: make([]SymbolResult, len(titles))}
	for i, t := range titles {
		r.Symbols[i].Title = t
	}
	return r
}

func (r *Results) Len() int { return len(r.DateTime) }

// Row assembles the result row for day index i.
func (r *Results) Row(i int) ResultRow {
	row := ResultRow{
		Date:              r.DateTime[i],
		TotalValue:        r.TotalValue[i],
		Deposits:          r.Deposits[i],
		OtherProfit:       r.OtherProfit[i],
		TotalTrades:       r.TotalTrades[i],
		TotalExpenses:     r.TotalExpenses[i],
		CommissionExpense: r.CommissionExpense[i],
		SpreadExpense:     r.SpreadExpense[i],
		DebtExpense:       r.DebtExpense[i],
		OtherExpense:      r.OtherExpense[i],
		Symbols:           make([]SymbolDay, len(r.Symbols)),
	}
	for si := range r.Symbols {
		s := &r.Symbols[si]
		row.Symbols[si] = SymbolDay{
			Title:            s.Title,
			TradePriceLong:   s.TradePriceLong[i],
			TradePriceShort:  s.TradePriceShort[i],
			TradePriceMargin: s.TradePriceMargin[i],
			Trades:           s.TradesNo[i],
			Tech:             s.Tech[i],
		}
	}
	return row
}

// RowByDate returns the row for the given date. The second return is
// false when the run has no bar on that date.
func (r *Results) RowByDate(date time.Time) (ResultRow, bool) {
	i := sort.Search(len(r.DateTime), func(i int) bool {
		return !r.DateTime[i].Before(date)
	})
	if i >= len(r.DateTime) || !r.DateTime[i].Equal(date) {
		return ResultRow{}, false
	}
	return r.Row(i), true
}

// FinalValue returns the portfolio value after the last simulated day.
func (r *Results) FinalValue() float64 {
	if r.Len() == 0 {
		return 0
	}
	return r.TotalValue[r.Len()-1]
}

// FinalDeposits returns the total cash deposited over the run,
// including the initial deposit.
func (r *Results) FinalDeposits() float64 {
	if r.Len() == 0 {
		return 0
	}
	return r.Deposits[r.Len()-1]
}

// FinalOtherProfit returns the dividend and yield income over the run.
func (r *Results) FinalOtherProfit() float64 {
	if r.Len() == 0 {
		return 0
	}
	return r.OtherProfit[r.Len()-1]
}

// TradeCount returns the number of trades executed over the run.
func (r *Results) TradeCount() int {
	if r.Len() == 0 {
		return 0
	}
	return r.TotalTrades[r.Len()-1]
}

// Span returns the first and last simulated dates.
func (r *Results) Span() (start, end time.Time) {
	if r.Len() == 0 {
		return
	}
	return r.DateTime[0], r.DateTime[r.Len()-1]
}

func (r *Results) String() string {
	start, end := r.Span()
	return fmt.Sprintf("results: %d days %s..%s value=%.2f deposits=%.2f trades=%d",
		r.Len(), start.Format("2006-01-02"), end.Format("2006-01-02"),
		r.FinalValue(), r.FinalDeposits(), r.TradeCount())
}
