package backtest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rustyeddy/backsim/internal/id"
	"github.com/rustyeddy/backsim/market"
	"github.com/rustyeddy/backsim/sim"
	"github.com/rustyeddy/backsim/strategies"
)

// Runner wires a run configuration, quote series and strategies into a
// simulation engine and reduces the per-day results to a Summary.
type Runner struct {
	Config     sim.Config
	Series     []*market.Series
	Strategies []strategies.Strategy // one per series, by index
}

// Summary is a lightweight, run-level view of a finished backtest.
type Summary struct {
	RunID    string
	Strategy string
	Symbols  []string

	Start time.Time
	End   time.Time

	FinalValue  float64
	Deposits    float64
	OtherProfit float64
	ProfitPct   float64
	Trades      int

	TotalExpenses     float64
	CommissionExpense float64
	SpreadExpense     float64
	DebtExpense       float64
	OtherExpense      float64
}

// Run executes the backtest and returns the summary together with the
// full per-day results for journaling or reporting.
func (r *Runner) Run(ctx context.Context) (Summary, *sim.Results, error) {
	if len(r.Series) == 0 {
		return Summary{}, nil, fmt.Errorf("backtest: Series is required")
	}
	if len(r.Strategies) == 0 {
		return Summary{}, nil, fmt.Errorf("backtest: Strategies is required")
	}

	engine, err := sim.NewEngine(r.Config, r.Series, r.Strategies)
	if err != nil {
		return Summary{}, nil, err
	}

	res, err := engine.Run(ctx)
	if err != nil {
		return Summary{}, nil, err
	}

	symbols := make([]string, len(r.Series))
	for i, s := range r.Series {
		symbols[i] = s.Symbol
	}

	start, end := res.Span()
	n := res.Len() - 1

	sum := Summary{
		RunID:    id.New(),
		Strategy: r.Strategies[0].Name(),
		Symbols:  symbols,
		Start:    start,
		End:      end,

		FinalValue:  res.FinalValue(),
		Deposits:    res.FinalDeposits(),
		OtherProfit: res.FinalOtherProfit(),
		Trades:      res.TradeCount(),

		TotalExpenses:     res.TotalExpenses[n],
		CommissionExpense: res.CommissionExpense[n],
		SpreadExpense:     res.SpreadExpense[n],
		DebtExpense:       res.DebtExpense[n],
		OtherExpense:      res.OtherExpense[n],
	}
	if sum.Deposits > 0 {
		sum.ProfitPct = sum.FinalValue/sum.Deposits*100 - 100
	}
	return sum, res, nil
}

// PrintSummary writes a plain text report of a finished run.
func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", s.RunID)
	fmt.Fprintf(w, "Strategy:      %s\n", s.Strategy)
	fmt.Fprintf(w, "Symbols:       %s\n", strings.Join(s.Symbols, ", "))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", s.Start.Format("2006-01-02"))
	fmt.Fprintf(w, "End:           %s\n", s.End.Format("2006-01-02"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Invested:      %.2f\n", s.Deposits)
	fmt.Fprintf(w, "Total value:   %.2f\n", s.FinalValue)
	fmt.Fprintf(w, "Profit:        %.2f%%\n", s.ProfitPct)
	fmt.Fprintf(w, "Yield profit:  %.2f\n", s.OtherProfit)
	fmt.Fprintf(w, "Total trades:  %d\n", s.Trades)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Expenses")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Total:         %.2f\n", s.TotalExpenses)
	fmt.Fprintf(w, "Commission:    %.2f\n", s.CommissionExpense)
	fmt.Fprintf(w, "Spread:        %.2f\n", s.SpreadExpense)
	fmt.Fprintf(w, "Margin:        %.2f\n", s.DebtExpense)
	fmt.Fprintf(w, "Yield paid:    %.2f\n", s.OtherExpense)

	fmt.Fprintln(w)
}
