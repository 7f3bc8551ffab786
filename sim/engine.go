// Package sim implements the day-by-day portfolio simulator: it walks
// historical quote series, applies strategy signals, and keeps the
// ledger of cash, positions, margin debt, expenses and income that
// becomes the per-day Results.
package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/backsim/market"
	"github.com/rustyeddy/backsim/strategies"
)

const daysPerYear = 365.0

// Engine owns the portfolio state for one run and advances it one day
// at a time. Day t+1 is never computed before day t completes: cash,
// debt and cumulative expenses carry forward, so a run is strictly
// sequential. Independent runs share no state and may execute
// concurrently with each other. Build one engine per run.
type Engine struct {
	cfg   Config
	runs  []*symbolRun
	state *PortfolioState
	res   *Results

	start       time.Time
	nextDeposit time.Time
	done        bool
}

type symbolRun struct {
	series *market.Series
	strat  strategies.Strategy

	close       float64 // today's close, set by mark-to-market
	barsToYield int
}

// NewEngine validates the configuration, series and strategies and
// builds a single-use engine. All configuration errors and
// ErrInsufficientData surface here, before any row is produced.
// Strategies are matched to series by index; that declaration order is
// also the defined processing order within each simulated day.
func NewEngine(cfg Config, series []*market.Series, strats []strategies.Strategy) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("sim: at least one series is required")
	}
	if len(strats) != len(series) {
		return nil, fmt.Errorf("sim: need one strategy per series, got %d strategies for %d series",
			len(strats), len(series))
	}

	n := series[0].Len()
	titles := make([]string, len(series))
	runs := make([]*symbolRun, len(series))

	for i, s := range series {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if s.Len() != n {
			return nil, fmt.Errorf("sim: all series must cover the same days: %s has %d bars, %s has %d",
				series[0].Symbol, n, s.Symbol, s.Len())
		}
		for j := range s.Bars {
			if !s.Bars[j].Date.Equal(series[0].Bars[j].Date) {
				return nil, fmt.Errorf("sim: series dates are not aligned at bar %d: %s has %s, %s has %s",
					j, series[0].Symbol, series[0].Bars[j].Date.Format("2006-01-02"),
					s.Symbol, s.Bars[j].Date.Format("2006-01-02"))
			}
		}

		st := strats[i]
		if st == nil {
			return nil, fmt.Errorf("sim: strategy for %s is required", s.Symbol)
		}
		if st.Warmup() > n {
			return nil, fmt.Errorf("%w: %s for %s needs %d bars, series has %d",
				ErrInsufficientData, st.Name(), s.Symbol, st.Warmup(), n)
		}
		st.Reset()

		runs[i] = &symbolRun{series: s, strat: st}
		titles[i] = s.Symbol
	}

	start := series[0].Bars[0].Date
	e := &Engine{
		cfg:   cfg,
		runs:  runs,
		state: newPortfolioState(cfg, titles),
		res:   newResults(titles),
		start: start,
	}
	if cfg.DepositInterval > 0 {
		e.nextDeposit = start.AddDate(0, 0, cfg.DepositInterval)
	}
	return e, nil
}

// Run executes the simulation over every bar present and returns the
// per-day results. The context is polled once per simulated day: the
// boundary between days is the only point where state is fully
// consistent, so it is the only safe suspension point.
func (e *Engine) Run(ctx context.Context) (*Results, error) {
	if e.done {
		return nil, fmt.Errorf("sim: engine already ran; build a new engine per run")
	}
	e.done = true

	n := e.runs[0].series.Len()
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		e.step(i)
	}

	e.state = nil // only the results survive the run
	return e.res, nil
}

func (e *Engine) step(i int) {
	date := e.runs[0].series.Bars[i].Date

	// 1. Mark to market at today's closes. Value is never computed from
	// stale prices after this point.
	for _, r := range e.runs {
		r.close = r.series.Bars[i].Close
	}

	// 2. Scheduled inflows land before any trade, so a same-day signal
	// sizes against the enlarged cash balance.
	e.applyDeposits(date)

	// 3. Dividend, synthetic yield and margin interest accrual.
	for _, r := range e.runs {
		e.accrue(r, r.series.Bars[i])
	}

	// 4. Signals and trade execution. Symbols share one cash pool; a
	// trade in an earlier symbol consumes cash before a later one is
	// considered.
	day := make([][]TradeOutcome, len(e.runs))
	for si, r := range e.runs {
		sig := r.strat.OnBar(r.series.Bars[i])
		day[si] = e.applySignal(r, sig)
	}

	// 5. Row emission from the now-updated state.
	e.emit(i, date, day)
}

func (e *Engine) applyDeposits(date time.Time) {
	if e.cfg.PeriodicDeposit <= 0 || e.cfg.DepositInterval <= 0 {
		return
	}
	// A gap in the bars can carry several boundaries past; each missed
	// boundary still deposits its own scaled amount.
	for !date.Before(e.nextDeposit) {
		amount := e.cfg.PeriodicDeposit * e.inflationFactor(e.nextDeposit)
		e.state.Cash += amount
		e.state.TotalDeposited += amount
		e.nextDeposit = e.nextDeposit.AddDate(0, 0, e.cfg.DepositInterval)
	}
}

// inflationFactor scales a deposit scheduled at t so later deposits
// preserve real purchasing power: the yearly rate compounds over the
// time elapsed since the run started.
func (e *Engine) inflationFactor(t time.Time) float64 {
	if e.cfg.Inflation == 0 {
		return 1
	}
	years := t.Sub(e.start).Hours() / 24 / daysPerYear
	return math.Pow(1+e.cfg.Inflation/100, years)
}

func (e *Engine) accrue(r *symbolRun, bar market.Bar) {
	pos := e.state.Positions[r.series.Symbol]

	// Dividends: longs receive the payout, shorts owe it.
	if bar.Dividend != 0 && pos.Open() {
		amt := pos.Quantity * bar.Dividend
		e.state.Cash += amt
		if amt >= 0 {
			e.state.OtherProfit += amt
		} else {
			e.state.OtherExpense += -amt
		}
	}

	// Synthetic yield on the configured schedule. The counter advances
	// with processed bars whether or not a position is on.
	if r.series.UseYield > 0 && r.series.YieldInterval > 0 {
		r.barsToYield++
		if r.barsToYield >= r.series.YieldInterval {
			r.barsToYield = 0
			if pos.Open() {
				amt := math.Abs(pos.Quantity) * r.close *
					r.series.UseYield / 100 * float64(r.series.YieldInterval) / daysPerYear
				if pos.Quantity > 0 {
					e.state.Cash += amt
					e.state.OtherProfit += amt
				} else {
					e.state.Cash -= amt
					e.state.OtherExpense += amt
				}
			}
		}
	}

	// Daily interest on borrowed capital, ACT/365 on the re-marked
	// amount. Gap days do not accrue: only bars present are processed.
	if borrowed := pos.Borrowed(r.close); borrowed > 0 && r.series.MarginFee > 0 {
		fee := borrowed * r.series.MarginFee / 100 / daysPerYear
		e.state.Cash -= fee
		e.state.MarginExpense += fee
	}
}

// totalValue re-marks the whole portfolio at today's closes:
// cash plus signed position value minus outstanding debt.
func (e *Engine) totalValue() float64 {
	v := e.state.Cash
	for _, r := range e.runs {
		pos := e.state.Positions[r.series.Symbol]
		v += pos.MarketValue(r.close) - pos.Debt
	}
	return v
}

func currentExposure(p *Position) strategies.Exposure {
	switch {
	case p.Quantity > 0:
		return strategies.Long
	case p.Quantity < 0:
		return strategies.Short
	default:
		return strategies.Flat
	}
}

func (e *Engine) applySignal(r *symbolRun, sig strategies.Signal) []TradeOutcome {
	sym := r.series.Symbol
	pos := e.state.Positions[sym]

	// Hard-limit enforcement comes first: borrowed capital past
	// MarginReq forces a flatten and rejects whatever was signalled
	// today. Fatal to the trade, never to the run.
	if pos.Open() && pos.Borrowed(r.close) > r.series.MarginReq*e.totalValue() {
		qty := pos.Quantity
		e.closePosition(r, pos)
		return []TradeOutcome{{
			Symbol:   sym,
			Kind:     TradeMarginCall,
			Price:    r.close,
			Quantity: qty,
			Rejected: !sig.Hold,
		}}
	}

	if sig.Hold || currentExposure(pos) == sig.Exposure {
		return nil
	}

	var outs []TradeOutcome

	// Changing exposure is close-then-reopen, never an add.
	if pos.Open() {
		qty := pos.Quantity
		e.closePosition(r, pos)
		outs = append(outs, TradeOutcome{Symbol: sym, Kind: TradeClose, Price: r.close, Quantity: qty})
	}

	switch sig.Exposure {
	case strategies.Long:
		if qty := e.openLong(r, pos, sig.UseMargin); qty > 0 {
			outs = append(outs, TradeOutcome{Symbol: sym, Kind: TradeLong, Price: r.close, Quantity: qty})
		}
	case strategies.Short:
		if qty := e.openShort(r, pos); qty > 0 {
			outs = append(outs, TradeOutcome{Symbol: sym, Kind: TradeShort, Price: r.close, Quantity: -qty})
		}
	}
	return outs
}

// closePosition unwinds the position at today's close, paying spread
// and commission and repaying any debt. Longs sell for proceeds; shorts
// buy the borrowed shares back.
func (e *Engine) closePosition(r *symbolRun, pos *Position) {
	notional := math.Abs(pos.Quantity) * r.close
	spread := notional * r.series.Spread / 100

	e.state.Cash += pos.MarketValue(r.close)
	e.state.Cash -= pos.Debt
	e.state.Cash -= spread + e.cfg.Commission

	e.state.SpreadExpense += spread
	e.state.CommissionExpense += e.cfg.Commission
	e.state.TotalTrades++

	*pos = Position{}
}

// openLong buys whole shares at today's close. With margin the entry
// may borrow up to the symbol's recommended fraction of portfolio
// value; the shortfall between outlay and cash becomes position debt.
func (e *Engine) openLong(r *symbolRun, pos *Position, useMargin bool) float64 {
	unit := r.close * (1 + r.series.Spread/100)
	if unit <= 0 {
		return 0
	}

	budget := e.state.Cash - e.cfg.Commission
	var borrowable float64
	if useMargin && r.series.MarginRec > 0 {
		borrowable = r.series.MarginRec * e.totalValue()
		if borrowable < 0 {
			borrowable = 0
		}
	}

	qty := math.Floor((budget + borrowable) / unit)
	if qty <= 0 {
		return 0
	}

	cost := qty * r.close
	spread := cost * r.series.Spread / 100
	outlay := cost + spread + e.cfg.Commission

	borrowed := outlay - e.state.Cash
	if borrowed < 0 {
		borrowed = 0
	}

	e.state.Cash -= outlay - borrowed
	pos.Quantity = qty
	pos.EntryPrice = r.close
	pos.Debt = borrowed

	e.state.SpreadExpense += spread
	e.state.CommissionExpense += e.cfg.Commission
	e.state.TotalTrades++
	return qty
}

// openShort sells borrowed shares at today's close. Short exposure is
// capped by the symbol's recommended margin fraction of portfolio
// value; without margin the signal cannot be filled.
func (e *Engine) openShort(r *symbolRun, pos *Position) float64 {
	if r.series.MarginRec <= 0 || r.close <= 0 {
		return 0
	}

	limit := r.series.MarginRec * e.totalValue()
	qty := math.Floor(limit / r.close)
	if qty <= 0 {
		return 0
	}

	proceeds := qty * r.close
	spread := proceeds * r.series.Spread / 100

	e.state.Cash += proceeds - spread - e.cfg.Commission
	pos.Quantity = -qty
	pos.EntryPrice = r.close
	pos.Debt = 0

	e.state.SpreadExpense += spread
	e.state.CommissionExpense += e.cfg.Commission
	e.state.TotalTrades++
	return qty
}

func (e *Engine) emit(i int, date time.Time, day [][]TradeOutcome) {
	res := e.res
	res.DateTime = append(res.DateTime, date)
	res.TotalValue = append(res.TotalValue, e.totalValue())
	res.Deposits = append(res.Deposits, e.state.TotalDeposited)
	res.OtherProfit = append(res.OtherProfit, e.state.OtherProfit)
	res.TotalTrades = append(res.TotalTrades, e.state.TotalTrades)
	res.TotalExpenses = append(res.TotalExpenses, e.state.TotalExpenses())
	res.CommissionExpense = append(res.CommissionExpense, e.state.CommissionExpense)
	res.SpreadExpense = append(res.SpreadExpense, e.state.SpreadExpense)
	res.DebtExpense = append(res.DebtExpense, e.state.MarginExpense)
	res.OtherExpense = append(res.OtherExpense, e.state.OtherExpense)

	for si, r := range e.runs {
		bar := r.series.Bars[i]
		s := &res.Symbols[si]
		s.Open = append(s.Open, bar.Open)
		s.High = append(s.High, bar.High)
		s.Low = append(s.Low, bar.Low)
		s.Close = append(s.Close, bar.Close)

		long, short, margin := NoTrade(), NoTrade(), NoTrade()
		for _, o := range day[si] {
			switch o.Kind {
			case TradeLong:
				long = o.Price
			case TradeShort:
				short = o.Price
			case TradeClose:
				// A close lands on the side it unwinds.
				if o.Quantity > 0 {
					long = o.Price
				} else {
					short = o.Price
				}
			case TradeMarginCall:
				margin = o.Price
			}
		}
		s.TradePriceLong = append(s.TradePriceLong, long)
		s.TradePriceShort = append(s.TradePriceShort, short)
		s.TradePriceMargin = append(s.TradePriceMargin, margin)
		s.TradesNo = append(s.TradesNo, len(day[si]))
		s.Tech = append(s.Tech, r.strat.Tech())
	}
}
