package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/backsim/backtest"
	"github.com/rustyeddy/backsim/config"
	"github.com/rustyeddy/backsim/journal"
	"github.com/rustyeddy/backsim/market"
	"github.com/rustyeddy/backsim/strategies"
	"github.com/spf13/cobra"
)

var (
	runConfigPath string
	runQuotes     []string
	runJournalDB  string
	runFrom       string
	runTo         string
)

func addRunFlags(c *cobra.Command) {
	c.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to run config (YAML or JSON) (required)")
	c.Flags().StringSliceVarP(&runQuotes, "quotes", "q", nil, "quote CSV per configured symbol, in order (required)")
	c.Flags().StringVarP(&runJournalDB, "journal", "j", "", "record the run into this SQLite journal")
	c.Flags().StringVar(&runFrom, "from", "", "first date to simulate (2006-01-02)")
	c.Flags().StringVar(&runTo, "to", "", "first date to exclude (2006-01-02)")

	c.MarkFlagRequired("config")
	c.MarkFlagRequired("quotes")
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func loadRun(strategyName string) (*config.Run, []*market.Series, error) {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if strategyName != "" {
		cfg.Strategy.Name = strategyName
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid config: %w", err)
		}
	}
	if len(runQuotes) != len(cfg.Symbols) {
		return nil, nil, fmt.Errorf("need one --quotes file per configured symbol: %d symbols, %d files",
			len(cfg.Symbols), len(runQuotes))
	}

	from, err := parseDate(runFrom)
	if err != nil {
		return nil, nil, fmt.Errorf("bad --from: %w", err)
	}
	to, err := parseDate(runTo)
	if err != nil {
		return nil, nil, fmt.Errorf("bad --to: %w", err)
	}

	series := make([]*market.Series, len(cfg.Symbols))
	for i, sc := range cfg.Symbols {
		s, err := backtest.LoadSeries(runQuotes[i], sc.Symbol, from, to)
		if err != nil {
			return nil, nil, err
		}
		cfg.Apply(s)
		series[i] = s
	}
	return cfg, series, nil
}

func executeRun(cfg *config.Run, series []*market.Series) (backtest.Summary, error) {
	strats := make([]strategies.Strategy, len(series))
	for i, s := range series {
		st, err := cfg.StrategyFor(s)
		if err != nil {
			return backtest.Summary{}, err
		}
		strats[i] = st
	}

	r := &backtest.Runner{
		Config:     cfg.Sim(),
		Series:     series,
		Strategies: strats,
	}

	sum, res, err := r.Run(context.Background())
	if err != nil {
		return backtest.Summary{}, err
	}

	backtest.PrintSummary(os.Stdout, sum)

	if runJournalDB != "" {
		j, err := journal.NewSQLite(runJournalDB)
		if err != nil {
			return sum, fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()
		if err := j.RecordRun(sum); err != nil {
			return sum, fmt.Errorf("record run: %w", err)
		}
		if err := j.RecordRows(sum.RunID, res); err != nil {
			return sum, fmt.Errorf("record rows: %w", err)
		}
		fmt.Printf("Run %s journaled to %s\n", sum.RunID, runJournalDB)
	}
	return sum, nil
}
