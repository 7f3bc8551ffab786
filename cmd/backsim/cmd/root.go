package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backsim",
	Short: "Day-by-day portfolio backtesting over historical quote series",
	Long: `Backsim walks a historical quote series day by day, applies a trading
strategy's buy/sell/hold decisions, and produces a per-day ledger of
portfolio value, cash, margin debt, trading costs and dividend income.

Supported strategies:
  - bh: buy and hold (enter once, never exit)
  - ma-cross: moving average / price cross with whipsaw debounce

Quotes are read from a daily CSV (date,open,high,low,close,volume[,dividend]);
run parameters come from a YAML or JSON config file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
