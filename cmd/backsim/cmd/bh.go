package cmd

import (
	"github.com/spf13/cobra"
)

var bhCmd = &cobra.Command{
	Use:   "bh",
	Short: "Backtest a buy-and-hold baseline",
	Long: `Run a buy-and-hold backtest: enter long on the first eligible day
(after the configured warm-up offset) and never trade again.

Example:
  backsim bh --config run.yaml --quotes spy.csv --journal runs.db`,
	RunE: runBH,
}

func init() {
	rootCmd.AddCommand(bhCmd)
	addRunFlags(bhCmd)
}

func runBH(cmd *cobra.Command, args []string) error {
	cfg, series, err := loadRun("bh")
	if err != nil {
		return err
	}
	_, err = executeRun(cfg, series)
	return err
}
