package sim

import "fmt"

// Config holds the run-level simulation parameters shared by every
// symbol in a run. Per-symbol parameters (spread, margin limits, fees,
// yield) live on market.Series.
type Config struct {
	Commission      float64 // flat amount charged per executed trade
	InitialDeposit  float64 // opening cash balance
	PeriodicDeposit float64 // scheduled cash inflow, 0 disables
	DepositInterval int     // days between scheduled deposits
	Inflation       float64 // yearly percent used to scale future deposits
}

// Validate checks the run parameters. Invalid combinations are rejected
// here, once, before the simulation starts, never mid-run.
func (c Config) Validate() error {
	if c.Commission < 0 {
		return fmt.Errorf("sim: commission must be >= 0, got %v", c.Commission)
	}
	if c.InitialDeposit < 0 {
		return fmt.Errorf("sim: initial_deposit must be >= 0, got %v", c.InitialDeposit)
	}
	if c.PeriodicDeposit < 0 {
		return fmt.Errorf("sim: periodic_deposit must be >= 0, got %v", c.PeriodicDeposit)
	}
	if c.PeriodicDeposit > 0 && c.DepositInterval <= 0 {
		return fmt.Errorf("sim: deposit_interval must be positive when periodic_deposit is set, got %d", c.DepositInterval)
	}
	if c.DepositInterval < 0 {
		return fmt.Errorf("sim: deposit_interval must be >= 0, got %d", c.DepositInterval)
	}
	if c.Inflation <= -100 {
		return fmt.Errorf("sim: inflation must be greater than -100%%, got %v", c.Inflation)
	}
	return nil
}
