// Package journal persists finished backtest runs. It is an optional
// collaborator used by the CLI layer; the simulation engine itself
// never performs I/O.
package journal

import (
	"github.com/rustyeddy/backsim/backtest"
	"github.com/rustyeddy/backsim/sim"
)

type Journal interface {
	RecordRun(backtest.Summary) error
	RecordRows(runID string, res *sim.Results) error
	Close() error
}
