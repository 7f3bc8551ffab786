package journal

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/backsim/backtest"
	"github.com/rustyeddy/backsim/sim"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(s backtest.Summary) error {
	_, err := j.db.Exec(`
		INSERT INTO backtest_runs
		(run_id, strategy, symbols, start_date, end_date, final_value, deposits, other_profit,
		 profit_pct, trades, total_expenses, commission_expense, spread_expense,
		 debt_expense, other_expense)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.Strategy, strings.Join(s.Symbols, ","), s.Start, s.End,
		s.FinalValue, s.Deposits, s.OtherProfit, s.ProfitPct, s.Trades,
		s.TotalExpenses, s.CommissionExpense, s.SpreadExpense,
		s.DebtExpense, s.OtherExpense,
	)
	return err
}

func (j *SQLiteJournal) RecordRows(runID string, res *sim.Results) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO result_rows
		(run_id, day, date, total_value, deposits, other_profit, total_trades,
		 total_expenses, commission_expense, spread_expense, debt_expense, other_expense)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := 0; i < res.Len(); i++ {
		_, err := stmt.Exec(runID, i, res.DateTime[i],
			res.TotalValue[i], res.Deposits[i], res.OtherProfit[i], res.TotalTrades[i],
			res.TotalExpenses[i], res.CommissionExpense[i], res.SpreadExpense[i],
			res.DebtExpense[i], res.OtherExpense[i])
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// ListRuns returns the stored run summaries, newest run ID first.
func (j *SQLiteJournal) ListRuns() ([]backtest.Summary, error) {
	rows, err := j.db.Query(`
		SELECT run_id, strategy, symbols, start_date, end_date, final_value, deposits,
		       other_profit, profit_pct, trades, total_expenses,
		       commission_expense, spread_expense, debt_expense, other_expense
		FROM backtest_runs ORDER BY run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []backtest.Summary
	for rows.Next() {
		var s backtest.Summary
		var symbols string
		if err := rows.Scan(&s.RunID, &s.Strategy, &symbols, &s.Start, &s.End,
			&s.FinalValue, &s.Deposits, &s.OtherProfit, &s.ProfitPct, &s.Trades,
			&s.TotalExpenses, &s.CommissionExpense, &s.SpreadExpense,
			&s.DebtExpense, &s.OtherExpense); err != nil {
			return nil, err
		}
		s.Symbols = strings.Split(symbols, ",")
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountRows returns the number of journaled per-day rows for a run.
func (j *SQLiteJournal) CountRows(runID string) (int, error) {
	var n int
	err := j.db.QueryRow(`SELECT COUNT(*) FROM result_rows WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
