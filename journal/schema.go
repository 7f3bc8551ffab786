package journal

const Schema = `
CREATE TABLE IF NOT EXISTS backtest_runs (
	run_id TEXT PRIMARY KEY,
	strategy TEXT NOT NULL,
	symbols TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	final_value REAL NOT NULL,
	deposits REAL NOT NULL,
	other_profit REAL NOT NULL,
	profit_pct REAL NOT NULL,
	trades INTEGER NOT NULL,
	total_expenses REAL NOT NULL,
	commission_expense REAL NOT NULL,
	spread_expense REAL NOT NULL,
	debt_expense REAL NOT NULL,
	other_expense REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS result_rows (
	run_id TEXT NOT NULL,
	day INTEGER NOT NULL,
	date DATETIME NOT NULL,
	total_value REAL NOT NULL,
	deposits REAL NOT NULL,
	other_profit REAL NOT NULL,
	total_trades INTEGER NOT NULL,
	total_expenses REAL NOT NULL,
	commission_expense REAL NOT NULL,
	spread_expense REAL NOT NULL,
	debt_expense REAL NOT NULL,
	other_expense REAL NOT NULL,
	PRIMARY KEY (run_id, day)
);

CREATE INDEX IF NOT EXISTS idx_result_rows_date ON result_rows(date);
`
