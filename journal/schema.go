package journal

const Schema = `
CREATE TABLE IF NOT EXISTS results (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	action TEXT NOT NULL,
	confidence REAL NOT NULL,
	target_weight REAL NOT NULL,
	risk_score REAL NOT NULL,
	quantity INTEGER NOT NULL,
	executed INTEGER NOT NULL,
	order_id TEXT NOT NULL,
	status TEXT NOT NULL,
	executed_qty INTEGER NOT NULL,
	executed_price REAL NOT NULL,
	fee REAL NOT NULL,
	error TEXT NOT NULL,
	reasoning TEXT NOT NULL,
	time DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS alerts (
	id TEXT PRIMARY KEY,
	level TEXT NOT NULL,
	category TEXT NOT NULL,
	message TEXT NOT NULL,
	recommendation TEXT NOT NULL,
	symbols TEXT NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_time ON results(time);
CREATE INDEX IF NOT EXISTS idx_alerts_time ON alerts(time);
`
