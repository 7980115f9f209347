package state

// key under which the ingestion checkpoint lives in the kv table
const keyCheckpoint = "lock_watcher_checkpoint"

var (
	// table stores small keyed scalars, e.g. the ingestion checkpoint
	kvTable = `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY NOT NULL,
		value TEXT NOT NULL
	);`

	// mint requests are immutable once written; the id embeds the lock
	// event identity so re-deriving the same event cannot duplicate a row
	mintRequestTable = `CREATE TABLE IF NOT EXISTS mint_request (
		id TEXT PRIMARY KEY NOT NULL,
		chain TEXT NOT NULL,
		asset_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		recipient_lockscript TEXT NOT NULL,
		extra_data TEXT,
		CONSTRAINT chk_id CHECK (id != ''),
		CONSTRAINT chk_chain CHECK (chain != '')
	);`

	lockRecordTable = `CREATE TABLE IF NOT EXISTS lock_record (
		tx_hash TEXT NOT NULL,
		idx INTEGER NOT NULL,
		sender TEXT NOT NULL,
		asset_id TEXT NOT NULL,
		asset_kind TEXT NOT NULL,
		amount TEXT NOT NULL,
		memo TEXT NOT NULL,
		observed_at INTEGER NOT NULL,
		PRIMARY KEY (tx_hash, idx),
		CONSTRAINT chk_kind CHECK (asset_kind IN ('trx', 'trc10', 'trc20')),
		CONSTRAINT chk_observed_at CHECK (observed_at >= 0)
	);`

	unlockRequestTable = `CREATE TABLE IF NOT EXISTS unlock_request (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recipient_address TEXT NOT NULL,
		amount TEXT NOT NULL,
		asset_kind TEXT NOT NULL,
		asset_id TEXT NOT NULL,
		memo TEXT NOT NULL,
		status TEXT NOT NULL,
		outbound_tx_hash TEXT,
		outbound_index INTEGER,
		CONSTRAINT chk_kind CHECK (asset_kind IN ('trx', 'trc10', 'trc20')),
		CONSTRAINT chk_status CHECK (status IN ('todo', 'pending', 'success'))
	);`

	unlockParamList = " id, recipient_address, amount, asset_kind, asset_id, memo, status, outbound_tx_hash, outbound_index "
)
