package state

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/Keith-CY/force-bridge/database"
)

var (
	ErrCheckpointInvalid    = errors.New("stored checkpoint is not an integer")
	ErrBackwardTransition   = errors.New("unlock request status may only move forward")
	ErrUnknownUnlockRequest = errors.New("unlock request does not exist in statedb")
	ErrInvalidAssetKind     = errors.New("unlock request carries an unknown asset kind")
)

// StateDB is the relay's durable record store: ingestion checkpoint,
// mint request queue, lock record log and unlock request queue.
type StateDB struct {
	stmtCache *database.StmtCache
}

func NewStateDB(db *sql.DB) (*StateDB, error) {
	if _, err := db.Exec(kvTable + mintRequestTable + lockRecordTable + unlockRequestTable); err != nil {
		return nil, err
	}
	return &StateDB{stmtCache: database.NewStmtCache(db)}, nil
}

func (st *StateDB) Close() {
	st.stmtCache.Clear()
}

// GetCheckpoint returns the max observedAt already ingested, or 0 when
// nothing has ever been ingested.
func (st *StateDB) GetCheckpoint() (int64, error) {
	stmt, err := st.stmtCache.Prepare(`SELECT value FROM kv WHERE key = ?`)
	if err != nil {
		return 0, err
	}

	var value string
	if err := stmt.QueryRow(keyCheckpoint).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}

	cp, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, ErrCheckpointInvalid
	}
	return cp, nil
}

// IngestLockBatch persists one watcher iteration: the mint requests, their
// matching lock records and the advanced checkpoint, all in one transaction
// so a partial write is never observable downstream. Inserts are idempotent
// on their primary keys, so re-ingesting an overlapping upstream window is
// harmless. The checkpoint never moves backward.
func (st *StateDB) IngestLockBatch(mints []*MintRequest, locks []*LockRecord, newCheckpoint int64) error {
	tx, err := st.stmtCache.DB().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, m := range mints {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO mint_request
			(id, chain, asset_id, amount, recipient_lockscript, extra_data)
			VALUES (?, ?, ?, ?, ?, ?)`,
			m.ID, m.Chain, m.AssetID, m.Amount, m.RecipientLockscript, m.ExtraData,
		)
		if err != nil {
			return err
		}
	}

	for _, l := range locks {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO lock_record
			(tx_hash, idx, sender, asset_id, asset_kind, amount, memo, observed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			l.TxHash, l.Index, l.Sender, l.AssetID, string(l.AssetKind), l.Amount, l.Memo, l.ObservedAt,
		)
		if err != nil {
			return err
		}
	}

	var stored string
	current := int64(0)
	err = tx.QueryRow(`SELECT value FROM kv WHERE key = ?`, keyCheckpoint).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return err
	default:
		current, err = strconv.ParseInt(stored, 10, 64)
		if err != nil {
			return ErrCheckpointInvalid
		}
	}
	if newCheckpoint > current {
		_, err = tx.Exec(
			`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`,
			keyCheckpoint, strconv.FormatInt(newCheckpoint, 10),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetMintRequest looks a mint request up by id, for audit queries and
// the ingestion tests.
func (st *StateDB) GetMintRequest(id string) (*MintRequest, bool, error) {
	stmt, err := st.stmtCache.Prepare(
		`SELECT id, chain, asset_id, amount, recipient_lockscript, extra_data
		FROM mint_request WHERE id = ?`)
	if err != nil {
		return nil, false, err
	}

	m := &MintRequest{}
	err = stmt.QueryRow(id).Scan(&m.ID, &m.Chain, &m.AssetID, &m.Amount, &m.RecipientLockscript, &m.ExtraData)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

func (st *StateDB) CountMintRequests() (int, error) {
	stmt, err := st.stmtCache.Prepare(`SELECT COUNT(*) FROM mint_request`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := stmt.QueryRow().Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListLockRecords returns the audit log ordered by observation time.
func (st *StateDB) ListLockRecords() ([]*LockRecord, error) {
	stmt, err := st.stmtCache.Prepare(
		`SELECT tx_hash, idx, sender, asset_id, asset_kind, amount, memo, observed_at
		FROM lock_record ORDER BY observed_at, tx_hash, idx`)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*LockRecord
	for rows.Next() {
		l := &LockRecord{}
		var kind string
		if err := rows.Scan(&l.TxHash, &l.Index, &l.Sender, &l.AssetID, &kind, &l.Amount, &l.Memo, &l.ObservedAt); err != nil {
			return nil, err
		}
		l.AssetKind = AssetKind(kind)
		records = append(records, l)
	}
	return records, rows.Err()
}

// CreateUnlockRequests inserts fresh rows and backfills the assigned ids.
// In production the burn pipeline writes these rows; the relay only needs
// the op for tooling and tests.
func (st *StateDB) CreateUnlockRequests(batch []*UnlockRequest) error {
	tx, err := st.stmtCache.DB().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range batch {
		if !r.AssetKind.Valid() {
			return ErrInvalidAssetKind
		}
		res, err := tx.Exec(
			`INSERT INTO unlock_request
			(recipient_address, amount, asset_kind, asset_id, memo, status, outbound_tx_hash, outbound_index)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RecipientAddress, r.Amount, string(r.AssetKind), r.AssetID, r.Memo, string(r.Status), r.OutboundTxHash, r.OutboundIndex,
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		r.ID = id
	}
	return tx.Commit()
}

func (st *StateDB) ListUnlockRequests(status UnlockStatus) ([]*UnlockRequest, error) {
	stmt, err := st.stmtCache.Prepare(
		`SELECT` + unlockParamList + `FROM unlock_request WHERE status = ? ORDER BY id`)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batch []*UnlockRequest
	for rows.Next() {
		r, err := scanUnlockRequest(rows)
		if err != nil {
			return nil, err
		}
		batch = append(batch, r)
	}
	return batch, rows.Err()
}

// SaveUnlockRequests updates the given rows in place. Status transitions
// are validated against the stored row inside the transaction: only
// forward moves through todo -> pending -> success are accepted.
func (st *StateDB) SaveUnlockRequests(batch []*UnlockRequest) error {
	tx, err := st.stmtCache.DB().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range batch {
		var stored string
		err := tx.QueryRow(`SELECT status FROM unlock_request WHERE id = ?`, r.ID).Scan(&stored)
		if err == sql.ErrNoRows {
			return ErrUnknownUnlockRequest
		}
		if err != nil {
			return err
		}
		if r.Status.rank() < UnlockStatus(stored).rank() {
			return ErrBackwardTransition
		}

		_, err = tx.Exec(
			`UPDATE unlock_request
			SET recipient_address = ?, amount = ?, asset_kind = ?, asset_id = ?, memo = ?,
			status = ?, outbound_tx_hash = ?, outbound_index = ?
			WHERE id = ?`,
			r.RecipientAddress, r.Amount, string(r.AssetKind), r.AssetID, r.Memo,
			string(r.Status), r.OutboundTxHash, r.OutboundIndex, r.ID,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func scanUnlockRequest(rows *sql.Rows) (*UnlockRequest, error) {
	r := &UnlockRequest{}
	var kind, status string
	err := rows.Scan(&r.ID, &r.RecipientAddress, &r.Amount, &kind, &r.AssetID, &r.Memo, &status, &r.OutboundTxHash, &r.OutboundIndex)
	if err != nil {
		return nil, err
	}
	r.AssetKind = AssetKind(kind)
	r.Status = UnlockStatus(status)
	return r, nil
}
