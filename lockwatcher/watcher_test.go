package lockwatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keith-CY/force-bridge/state"
	"github.com/Keith-CY/force-bridge/tronindexer"
)

func newTestWatcherEnv(t *testing.T) (*LockWatcher, *tronindexer.SimulatedIndexer, *state.StateDB, func()) {
	sqlDB := state.GetMemoryDB()
	statedb, err := state.NewStateDB(sqlDB)
	require.NoError(t, err)

	indexer := tronindexer.NewSimulatedIndexer()
	watcher, err := New(
		&Config{AccountAddress: "Tbridge", ScanInterval: time.Second},
		indexer,
		statedb,
	)
	require.NoError(t, err)

	return watcher, indexer, statedb, func() {
		statedb.Close()
		sqlDB.Close()
	}
}

func seedCheckpoint(t *testing.T, statedb *state.StateDB, cp int64) {
	require.NoError(t, statedb.IngestLockBatch(nil, nil, cp))
}

func TestScanDropsPreCheckpointEvents(t *testing.T) {
	watcher, indexer, statedb, close := newTestWatcherEnv(t)
	defer close()

	seedCheckpoint(t, statedb, 1000)
	indexer.StaleWindow = true // upstream returns rows below the asked lower bound
	indexer.NativeTransfers = []tronindexer.NativeTransfer{
		{TxID: "old", From: "Ta", Amount: "1", Memo: []byte("ckb1qold"), BlockTimestamp: 900},
		{TxID: "new", From: "Tb", Amount: "2", Memo: []byte("ckb1qnew"), BlockTimestamp: 1100},
	}

	require.NoError(t, watcher.Scan(context.Background()))

	_, ok, err := statedb.GetMintRequest("old_0")
	assert.NoError(t, err)
	assert.False(t, ok)

	mint, ok, err := statedb.GetMintRequest("new_0")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ckb1qnew", mint.RecipientLockscript)

	cp, err := statedb.GetCheckpoint()
	assert.NoError(t, err)
	assert.Equal(t, int64(1100), cp)
}

func TestScanIngestsBothResources(t *testing.T) {
	watcher, indexer, statedb, close := newTestWatcherEnv(t)
	defer close()

	indexer.NativeTransfers = []tronindexer.NativeTransfer{
		{TxID: "n1", From: "Ta", Amount: "100", Memo: []byte("ckb1qxyz,extra123"), BlockTimestamp: 10},
		{TxID: "n2", From: "Tb", AssetName: "1002000", Amount: "5", Memo: []byte("ckb1qabc"), BlockTimestamp: 20},
	}
	indexer.TRC20Transfers = []tronindexer.TRC20Transfer{
		{TxID: "c1", From: "Tc", ContractAddress: "Tusdt", Amount: "77", BlockTimestamp: 30},
	}
	indexer.Transactions["c1"] = &tronindexer.TransactionDetail{Memo: []byte("ckb1qdef,0x01")}

	require.NoError(t, watcher.Scan(context.Background()))

	mint, ok, err := statedb.GetMintRequest("n1_0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state.ChainTron, mint.Chain)
	assert.Equal(t, state.NativeAssetID, mint.AssetID)
	assert.Equal(t, "ckb1qxyz", mint.RecipientLockscript)
	assert.Equal(t, "extra123", *mint.ExtraData)

	mint, ok, err = statedb.GetMintRequest("n2_0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1002000", mint.AssetID)
	assert.Nil(t, mint.ExtraData)

	mint, ok, err = statedb.GetMintRequest("c1_0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Tusdt", mint.AssetID)
	assert.Equal(t, "ckb1qdef", mint.RecipientLockscript)
	assert.Equal(t, "0x01", *mint.ExtraData)

	records, err := statedb.ListLockRecords()
	assert.NoError(t, err)
	assert.Len(t, records, 3)

	cp, err := statedb.GetCheckpoint()
	assert.NoError(t, err)
	assert.Equal(t, int64(30), cp)
}

func TestScanOverlappingWindowDoesNotDuplicate(t *testing.T) {
	watcher, indexer, statedb, close := newTestWatcherEnv(t)
	defer close()

	indexer.NativeTransfers = []tronindexer.NativeTransfer{
		{TxID: "n1", From: "Ta", Amount: "100", Memo: []byte("ckb1qxyz"), BlockTimestamp: 50},
	}

	// the window [50, ...] stays inclusive, so the same event comes back
	require.NoError(t, watcher.Scan(context.Background()))
	require.NoError(t, watcher.Scan(context.Background()))

	n, err := statedb.CountMintRequests()
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestScanUpstreamFailureLeavesCheckpoint(t *testing.T) {
	watcher, indexer, statedb, close := newTestWatcherEnv(t)
	defer close()

	seedCheckpoint(t, statedb, 1000)
	indexer.ListErr = errors.New("indexer unavailable")

	err := watcher.Scan(context.Background())
	assert.Error(t, err)

	cp, err := statedb.GetCheckpoint()
	assert.NoError(t, err)
	assert.Equal(t, int64(1000), cp)
}

func TestScanSecondaryLookupFailureAbortsIteration(t *testing.T) {
	watcher, indexer, statedb, close := newTestWatcherEnv(t)
	defer close()

	indexer.NativeTransfers = []tronindexer.NativeTransfer{
		{TxID: "n1", From: "Ta", Amount: "1", Memo: []byte("ckb1q"), BlockTimestamp: 10},
	}
	indexer.TRC20Transfers = []tronindexer.TRC20Transfer{
		{TxID: "nodetail", From: "Tb", ContractAddress: "Tusdt", Amount: "2", BlockTimestamp: 20},
	}

	err := watcher.Scan(context.Background())
	assert.Error(t, err)

	// nothing from the aborted iteration may be visible downstream
	n, err := statedb.CountMintRequests()
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	cp, err := statedb.GetCheckpoint()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), cp)
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	watcher, _, _, close := newTestWatcherEnv(t)
	defer close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watcher.Loop(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher loop did not stop on cancel")
	}
}
