package cmd

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keith-CY/force-bridge/tronindexer"
	"github.com/Keith-CY/force-bridge/tronwallet"
)

func newTestRelayConfig() *RelayConfig {
	return &RelayConfig{
		DbFilePath:     ":memory:",
		AccountAddress: "Tlockaccount",
		ScanInterval:   time.Second,
		SweepInterval:  time.Second,
		Committee: tronwallet.Committee{
			OperatingAccount: "Toperator",
			PermissionID:     2,
			Keys:             []string{"k1"},
		},
		FeeLimit: 1_000_000,
		Indexer:  tronindexer.NewSimulatedIndexer(),
		Wallet:   tronwallet.NewSimulatedWallet(),
	}
}

func TestNewRelayStartsAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	require.NoError(t, NewRelay(newTestRelayConfig(), ctx, &wg))
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("relay loops did not stop on cancel")
	}
}

func TestNewRelayRejectsBadWatcherConfig(t *testing.T) {
	cfg := newTestRelayConfig()
	cfg.AccountAddress = ""

	var wg sync.WaitGroup
	err := NewRelay(cfg, context.Background(), &wg)
	assert.Error(t, err)

	// no loops may have been launched on the failed path
	wg.Wait()
}

func TestNewRelayRejectsBadSettlerConfig(t *testing.T) {
	cfg := newTestRelayConfig()
	cfg.Committee.Keys = nil

	var wg sync.WaitGroup
	err := NewRelay(cfg, context.Background(), &wg)
	assert.Error(t, err)
	wg.Wait()
}
