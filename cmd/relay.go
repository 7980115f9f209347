package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"
	logger "github.com/sirupsen/logrus"

	"github.com/Keith-CY/force-bridge/lockwatcher"
	"github.com/Keith-CY/force-bridge/state"
	"github.com/Keith-CY/force-bridge/tronindexer"
	"github.com/Keith-CY/force-bridge/tronwallet"
	"github.com/Keith-CY/force-bridge/unlocksettler"
)

// RelayConfig carries everything needed to run the two relay loops.
// Indexer and Wallet are injected: the concrete tron RPC clients live
// with the node integration, not in this core.
type RelayConfig struct {
	DbFilePath string

	AccountAddress string
	ScanInterval   time.Duration
	SweepInterval  time.Duration
	Jitter         time.Duration

	Committee tronwallet.Committee
	FeeLimit  int64

	Indexer tronindexer.IndexerClient
	Wallet  tronwallet.Wallet
}

// FileExists tells whether the given path exists as a file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// NewRelay wires the record store, lock watcher and unlock settler and
// launches both loops. The returned WaitGroup is done once both loops
// have stopped.
func NewRelay(cfg *RelayConfig, ctx context.Context, wg *sync.WaitGroup) error {
	db, err := sql.Open("sqlite3", cfg.DbFilePath)
	if err != nil {
		return fmt.Errorf("failed to open statedb file %s: %v", cfg.DbFilePath, err)
	}

	statedb, err := state.NewStateDB(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize statedb: %v", err)
	}

	watcher, err := lockwatcher.New(
		&lockwatcher.Config{
			AccountAddress: cfg.AccountAddress,
			ScanInterval:   cfg.ScanInterval,
			Jitter:         cfg.Jitter,
		},
		cfg.Indexer,
		statedb,
	)
	if err != nil {
		statedb.Close()
		db.Close()
		return fmt.Errorf("failed to create lock watcher: %v", err)
	}

	settler, err := unlocksettler.New(
		&unlocksettler.Config{
			Committee:     cfg.Committee,
			FeeLimit:      cfg.FeeLimit,
			SweepInterval: cfg.SweepInterval,
			Jitter:        cfg.Jitter,
		},
		cfg.Wallet,
		cfg.Indexer,
		statedb,
	)
	if err != nil {
		statedb.Close()
		db.Close()
		return fmt.Errorf("failed to create unlock settler: %v", err)
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := watcher.Loop(ctx); err != nil && err != context.Canceled {
			logger.Errorf("lock watcher stopped: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := settler.Loop(ctx); err != nil && err != context.Canceled {
			logger.Errorf("unlock settler stopped: %v", err)
		}
	}()

	go func() {
		wg.Wait()
		statedb.Close()
		db.Close()
	}()

	return nil
}

// StartRelayAndWait runs the relay until SIGINT/SIGTERM, then shuts both
// loops down gracefully.
func StartRelayAndWait(cfg *RelayConfig) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Infof("received signal %v, shutting down", sig)
		cancel()
	}()

	var wg sync.WaitGroup
	if err := NewRelay(cfg, ctx, &wg); err != nil {
		logger.Fatalf("failed to start relay: %v", err)
		return
	}

	wg.Wait()
}
