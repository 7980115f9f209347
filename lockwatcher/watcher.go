/*
Package lockwatcher ingests confirmed lock transactions on tron into
mint requests for the host chain, at least once, checkpointed by block
timestamp.
*/
package lockwatcher

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/Keith-CY/force-bridge/state"
	"github.com/Keith-CY/force-bridge/tronindexer"
)

var ErrAccountAddressEmpty = errors.New("bridge account address is empty")

type LockWatcher struct {
	cfg        *Config
	indexer    tronindexer.IndexerClient
	st         *state.StateDB
	normalizer *Normalizer
}

func New(cfg *Config, indexer tronindexer.IndexerClient, st *state.StateDB) (*LockWatcher, error) {
	if cfg.AccountAddress == "" {
		return nil, ErrAccountAddressEmpty
	}
	return &LockWatcher{
		cfg:        cfg,
		indexer:    indexer,
		st:         st,
		normalizer: NewNormalizer(indexer),
	}, nil
}

// Scan runs a single ingestion iteration: fetch both transfer resources
// since the checkpoint, normalize, drop stale rows the upstream window
// may still return, and persist the mint/lock batch together with the
// advanced checkpoint. Any failure leaves the checkpoint untouched, so
// the next iteration retries the same window.
func (w *LockWatcher) Scan(ctx context.Context) error {
	checkpoint, err := w.st.GetCheckpoint()
	if err != nil {
		return fmt.Errorf("failed to read checkpoint: %v", err)
	}

	natives, err := w.indexer.ListNativeTransfers(ctx, w.cfg.AccountAddress, checkpoint)
	if err != nil {
		return fmt.Errorf("failed to list trx/trc10 transfers: %v", err)
	}
	trc20s, err := w.indexer.ListTRC20Transfers(ctx, w.cfg.AccountAddress, checkpoint)
	if err != nil {
		return fmt.Errorf("failed to list trc20 transfers: %v", err)
	}

	events := make([]*state.LockEvent, 0, len(natives)+len(trc20s))
	for _, t := range natives {
		events = append(events, w.normalizer.FromNativeTransfer(t))
	}
	for _, t := range trc20s {
		ev, err := w.normalizer.FromTRC20Transfer(ctx, t)
		if err != nil {
			return err
		}
		events = append(events, ev)
	}

	var (
		mints []*state.MintRequest
		locks []*state.LockRecord
	)
	newCheckpoint := checkpoint
	for _, ev := range events {
		// upstream windows can be stale or inclusive beyond the ask
		if ev.ObservedAt < checkpoint {
			logger.WithFields(logger.Fields{
				"txHash":     ev.TxHash,
				"observedAt": ev.ObservedAt,
				"checkpoint": checkpoint,
			}).Debug("dropping pre-checkpoint event")
			continue
		}

		recipient, extra := SplitMemo(ev.Memo)
		mints = append(mints, &state.MintRequest{
			ID:                  ev.MintID(),
			Chain:               state.ChainTron,
			AssetID:             ev.AssetID,
			Amount:              ev.Amount,
			RecipientLockscript: recipient,
			ExtraData:           extra,
		})
		locks = append(locks, &state.LockRecord{
			TxHash:     ev.TxHash,
			Index:      ev.Index,
			Sender:     ev.Sender,
			AssetID:    ev.AssetID,
			AssetKind:  ev.AssetKind,
			Amount:     ev.Amount,
			Memo:       ev.Memo,
			ObservedAt: ev.ObservedAt,
		})
		if ev.ObservedAt > newCheckpoint {
			newCheckpoint = ev.ObservedAt
		}
	}

	if len(mints) == 0 {
		return nil
	}

	if err := w.st.IngestLockBatch(mints, locks, newCheckpoint); err != nil {
		return fmt.Errorf("failed to persist lock batch: %v", err)
	}

	logger.WithFields(logger.Fields{
		"mints":         len(mints),
		"checkpoint":    checkpoint,
		"newCheckpoint": newCheckpoint,
	}).Info("lock events ingested")
	return nil
}

// Loop runs Scan indefinitely with the configured delay until ctx is
// cancelled. Iteration failures are logged and retried with the same
// checkpoint; there is no backoff or dead-lettering.
func (w *LockWatcher) Loop(ctx context.Context) error {
	logger.Info("starting lock watcher")
	defer logger.Info("stopping lock watcher")

	timer := time.NewTimer(w.nextInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if err := w.Scan(ctx); err != nil {
				logger.Warnf("lock watcher scan error: %v", err)
			}
			timer.Reset(w.nextInterval())
		}
	}
}

func (w *LockWatcher) nextInterval() time.Duration {
	d := w.cfg.ScanInterval
	if w.cfg.Jitter > 0 {
		d += time.Duration(rand.Int63n(int64(w.cfg.Jitter)))
	}
	if d < MinScanInterval {
		d = MinScanInterval
	}
	return d
}
