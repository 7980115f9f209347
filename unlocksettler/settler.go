/*
Package unlocksettler drives queued unlock requests through their
lifecycle: todo requests are built, multi-signed by the full committee
and broadcast on tron; pending requests are confirmed once their
outbound transaction reaches finality.
*/
package unlocksettler

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/Keith-CY/force-bridge/common"
	"github.com/Keith-CY/force-bridge/state"
	"github.com/Keith-CY/force-bridge/tronindexer"
	"github.com/Keith-CY/force-bridge/tronwallet"
)

type Settler struct {
	cfg     *Config
	wallet  tronwallet.Wallet
	indexer tronindexer.IndexerClient
	st      *state.StateDB
}

func New(cfg *Config, wallet tronwallet.Wallet, indexer tronindexer.IndexerClient, st *state.StateDB) (*Settler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Settler{
		cfg:     cfg,
		wallet:  wallet,
		indexer: indexer,
		st:      st,
	}, nil
}

// Loop runs the confirm sweep then the dispatch sweep, indefinitely,
// until ctx is cancelled. Sweep failures are logged and retried on the
// next interval.
func (s *Settler) Loop(ctx context.Context) error {
	logger.Info("starting unlock settler")
	defer logger.Info("stopping unlock settler")

	timer := time.NewTimer(s.nextInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if err := s.ConfirmSweep(ctx); err != nil {
				logger.Warnf("unlock confirm sweep error: %v", err)
			}
			if err := s.DispatchSweep(ctx); err != nil {
				logger.Warnf("unlock dispatch sweep error: %v", err)
			}
			timer.Reset(s.nextInterval())
		}
	}
}

// ConfirmSweep moves pending requests whose outbound transaction has
// reached finality to success. A failing finality query leaves that
// request pending without blocking the rest of the batch.
func (s *Settler) ConfirmSweep(ctx context.Context) error {
	pending, err := s.st.ListUnlockRequests(state.UnlockStatusPending)
	if err != nil {
		return fmt.Errorf("failed to list pending unlock requests: %v", err)
	}

	var confirmed []*state.UnlockRequest
	for _, r := range pending {
		if r.OutboundTxHash == nil {
			logger.WithField("unlockId", r.ID).Warn("pending unlock request has no outbound tx hash")
			continue
		}
		final, err := s.indexer.IsTransactionFinalized(ctx, *r.OutboundTxHash)
		if err != nil {
			logger.WithFields(logger.Fields{
				"unlockId":   r.ID,
				"outboundTx": *r.OutboundTxHash,
			}).Warnf("finality check failed, keeping pending: %v", err)
			continue
		}
		if !final {
			continue
		}
		r.Status = state.UnlockStatusSuccess
		confirmed = append(confirmed, r)
	}

	if len(confirmed) == 0 {
		return nil
	}
	if err := s.st.SaveUnlockRequests(confirmed); err != nil {
		return fmt.Errorf("failed to save confirmed unlock requests: %v", err)
	}
	logger.WithField("confirmed", len(confirmed)).Info("unlock requests settled")
	return nil
}

// DispatchSweep builds, signs and broadcasts an outbound transaction for
// every todo request. Each request is isolated: a build, sign, broadcast
// or persistence failure skips that request and it is retried on the
// next sweep, while its siblings proceed.
func (s *Settler) DispatchSweep(ctx context.Context) error {
	todos, err := s.st.ListUnlockRequests(state.UnlockStatusTodo)
	if err != nil {
		return fmt.Errorf("failed to list todo unlock requests: %v", err)
	}

	for _, r := range todos {
		if err := s.dispatch(ctx, r); err != nil {
			logger.WithFields(logger.Fields{
				"unlockId":  r.ID,
				"assetKind": r.AssetKind,
				"recipient": r.RecipientAddress,
			}).Warnf("dispatch failed, will retry: %v", err)
			continue
		}
	}
	return nil
}

func (s *Settler) dispatch(ctx context.Context, r *state.UnlockRequest) error {
	tx, err := s.buildOutbound(ctx, r)
	if err != nil {
		return err
	}

	tx, err = s.wallet.AttachMemo(tx, r.Memo)
	if err != nil {
		return fmt.Errorf("failed to attach memo: %v", err)
	}

	// all-of-n: every committee key signs, in list order
	for _, key := range s.cfg.Committee.Keys {
		tx, err = s.wallet.Sign(tx, key)
		if err != nil {
			return fmt.Errorf("failed to sign with committee key: %v", err)
		}
	}
	if err := s.cfg.Committee.FullySignedBy(tx); err != nil {
		return err
	}

	txID, err := s.wallet.Broadcast(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to broadcast: %v", err)
	}

	idx := int64(0)
	r.OutboundTxHash = &txID
	r.OutboundIndex = &idx
	r.Status = state.UnlockStatusPending
	if err := s.st.SaveUnlockRequests([]*state.UnlockRequest{r}); err != nil {
		return fmt.Errorf("failed to save dispatched unlock request: %v", err)
	}

	logger.WithFields(logger.Fields{
		"unlockId":   r.ID,
		"assetKind":  r.AssetKind,
		"outboundTx": txID,
	}).Info("unlock request dispatched")
	return nil
}

// buildOutbound selects the transaction build path by asset kind. The
// kind set is closed; anything else is rejected.
func (s *Settler) buildOutbound(ctx context.Context, r *state.UnlockRequest) (*tronwallet.UnsignedTx, error) {
	amount, err := common.ParseAmount(r.Amount)
	if err != nil {
		return nil, err
	}
	c := &s.cfg.Committee

	switch r.AssetKind {
	case state.AssetTRX:
		return s.wallet.BuildNativeTransfer(ctx, r.RecipientAddress, amount, c.OperatingAccount, c.PermissionID)
	case state.AssetTRC10:
		return s.wallet.BuildTokenTransfer(ctx, r.RecipientAddress, amount, r.AssetID, c.OperatingAccount, c.PermissionID)
	case state.AssetTRC20:
		// the transfer parameter is a uint256; truncating a fractional
		// amount would sign and settle a different value than the row
		if !amount.IsInteger() {
			return nil, fmt.Errorf("trc20 amount %q is not an integer", r.Amount)
		}
		params := []tronwallet.ContractParam{
			{Type: "address", Value: r.RecipientAddress},
			{Type: "uint256", Value: amount.BigInt()},
		}
		return s.wallet.BuildContractCall(ctx, r.AssetID, tronwallet.TransferSelector, params, c.PermissionID, s.cfg.FeeLimit, c.OperatingAccount)
	}
	return nil, fmt.Errorf("unknown asset kind %q", r.AssetKind)
}

func (s *Settler) nextInterval() time.Duration {
	d := s.cfg.SweepInterval
	if s.cfg.Jitter > 0 {
		d += time.Duration(rand.Int63n(int64(s.cfg.Jitter)))
	}
	if d < MinSweepInterval {
		d = MinSweepInterval
	}
	return d
}
