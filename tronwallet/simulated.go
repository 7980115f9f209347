package tronwallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/Keith-CY/force-bridge/common"
	"github.com/shopspring/decimal"
)

// SimulatedWallet is an in-memory Wallet for tests. Every call is
// recorded in Calls in invocation order so tests can assert the exact
// build -> memo -> sign... -> broadcast sequence.
type SimulatedWallet struct {
	mu sync.Mutex

	// Calls holds entries like "buildNative(T..., 100)", "sign(k1)".
	Calls []string

	// Broadcasted holds every fully built tx submitted, in order.
	Broadcasted []*UnsignedTx

	// FailBroadcastFor makes Broadcast fail for txs addressed to the
	// given recipient; used to exercise per-request isolation.
	FailBroadcastFor string
}

func NewSimulatedWallet() *SimulatedWallet {
	return &SimulatedWallet{}
}

func (w *SimulatedWallet) record(format string, args ...any) {
	w.Calls = append(w.Calls, fmt.Sprintf(format, args...))
}

func (w *SimulatedWallet) BuildNativeTransfer(ctx context.Context, to string, amount decimal.Decimal, from string, permissionID int32) (*UnsignedTx, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.record("buildNative(%s, %s, %s, %d)", to, amount.String(), from, permissionID)
	return &UnsignedTx{
		Kind:         TxKindNative,
		From:         from,
		To:           to,
		Amount:       amount,
		PermissionID: permissionID,
	}, nil
}

func (w *SimulatedWallet) BuildTokenTransfer(ctx context.Context, to string, amount decimal.Decimal, tokenID string, from string, permissionID int32) (*UnsignedTx, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.record("buildToken(%s, %s, %s, %s, %d)", to, amount.String(), tokenID, from, permissionID)
	return &UnsignedTx{
		Kind:         TxKindToken,
		From:         from,
		To:           to,
		Amount:       amount,
		AssetID:      tokenID,
		PermissionID: permissionID,
	}, nil
}

func (w *SimulatedWallet) BuildContractCall(ctx context.Context, contract, selector string, params []ContractParam, permissionID int32, feeLimit int64, from string) (*UnsignedTx, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.record("buildContractCall(%s, %s, %d params, fee %d)", contract, selector, len(params), feeLimit)
	return &UnsignedTx{
		Kind:         TxKindContractCall,
		From:         from,
		AssetID:      contract,
		Selector:     selector,
		Params:       params,
		FeeLimit:     feeLimit,
		PermissionID: permissionID,
	}, nil
}

func (w *SimulatedWallet) AttachMemo(tx *UnsignedTx, text string) (*UnsignedTx, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(tx.SignedBy) > 0 {
		return nil, ErrMemoAfterSignature
	}
	w.record("attachMemo(%s)", text)
	tx.Memo = text
	return tx, nil
}

func (w *SimulatedWallet) Sign(tx *UnsignedTx, key string) (*UnsignedTx, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.record("sign(%s)", key)
	tx.SignedBy = append(tx.SignedBy, key)
	return tx, nil
}

func (w *SimulatedWallet) Broadcast(ctx context.Context, tx *UnsignedTx) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.FailBroadcastFor != "" && tx.To == w.FailBroadcastFor {
		w.record("broadcastFailed(%s)", tx.To)
		return "", fmt.Errorf("broadcast rejected for %s", tx.To)
	}
	w.record("broadcast")
	w.Broadcasted = append(w.Broadcasted, tx)
	return common.RandTxHash(), nil
}
