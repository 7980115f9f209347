package tronwallet

import (
	"context"

	"github.com/shopspring/decimal"
)

// Wallet builds, multi-signs and broadcasts raw tron transactions. The
// concrete implementation wraps the node's wallet RPC; the relay only
// sees this interface so the settler can run against a fake.
type Wallet interface {
	// BuildNativeTransfer drafts a plain TRX transfer of amount from the
	// operating account to `to`, under the given account permission.
	BuildNativeTransfer(ctx context.Context, to string, amount decimal.Decimal, from string, permissionID int32) (*UnsignedTx, error)

	// BuildTokenTransfer drafts a TRC10 transfer of amount units of
	// tokenID from the operating account to `to`.
	BuildTokenTransfer(ctx context.Context, to string, amount decimal.Decimal, tokenID string, from string, permissionID int32) (*UnsignedTx, error)

	// BuildContractCall drafts an invocation of selector on contract
	// with the given ordered params, bounded by feeLimit.
	BuildContractCall(ctx context.Context, contract, selector string, params []ContractParam, permissionID int32, feeLimit int64, from string) (*UnsignedTx, error)

	// AttachMemo sets text as the transaction's opaque payload data.
	AttachMemo(tx *UnsignedTx, text string) (*UnsignedTx, error)

	// Sign applies one committee key's signature. Callers invoke it once
	// per key, in committee list order.
	Sign(tx *UnsignedTx, key string) (*UnsignedTx, error)

	// Broadcast submits the fully signed transaction and returns the
	// assigned transaction id.
	Broadcast(ctx context.Context, tx *UnsignedTx) (string, error)
}
