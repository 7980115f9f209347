/*
Package tronwallet defines the build/sign/broadcast surface of the tron
wallet library the relay settles unlock requests through, plus the
committee that authorizes outbound transfers.
*/
package tronwallet

import (
	"errors"

	"github.com/shopspring/decimal"
)

// TransferSelector is the standard two-argument token transfer entry
// point invoked for contract-token unlocks.
const TransferSelector = "transfer(address,uint256)"

var (
	ErrEmptyCommittee      = errors.New("committee must hold at least one signing key")
	ErrNoOperatingAccount  = errors.New("committee operating account is empty")
	ErrMissingSignatures   = errors.New("transaction is not signed by the full committee")
	ErrSignatureOutOfOrder = errors.New("committee signatures were not applied in list order")
	ErrMemoAfterSignature  = errors.New("cannot attach memo once signing has begun")
)

// ContractParam is one typed argument of a contract call, in call order.
type ContractParam struct {
	Type  string `json:"type"` // solidity-style type tag, e.g. "address", "uint256"
	Value any    `json:"value"`
}

// TxKind tags what an UnsignedTx was built as.
type TxKind string

const (
	TxKindNative       TxKind = "native"
	TxKindToken        TxKind = "token"
	TxKindContractCall TxKind = "contract"
)

// UnsignedTx is an outbound transaction under construction. It stays
// opaque to callers; only the wallet mutates it.
type UnsignedTx struct {
	Kind         TxKind          `json:"kind"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	Amount       decimal.Decimal `json:"amount"`
	AssetID      string          `json:"asset_id"` // TRC10 token id or TRC20 contract address
	Selector     string          `json:"selector"`
	Params       []ContractParam `json:"params"`
	FeeLimit     int64           `json:"fee_limit"`
	PermissionID int32           `json:"permission_id"`
	Memo         string          `json:"memo"`

	// signatures applied so far, by key, in application order
	SignedBy []string `json:"signed_by"`
}

// Committee is the fixed, ordered key set plus the single operating
// account allowed to move bridge-held funds. Every key must sign every
// outbound transaction, in list order — all-of-n, not a threshold.
type Committee struct {
	OperatingAccount string
	PermissionID     int32
	Keys             []string
}

func (c *Committee) Validate() error {
	if c.OperatingAccount == "" {
		return ErrNoOperatingAccount
	}
	if len(c.Keys) == 0 {
		return ErrEmptyCommittee
	}
	return nil
}

// FullySignedBy reports whether tx carries one signature per committee
// key, applied in committee list order.
func (c *Committee) FullySignedBy(tx *UnsignedTx) error {
	if len(tx.SignedBy) != len(c.Keys) {
		return ErrMissingSignatures
	}
	for i, key := range c.Keys {
		if tx.SignedBy[i] != key {
			return ErrSignatureOutOfOrder
		}
	}
	return nil
}
