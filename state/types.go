package state

import "fmt"

// ChainTron is the chain tag stamped on every mint request produced by
// this relay. The mirror-side minting pipeline dispatches on it.
const ChainTron = "tron"

// NativeAssetID is the sentinel asset id for the ledger's native coin.
const NativeAssetID = "trx"

// AssetKind selects the outbound transaction build path for an asset.
type AssetKind string

const (
	// AssetTRX is the native coin, moved by a plain transfer.
	AssetTRX AssetKind = "trx"
	// AssetTRC10 is a fixed-supply token identified by token id.
	AssetTRC10 AssetKind = "trc10"
	// AssetTRC20 is a token behind a contract's transfer entry point.
	AssetTRC20 AssetKind = "trc20"
)

func (k AssetKind) Valid() bool {
	switch k {
	case AssetTRX, AssetTRC10, AssetTRC20:
		return true
	}
	return false
}

// LockEvent is the normalized shape of one incoming transfer to the
// bridge account, regardless of which upstream resource reported it.
// It lives only for the duration of one watcher iteration.
type LockEvent struct {
	TxHash     string
	Index      int // disambiguates multiple qualifying transfers in one tx
	Sender     string
	AssetID    string
	AssetKind  AssetKind
	Amount     string // arbitrary-precision decimal string
	Memo       string
	ObservedAt int64 // block timestamp, ms
}

// MintID derives the unique mint request id for this event.
func (ev *LockEvent) MintID() string {
	return fmt.Sprintf("%s_%d", ev.TxHash, ev.Index)
}

// MintRequest instructs the host-chain minting pipeline to issue the
// mirrored asset. Immutable once created; ID is unique per lock event.
type MintRequest struct {
	ID                  string
	Chain               string
	AssetID             string
	Amount              string
	RecipientLockscript string
	ExtraData           *string // nil when the lock memo carried no extra part
}

// LockRecord is the durable audit mirror of a lock event.
type LockRecord struct {
	TxHash     string
	Index      int
	Sender     string
	AssetID    string
	AssetKind  AssetKind
	Amount     string
	Memo       string
	ObservedAt int64
}

type UnlockStatus string

const (
	UnlockStatusTodo    UnlockStatus = "todo"
	UnlockStatusPending UnlockStatus = "pending"
	UnlockStatusSuccess UnlockStatus = "success"
)

// rank orders the unlock lifecycle so the store can reject backward moves.
func (s UnlockStatus) rank() int {
	switch s {
	case UnlockStatusTodo:
		return 0
	case UnlockStatusPending:
		return 1
	case UnlockStatusSuccess:
		return 2
	}
	return -1
}

// UnlockRequest is one queued release of the original asset back to a
// recipient on tron. Rows are created by the burn pipeline and mutated
// in place, only forward through todo -> pending -> success.
type UnlockRequest struct {
	ID               int64
	RecipientAddress string
	Amount           string
	AssetKind        AssetKind
	AssetID          string
	Memo             string
	Status           UnlockStatus
	OutboundTxHash   *string
	OutboundIndex    *int64
}
