package lockwatcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/Keith-CY/force-bridge/state"
	"github.com/Keith-CY/force-bridge/tronindexer"
)

// Normalizer maps the two upstream transfer shapes into the single
// LockEvent shape. TRX/TRC10 transfers already carry their memo; TRC20
// transfers need one secondary lookup of the owning transaction.
type Normalizer struct {
	indexer tronindexer.IndexerClient
}

func NewNormalizer(indexer tronindexer.IndexerClient) *Normalizer {
	return &Normalizer{indexer: indexer}
}

func (n *Normalizer) FromNativeTransfer(t tronindexer.NativeTransfer) *state.LockEvent {
	assetID := state.NativeAssetID
	kind := state.AssetTRX
	if t.AssetName != "" {
		assetID = t.AssetName
		kind = state.AssetTRC10
	}
	return &state.LockEvent{
		TxHash:     t.TxID,
		Index:      t.Index,
		Sender:     t.From,
		AssetID:    assetID,
		AssetKind:  kind,
		Amount:     t.Amount,
		Memo:       string(t.Memo),
		ObservedAt: t.BlockTimestamp,
	}
}

// FromTRC20Transfer recovers the memo via exactly one GetTransaction
// lookup. The index is 0: the indexer reports TRC20 transfers without a
// per-transaction sequence, so one qualifying transfer per transaction
// is supported on this path.
func (n *Normalizer) FromTRC20Transfer(ctx context.Context, t tronindexer.TRC20Transfer) (*state.LockEvent, error) {
	detail, err := n.indexer.GetTransaction(ctx, t.TxID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tx %s for memo: %v", t.TxID, err)
	}
	return &state.LockEvent{
		TxHash:     t.TxID,
		Index:      0,
		Sender:     t.From,
		AssetID:    t.ContractAddress,
		AssetKind:  state.AssetTRC20,
		Amount:     t.Amount,
		Memo:       string(detail.Memo),
		ObservedAt: t.BlockTimestamp,
	}, nil
}

// SplitMemo splits a lock memo on the first comma into the host-chain
// recipient lockscript and the optional extra data. A memo without a
// comma is all recipient; extra data stays nil. No address validation
// happens here.
func SplitMemo(memo string) (recipient string, extra *string) {
	parts := strings.SplitN(memo, ",", 2)
	if len(parts) == 2 {
		return parts[0], &parts[1]
	}
	return memo, nil
}
