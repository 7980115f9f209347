/*
Package tronindexer defines the query surface over the tron block
indexing service that the relay depends on. The concrete HTTP client
lives with the node integration; the relay only sees this interface.
*/
package tronindexer

import "context"

// NativeTransfer is one confirmed incoming TRX or TRC10 transfer to the
// bridge account, as reported inside account activity. An empty AssetName
// means the native coin, a non-empty one names a TRC10 token.
type NativeTransfer struct {
	TxID           string `json:"tx_id"`
	Index          int    `json:"index"`
	From           string `json:"from"`
	AssetName      string `json:"asset_name"`
	Amount         string `json:"amount"` // decimal string
	Memo           []byte `json:"memo"`
	BlockTimestamp int64  `json:"block_timestamp"` // ms
}

// TRC20Transfer is one confirmed incoming TRC20 transfer to the bridge
// account. The transfer record itself carries no memo; callers must
// fetch the owning transaction to recover it.
type TRC20Transfer struct {
	TxID            string `json:"tx_id"`
	From            string `json:"from"`
	ContractAddress string `json:"contract_address"`
	Amount          string `json:"amount"`          // decimal string
	BlockTimestamp  int64  `json:"block_timestamp"` // ms
}

// TransactionDetail is the subset of a raw transaction the relay needs
// from a secondary lookup.
type TransactionDetail struct {
	Memo []byte `json:"memo"`
}

// IndexerClient lists confirmed, incoming transfer history for an
// account and answers finality queries for broadcast transactions.
type IndexerClient interface {
	// ListNativeTransfers returns TRX/TRC10 transfers to account with
	// blockTimestamp >= since.
	ListNativeTransfers(ctx context.Context, account string, since int64) ([]NativeTransfer, error)

	// ListTRC20Transfers returns TRC20 transfers to account with
	// blockTimestamp >= since.
	ListTRC20Transfers(ctx context.Context, account string, since int64) ([]TRC20Transfer, error)

	// GetTransaction fetches one transaction, used to recover the memo
	// missing from TRC20 transfer records.
	GetTransaction(ctx context.Context, txID string) (*TransactionDetail, error)

	// IsTransactionFinalized reports whether txID has reached finality.
	IsTransactionFinalized(ctx context.Context, txID string) (bool, error)
}
