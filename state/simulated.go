package state

import (
	"database/sql"

	"github.com/Keith-CY/force-bridge/common"
	logger "github.com/sirupsen/logrus"
)

// Helpers to seed tests with plausible rows.

func RandLockEvent(kind AssetKind, observedAt int64) *LockEvent {
	assetID := NativeAssetID
	if kind != AssetTRX {
		assetID = common.RandTronAddress()
	}
	return &LockEvent{
		TxHash:     common.RandTxHash(),
		Index:      0,
		Sender:     common.RandTronAddress(),
		AssetID:    assetID,
		AssetKind:  kind,
		Amount:     "100",
		Memo:       "ckb1qrandomlockscript,0x00",
		ObservedAt: observedAt,
	}
}

func RandUnlockRequest(kind AssetKind, status UnlockStatus) *UnlockRequest {
	assetID := NativeAssetID
	if kind != AssetTRX {
		assetID = common.RandTronAddress()
	}
	return &UnlockRequest{
		RecipientAddress: common.RandTronAddress(),
		Amount:           "100",
		AssetKind:        kind,
		AssetID:          assetID,
		Memo:             "burn",
		Status:           status,
	}
}

func GetMemoryDB() *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		logger.Fatal(err)
	}
	return db
}
