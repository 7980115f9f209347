package tronwallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const defaultRequestTimeout = 30 * time.Second

// HTTPWallet talks to the wallet sidecar that holds the committee keys
// and performs the actual tron transaction assembly, signing and
// broadcast. This core never touches key material directly.
type HTTPWallet struct {
	baseURL string
	client  *http.Client
}

func NewHTTPWallet(baseURL string) *HTTPWallet {
	return &HTTPWallet{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (w *HTTPWallet) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("wallet returned %d for %s: %s", resp.StatusCode, path, msg)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (w *HTTPWallet) BuildNativeTransfer(ctx context.Context, to string, amount decimal.Decimal, from string, permissionID int32) (*UnsignedTx, error) {
	tx := &UnsignedTx{}
	err := w.post(ctx, "/build/native", map[string]any{
		"to":            to,
		"amount":        amount.String(),
		"from":          from,
		"permission_id": permissionID,
	}, tx)
	if err != nil {
		return nil, fmt.Errorf("buildNativeTransfer failed: %v", err)
	}
	return tx, nil
}

func (w *HTTPWallet) BuildTokenTransfer(ctx context.Context, to string, amount decimal.Decimal, tokenID string, from string, permissionID int32) (*UnsignedTx, error) {
	tx := &UnsignedTx{}
	err := w.post(ctx, "/build/token", map[string]any{
		"to":            to,
		"amount":        amount.String(),
		"token_id":      tokenID,
		"from":          from,
		"permission_id": permissionID,
	}, tx)
	if err != nil {
		return nil, fmt.Errorf("buildTokenTransfer failed: %v", err)
	}
	return tx, nil
}

func (w *HTTPWallet) BuildContractCall(ctx context.Context, contract, selector string, params []ContractParam, permissionID int32, feeLimit int64, from string) (*UnsignedTx, error) {
	tx := &UnsignedTx{}
	err := w.post(ctx, "/build/contract", map[string]any{
		"contract":      contract,
		"selector":      selector,
		"params":        params,
		"permission_id": permissionID,
		"fee_limit":     feeLimit,
		"from":          from,
	}, tx)
	if err != nil {
		return nil, fmt.Errorf("buildContractCall failed: %v", err)
	}
	return tx, nil
}

func (w *HTTPWallet) AttachMemo(tx *UnsignedTx, text string) (*UnsignedTx, error) {
	if len(tx.SignedBy) > 0 {
		return nil, ErrMemoAfterSignature
	}
	tx.Memo = text
	return tx, nil
}

func (w *HTTPWallet) Sign(tx *UnsignedTx, key string) (*UnsignedTx, error) {
	signed := &UnsignedTx{}
	err := w.post(context.Background(), "/sign", map[string]any{
		"tx":  tx,
		"key": key,
	}, signed)
	if err != nil {
		return nil, fmt.Errorf("sign failed: %v", err)
	}
	return signed, nil
}

func (w *HTTPWallet) Broadcast(ctx context.Context, tx *UnsignedTx) (string, error) {
	var out struct {
		TxID string `json:"tx_id"`
	}
	if err := w.post(ctx, "/broadcast", map[string]any{"tx": tx}, &out); err != nil {
		return "", fmt.Errorf("broadcast failed: %v", err)
	}
	return out.TxID, nil
}
