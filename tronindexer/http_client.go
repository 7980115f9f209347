package tronindexer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// HTTPClient talks to the tron block indexing service (tronGrid-style
// JSON API). Listing calls always ask for confirmed, incoming transfers
// only.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("indexer returned %d for %s: %s", resp.StatusCode, path, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func transferQuery(account string, since int64) url.Values {
	q := url.Values{}
	q.Set("address", account)
	q.Set("min_timestamp", strconv.FormatInt(since, 10))
	q.Set("only_confirmed", "true")
	q.Set("only_to", "true")
	return q
}

func (c *HTTPClient) ListNativeTransfers(ctx context.Context, account string, since int64) ([]NativeTransfer, error) {
	var out struct {
		Data []NativeTransfer `json:"data"`
	}
	if err := c.get(ctx, "/v1/transfers/native", transferQuery(account, since), &out); err != nil {
		return nil, fmt.Errorf("listNativeTransfers failed: %v", err)
	}
	return out.Data, nil
}

func (c *HTTPClient) ListTRC20Transfers(ctx context.Context, account string, since int64) ([]TRC20Transfer, error) {
	var out struct {
		Data []TRC20Transfer `json:"data"`
	}
	if err := c.get(ctx, "/v1/transfers/trc20", transferQuery(account, since), &out); err != nil {
		return nil, fmt.Errorf("listTRC20Transfers failed: %v", err)
	}
	return out.Data, nil
}

func (c *HTTPClient) GetTransaction(ctx context.Context, txID string) (*TransactionDetail, error) {
	var out TransactionDetail
	if err := c.get(ctx, "/v1/transactions/"+txID, nil, &out); err != nil {
		return nil, fmt.Errorf("getTransaction failed: %v", err)
	}
	return &out, nil
}

func (c *HTTPClient) IsTransactionFinalized(ctx context.Context, txID string) (bool, error) {
	var out struct {
		Finalized bool `json:"finalized"`
	}
	if err := c.get(ctx, "/v1/transactions/"+txID+"/finality", nil, &out); err != nil {
		return false, fmt.Errorf("finality query failed: %v", err)
	}
	return out.Finalized, nil
}
