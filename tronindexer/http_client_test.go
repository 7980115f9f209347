package tronindexer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientListNativeTransfers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transfers/native", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Tbridge", q.Get("address"))
		assert.Equal(t, "1000", q.Get("min_timestamp"))
		assert.Equal(t, "true", q.Get("only_confirmed"))
		assert.Equal(t, "true", q.Get("only_to"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"tx_id":"tx1","index":0,"from":"Ta","amount":"100","block_timestamp":1100}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	transfers, err := c.ListNativeTransfers(context.Background(), "Tbridge", 1000)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, "tx1", transfers[0].TxID)
	assert.Equal(t, "100", transfers[0].Amount)
	assert.Equal(t, int64(1100), transfers[0].BlockTimestamp)
}

func TestHTTPClientFinality(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transactions/abc/finality", r.URL.Path)
		_, _ = w.Write([]byte(`{"finalized":true}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	final, err := c.IsTransactionFinalized(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, final)
}

func TestHTTPClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.ListTRC20Transfers(context.Background(), "Tbridge", 0)
	assert.Error(t, err)
}
