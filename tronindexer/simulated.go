package tronindexer

import (
	"context"
	"fmt"
	"sync"
)

// SimulatedIndexer is an in-memory IndexerClient for tests. Transfers
// and transactions are seeded by the test; call counters let tests
// assert how many secondary lookups a path performed.
type SimulatedIndexer struct {
	mu sync.Mutex

	NativeTransfers []NativeTransfer
	TRC20Transfers  []TRC20Transfer
	Transactions    map[string]*TransactionDetail
	Finalized       map[string]bool

	GetTransactionCalls int

	// When set, the listing calls fail with this error.
	ListErr error

	// StaleWindow makes the listing calls ignore `since`, modelling an
	// upstream whose window lags the requested lower bound.
	StaleWindow bool
}

func NewSimulatedIndexer() *SimulatedIndexer {
	return &SimulatedIndexer{
		Transactions: make(map[string]*TransactionDetail),
		Finalized:    make(map[string]bool),
	}
}

func (s *SimulatedIndexer) ListNativeTransfers(ctx context.Context, account string, since int64) ([]NativeTransfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var out []NativeTransfer
	for _, t := range s.NativeTransfers {
		if s.StaleWindow || t.BlockTimestamp >= since {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *SimulatedIndexer) ListTRC20Transfers(ctx context.Context, account string, since int64) ([]TRC20Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var out []TRC20Transfer
	for _, t := range s.TRC20Transfers {
		if s.StaleWindow || t.BlockTimestamp >= since {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *SimulatedIndexer) GetTransaction(ctx context.Context, txID string) (*TransactionDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetTransactionCalls++
	detail, ok := s.Transactions[txID]
	if !ok {
		return nil, fmt.Errorf("transaction %s not found", txID)
	}
	return detail, nil
}

func (s *SimulatedIndexer) IsTransactionFinalized(ctx context.Context, txID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Finalized[txID], nil
}
