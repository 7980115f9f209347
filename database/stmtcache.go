package database

import (
	"database/sql"
	"sync"
)

// StmtCache memoizes prepared statements per query string so the hot
// ingestion and sweep paths do not re-prepare on every iteration.
type StmtCache struct {
	db *sql.DB
	mu sync.Mutex
	m  map[string]*sql.Stmt
}

func NewStmtCache(db *sql.DB) *StmtCache {
	return &StmtCache{db: db, m: make(map[string]*sql.Stmt)}
}

// DB exposes the underlying handle for transactional batch writes.
func (sc *StmtCache) DB() *sql.DB {
	return sc.db
}

func (sc *StmtCache) Prepare(query string) (*sql.Stmt, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if stmt, ok := sc.m[query]; ok {
		return stmt, nil
	}
	stmt, err := sc.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	sc.m[query] = stmt
	return stmt, nil
}

// Clear closes every cached statement. The underlying db is left open.
func (sc *StmtCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for q, stmt := range sc.m {
		_ = stmt.Close()
		delete(sc.m, q)
	}
}
