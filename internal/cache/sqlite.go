package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/roundtrip/internal/domain"
	_ "modernc.org/sqlite"
)

const createSearchesTable = `
CREATE TABLE IF NOT EXISTS searches (
	id         TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER
)`

// SQLiteStore keeps completed searches in a local SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteStore opens path and creates the searches table when missing.
// ":memory:" gives a private in-process database.
func NewSQLiteStore(ctx context.Context, path string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// a :memory: database lives only as long as its single connection
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, createSearchesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create searches table: %w", err)
	}
	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, search *domain.Search) error {
	payload, err := json.Marshal(search)
	if err != nil {
		return err
	}
	now := s.now()
	var expiresAt sql.NullInt64
	if s.ttl > 0 {
		expiresAt = sql.NullInt64{Int64: now.Add(s.ttl).UnixNano(), Valid: true}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO searches (id, payload, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		search.ID, string(payload), now.UnixNano(), expiresAt)
	if err != nil {
		return fmt.Errorf("insert search %s: %w", search.ID, err)
	}
	return nil
}

// Get returns nil, nil for unknown or expired ids.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.Search, error) {
	var (
		payload   string
		expiresAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM searches WHERE id = ?`, id,
	).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select search %s: %w", id, err)
	}
	if expiresAt.Valid && s.now().UnixNano() >= expiresAt.Int64 {
		return nil, nil
	}
	var search domain.Search
	if err := json.Unmarshal([]byte(payload), &search); err != nil {
		return nil, fmt.Errorf("decode search %s: %w", id, err)
	}
	return &search, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
