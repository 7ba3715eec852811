// Copyright (c) 2026 Steve Jovs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package history provides a Postgres-backed log of executed queries.
// The log is an audit trail for the HTTP layer — the query pipeline itself
// owns no persistent state. A nil store disables logging entirely.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one executed query.
type Entry struct {
	ID             string    `json:"id"`
	NaturalQuery   string    `json:"natural_query"`
	GmailQuery     string    `json:"gmail_query"`
	EmailsFound    int       `json:"emails_found"`
	ProcessingTime string    `json:"processing_time"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store persists query log entries in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a query log store backed by the given Postgres pool.
// It ensures the query_log table exists on creation.
func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure query_log schema: %w", err)
	}
	slog.Info("query history store initialised")
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS query_log (
			id              UUID PRIMARY KEY,
			natural_query   TEXT NOT NULL,
			gmail_query     TEXT NOT NULL,
			emails_found    INT NOT NULL DEFAULT 0,
			processing_time TEXT DEFAULT '',
			created_at      TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_query_log_created ON query_log(created_at DESC);
	`)
	return err
}

// Record inserts one entry. A nil store is a no-op so callers don't need
// to branch on whether history is configured.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if s == nil {
		return nil
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO query_log (id, natural_query, gmail_query, emails_found, processing_time)
		VALUES ($1, $2, $3, $4, $5)
	`, e.ID, e.NaturalQuery, e.GmailQuery, e.EmailsFound, e.ProcessingTime)
	if err != nil {
		return fmt.Errorf("insert query_log entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil {
		return []Entry{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, natural_query, gmail_query, emails_found, processing_time, created_at
		FROM query_log
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query query_log: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.NaturalQuery, &e.GmailQuery, &e.EmailsFound, &e.ProcessingTime, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan query_log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate query_log rows: %w", err)
	}

	return entries, nil
}

// Ping checks the Postgres connection.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
