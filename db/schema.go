// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/cliparse"
)

// Open connects to PostgreSQL or SQLite and verifies the connection.
//
// SQLite is limited to a single connection: an in-memory database exists
// per connection, and SQLite serialises writers anyway. Callers must not
// hold a *sql.Rows open while issuing another statement outside its
// transaction.
func Open(dbType, url string) (*sql.DB, error) {
	var conn *sql.DB
	var err error

	switch dbType {
	case cliparse.DatabasePostgres:
		conn, err = sql.Open("postgres", url)
	case cliparse.DatabaseSQLite:
		conn, err = sql.Open("sqlite", sqliteDSN(url))
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbType == cliparse.DatabaseSQLite {
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// sqliteDSN adds the driver options the store relies on: foreign keys on
// every connection and sortable timestamp text.
func sqliteDSN(url string) string {
	params := []string{}
	if !strings.Contains(url, "foreign_keys") {
		params = append(params, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(url, "_time_format=") {
		params = append(params, "_time_format=sqlite")
	}
	if len(params) == 0 {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(params, "&")
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// The DDL is shared by PostgreSQL and SQLite: JSON lives in TEXT columns and
// every timestamp is written by the application.
const schema = `
-- Users (profile rows keyed by the identity provider's subject)
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT,
    username TEXT,
    created_at TIMESTAMP NOT NULL
);

-- Calculators
CREATE TABLE IF NOT EXISTS calculators (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    formula TEXT NOT NULL,
    variables TEXT NOT NULL DEFAULT '[]',
    category TEXT NOT NULL DEFAULT 'Other',
    is_public BOOLEAN NOT NULL DEFAULT TRUE,
    is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
    usage_count INTEGER NOT NULL DEFAULT 0,
    rating_avg DOUBLE PRECISION NOT NULL DEFAULT 0,
    rating_count INTEGER NOT NULL DEFAULT 0,
    creator_id TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_calculators_category ON calculators(category);
CREATE INDEX IF NOT EXISTS idx_calculators_creator ON calculators(creator_id);
CREATE INDEX IF NOT EXISTS idx_calculators_created_at ON calculators(created_at);

-- Usage events
CREATE TABLE IF NOT EXISTS calculator_usage (
    id TEXT PRIMARY KEY,
    calculator_id TEXT NOT NULL REFERENCES calculators(id) ON DELETE CASCADE,
    user_id TEXT,
    inputs TEXT NOT NULL DEFAULT '{}',
    result TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_calculator_usage_calculator ON calculator_usage(calculator_id);

-- Ratings (one per user per calculator)
CREATE TABLE IF NOT EXISTS calculator_ratings (
    id TEXT PRIMARY KEY,
    calculator_id TEXT NOT NULL REFERENCES calculators(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    rating INTEGER NOT NULL CHECK (rating >= 1 AND rating <= 5),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (calculator_id, user_id)
);

-- Calculation history
CREATE TABLE IF NOT EXISTS calculation_history (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    expression TEXT NOT NULL,
    result TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    notes TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_calculation_history_user ON calculation_history(user_id, created_at)
`
