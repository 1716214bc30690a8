// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package db opens the database and creates its schema.

# Connections

Open accepts the two supported backends:

	conn, err := db.Open("postgres", "postgres://...")   // lib/pq
	conn, err := db.Open("sqlite", "calc.db")            // modernc.org/sqlite
	conn, err := db.Open("sqlite", ":memory:")           // tests

SQLite connections have foreign keys enabled and are capped at one open
connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on both backends: JSON values (variables, inputs, tags)
are stored as TEXT and every timestamp is supplied by the application.

# Tables

  - users: profile rows keyed by the identity provider's subject
  - calculators: marketplace calculators with usage and rating aggregates
  - calculator_usage: one row per calculator run
  - calculator_ratings: one rating (1-5) per user per calculator
  - calculation_history: saved calculations per user

# Relationships

	calculators 1──* calculator_usage
	calculators 1──* calculator_ratings

Both use ON DELETE CASCADE. User IDs are not foreign keys: users live in
the identity provider and a profile row may not exist yet.
*/
package db
