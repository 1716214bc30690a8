// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package main provides the entry point for the boho-calc-flow API server.

boho-calc-flow is the backend of a calculator app: a keypad calculator
with saved, taggable history, a marketplace of user-authored formula
calculators, and a function that drafts new calculators with a language
model.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... JWT_SECRET=... go run .

Or with flags, against a local SQLite file:

	go run . -p 3318 -d calc.db -jwt-secret dev-secret

A .env file in the working directory is loaded when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL URL or SQLite path
  - JWT_SECRET (-jwt-secret): secret the identity provider signs tokens with

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): postgres or sqlite, inferred from the URL
  - OPENAI_API_KEY (-openai-key), OPENAI_BASE_URL, OPENAI_MODEL
  - ALLOWED_ORIGIN (-origin): CORS origin, echoed from the request if unset

# Architecture

  - handlers: HTTP request handlers (history, calculators, keypad, functions, users)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, caller identity, JSON helpers
  - models: Request/response and domain types
  - calc: Keypad accumulator
  - formula: Calculator definition evaluation
  - generator: Language-model calculator drafting
  - export: History CSV
  - auth: Bearer token verification and IDs
  - db: Connections and schema
  - cliparse: Configuration parsing

The calcctl developer tool lives in cmd/calcctl.
*/
package main
