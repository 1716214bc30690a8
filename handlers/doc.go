// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package handlers contains HTTP request handlers for the boho-calc-flow API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - HistoryHandler: The caller's saved calculations and CSV export
  - CalculatorHandler: Marketplace browse, publish, run, rate and delete
  - KeypadHandler: Stateless keypad replay, optionally saved to history
  - FunctionHandler: Drafts calculator definitions with the language model
  - UserHandler: The caller's profile

Handlers are created via constructor functions that accept *sql.DB and Config:

	historyHandler := handlers.NewHistoryHandler(db, cfg)

FunctionHandler needs no database and takes only the Config.

# Callers

The router places the verified caller in the request context (see
middleware.WithUser). Handlers read it with middleware.UserFromContext;
history and profile routes are unreachable without one.

# History

Entries belong to one user and are listed newest first. Tags are stored
as a JSON array and filtered by exact tag:

	GET /history?tag=Finance&limit=20

Notes and an optional context are joined into one notes field on save.
Export streams every entry of the caller as CSV.

# Marketplace

Calculators are public unless created with is_public false, in which case
only the creator sees them; anyone else gets 404. Anonymous calculators
hide their creator from other callers.

Running a calculator records a usage row and bumps usage_count in one
transaction, and with save=true also writes a history entry tagged with
the calculator's category and name. Ratings are one per user per
calculator; a second rating replaces the first and the average is
recomputed in the same transaction.

# Create-calculator Function

POST /functions/create-calculator keeps the response shape of the hosted
function it replaces: {success, calculatorData} on success and
{error, details, rawContent} on failure.
*/
package handlers
