// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package router defines HTTP routes for the boho-calc-flow API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

Every route except /health and / is wrapped in request logging and
caller identification. "Signed in" routes answer 401 without a valid
bearer token; the rest accept anonymous callers.

# Endpoints

Health:

	GET /health

History (signed in, scoped to the caller):

	GET    /history         - List entries (?limit=, ?tag=)
	POST   /history         - Save a calculation
	GET    /history/export  - CSV download
	PATCH  /history/{id}    - Edit tags and notes
	DELETE /history/{id}    - Remove an entry

Marketplace:

	GET    /calculators             - Browse (?category=, ?sort=, ?q=, ?limit=)
	POST   /calculators             - Publish a calculator
	GET    /calculators/{id}        - Calculator details
	DELETE /calculators/{id}        - Creator only
	POST   /calculators/{id}/run    - Evaluate, optionally saving to history
	PUT    /calculators/{id}/rating - Rate 1..5 (signed in)

Keypad and functions:

	POST /keypad                       - Replay keypad presses
	POST /functions/create-calculator  - Draft a calculator with the model

Profile:

	GET /me
*/
package router
