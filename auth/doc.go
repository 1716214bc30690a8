// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package auth verifies callers and generates row IDs.

# Bearer Tokens

Users sign in with an external identity provider, which issues HS256 access
tokens. The API only verifies them:

	token, err := auth.ParseBearer(r.Header.Get("Authorization"))
	id, err := auth.VerifyToken(token, cfg.JWTSecret)

The token's subject is the user ID. The optional email and
user_metadata.username claims populate the profile returned by GET /me.

NewToken mints a token with the same claims for development (calcctl token)
and tests.

# IDs

Row IDs are UUIDv7 strings, so they sort by creation time:

	id := auth.NewID()
*/
package auth
