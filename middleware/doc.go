// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
human-readable response size, duration_ms).

# Caller Identity

Bearer tokens from the identity provider are verified with the shared
JWT secret:

	mux.HandleFunc("GET /history", middleware.RequireUser(secret, h.List))
	mux.HandleFunc("GET /calculators", middleware.WithUser(secret, h.List))

WithUser accepts anonymous requests; RequireUser answers 401 without a
valid token. Handlers read the caller with UserFromContext.

# CORS Middleware

Enable cross-origin requests for the browser client:

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigin, mux),
	}

Allows headers authorization, x-client-info, apikey and content-type.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CreateHistoryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)
*/
package middleware
