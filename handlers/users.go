// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/cliparse"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/middleware"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
)

type UserHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: db, cfg: cfg}
}

// GetMe handles GET /me
// The profile row is created on first sight and refreshed from the token's
// claims afterwards.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r, "Please login to continue")
	if !ok {
		return
	}

	_, err := h.db.Exec(`
		INSERT INTO users (id, email, username, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(NULLIF(excluded.email, ''), users.email),
			username = COALESCE(NULLIF(excluded.username, ''), users.username)
	`, caller.UserID, caller.Email, caller.Username, time.Now().UTC())
	if err != nil {
		slog.Error("failed to upsert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var user models.User
	var email, username sql.NullString
	err = h.db.QueryRow(`SELECT id, email, username, created_at FROM users WHERE id = $1`, caller.UserID).
		Scan(&user.ID, &email, &username, &user.CreatedAt)
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	user.Email = email.String
	user.Username = username.String

	middleware.JSONResponse(w, http.StatusOK, user)
}
