// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/calc"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/cliparse"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/middleware"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
)

type KeypadHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewKeypadHandler(db *sql.DB, cfg cliparse.Config) *KeypadHandler {
	return &KeypadHandler{db: db, cfg: cfg}
}

// Press handles POST /keypad
// Keys are replayed on a fresh accumulator; no state is kept between calls.
func (h *KeypadHandler) Press(w http.ResponseWriter, r *http.Request) {
	var req models.KeypadRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Keys) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "keys are required")
		return
	}

	user, signedIn := middleware.UserFromContext(r.Context())
	if req.Save && !signedIn {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Please login to save calculations")
		return
	}

	acc := calc.New()
	if err := acc.Feed(req.Keys); err != nil {
		if errors.Is(err, calc.ErrUnknownKey) {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to replay keys", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Calculation failed")
		return
	}

	resp := models.KeypadResponse{
		Display:         acc.Display(),
		PendingOperator: acc.PendingOperator(),
		Expression:      acc.LastExpression(),
		Result:          acc.LastResult(),
	}

	if req.Save {
		// A zero display has nothing worth keeping, even after "1 - 1 =".
		if resp.Expression == "" || resp.Display == "0" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "No result to save")
			return
		}
		id, err := insertHistory(h.db, user.UserID, resp.Expression, resp.Result, nil, nil)
		if err != nil {
			slog.Error("failed to save keypad result", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save calculation")
			return
		}
		resp.HistoryID = id
		slog.Info("calculation saved", "history_id", id, "user_id", user.UserID)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
