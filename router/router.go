// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/cliparse"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/handlers"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	historyHandler := handlers.NewHistoryHandler(db, cfg)
	calculatorHandler := handlers.NewCalculatorHandler(db, cfg)
	keypadHandler := handlers.NewKeypadHandler(db, cfg)
	functionHandler := handlers.NewFunctionHandler(cfg)
	userHandler := handlers.NewUserHandler(db, cfg)

	// signedIn requires a verified bearer token; optional accepts anonymous
	// callers but still verifies a token that is sent
	signedIn := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireUser(cfg.JWTSecret, h))
	}
	optional := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithUser(cfg.JWTSecret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Calculation history (per user)
	mux.HandleFunc("GET /history", signedIn(historyHandler.List))
	mux.HandleFunc("POST /history", signedIn(historyHandler.Create))
	mux.HandleFunc("GET /history/export", signedIn(historyHandler.Export))
	mux.HandleFunc("PATCH /history/{id}", signedIn(historyHandler.Update))
	mux.HandleFunc("DELETE /history/{id}", signedIn(historyHandler.Delete))

	// Calculator marketplace
	mux.HandleFunc("GET /calculators", optional(calculatorHandler.List))
	mux.HandleFunc("POST /calculators", optional(calculatorHandler.Create))
	mux.HandleFunc("GET /calculators/{id}", optional(calculatorHandler.Get))
	mux.HandleFunc("DELETE /calculators/{id}", signedIn(calculatorHandler.Delete))
	mux.HandleFunc("POST /calculators/{id}/run", optional(calculatorHandler.Run))
	mux.HandleFunc("PUT /calculators/{id}/rating", signedIn(calculatorHandler.Rate))

	// Keypad calculator
	mux.HandleFunc("POST /keypad", optional(keypadHandler.Press))

	// Serverless function
	mux.HandleFunc("POST /functions/create-calculator", optional(functionHandler.CreateCalculator))

	// Profile
	mux.HandleFunc("GET /me", signedIn(userHandler.GetMe))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("boho-calc-flow API v1"))
	})

	return mux
}
