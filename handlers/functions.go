// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/cliparse"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/generator"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/middleware"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
)

// FunctionHandler serves the create-calculator function. Its errors carry
// diagnostic detail for the client instead of the generic error shape.
type FunctionHandler struct {
	gen *generator.Client
	cfg cliparse.Config
}

func NewFunctionHandler(cfg cliparse.Config) *FunctionHandler {
	return &FunctionHandler{
		gen: generator.New(generator.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}),
		cfg: cfg,
	}
}

func functionError(w http.ResponseWriter, status int, resp models.FunctionErrorResponse) {
	middleware.JSONResponse(w, status, resp)
}

// CreateCalculator handles POST /functions/create-calculator
func (h *FunctionHandler) CreateCalculator(w http.ResponseWriter, r *http.Request) {
	if h.cfg.OpenAIAPIKey == "" {
		slog.Error("create-calculator called without an API key")
		functionError(w, http.StatusInternalServerError, models.FunctionErrorResponse{Error: generator.ErrMissingAPIKey.Error()})
		return
	}

	var req models.GenerateCalculatorRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		functionError(w, http.StatusBadRequest, models.FunctionErrorResponse{Error: "Invalid JSON", Details: err.Error()})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		functionError(w, http.StatusBadRequest, models.FunctionErrorResponse{Error: "Prompt is required"})
		return
	}

	def, err := h.gen.Generate(r.Context(), req.Prompt, req.UserInput)

	var upstream *generator.UpstreamError
	var parse *generator.ParseError
	switch {
	case err == nil:
	case errors.Is(err, generator.ErrMissingAPIKey):
		functionError(w, http.StatusInternalServerError, models.FunctionErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, generator.ErrEmptyPrompt):
		functionError(w, http.StatusBadRequest, models.FunctionErrorResponse{Error: "Prompt is required"})
		return
	case errors.As(err, &upstream):
		slog.Error("completion request failed", "status", upstream.Status, "error", err)
		functionError(w, http.StatusInternalServerError, models.FunctionErrorResponse{
			Error:   "OpenAI API request failed",
			Details: upstream.Detail,
		})
		return
	case errors.Is(err, generator.ErrEmptyCompletion):
		slog.Error("completion had no content", "error", err)
		functionError(w, http.StatusInternalServerError, models.FunctionErrorResponse{Error: "Invalid response from OpenAI"})
		return
	case errors.As(err, &parse):
		slog.Error("failed to parse AI response", "error", err, "raw", parse.Raw)
		functionError(w, http.StatusInternalServerError, models.FunctionErrorResponse{
			Error:      "Failed to parse AI response",
			Details:    parse.Detail,
			RawContent: parse.Raw,
		})
		return
	default:
		slog.Error("create-calculator failed", "error", err)
		functionError(w, http.StatusInternalServerError, models.FunctionErrorResponse{
			Error:   "Internal server error",
			Details: err.Error(),
		})
		return
	}

	slog.Info("calculator generated", "name", def.Name, "category", def.Category, "variables", len(def.Variables))

	middleware.JSONResponse(w, http.StatusOK, models.GenerateCalculatorResponse{
		Success:        true,
		CalculatorData: *def,
	})
}
