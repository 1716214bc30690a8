// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/auth"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/cliparse"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/formula"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/middleware"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
)

type CalculatorHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCalculatorHandler(db *sql.DB, cfg cliparse.Config) *CalculatorHandler {
	return &CalculatorHandler{db: db, cfg: cfg}
}

const calculatorColumns = `id, name, description, formula, variables, category, is_public, is_anonymous,
	usage_count, rating_avg, rating_count, creator_id, created_at, updated_at`

var errCalculatorNotFound = errors.New("calculator not found")

func scanCalculator(row rowScanner) (models.Calculator, error) {
	var c models.Calculator
	var variables string
	var creator sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Formula, &variables, &c.Category, &c.IsPublic, &c.IsAnonymous,
		&c.UsageCount, &c.RatingAvg, &c.RatingCount, &creator, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Calculator{}, err
	}

	// Rows from older clients may hold something other than an array
	if err := json.Unmarshal([]byte(variables), &c.Variables); err != nil || c.Variables == nil {
		c.Variables = []models.Variable{}
	}
	if creator.Valid {
		c.CreatorID = &creator.String
	}
	return c, nil
}

// visibleTo hides private calculators from everyone but their creator and
// anonymous creators from everyone else
func visibleTo(c *models.Calculator, user auth.Identity, signedIn bool) bool {
	isCreator := signedIn && c.CreatorID != nil && *c.CreatorID == user.UserID
	if !c.IsPublic && !isCreator {
		return false
	}
	if c.IsAnonymous && !isCreator {
		c.CreatorID = nil
	}
	return true
}

// loadCalculator fetches a calculator the caller may see
func (h *CalculatorHandler) loadCalculator(r *http.Request, id string) (models.Calculator, error) {
	c, err := scanCalculator(h.db.QueryRow(`SELECT `+calculatorColumns+` FROM calculators WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return models.Calculator{}, errCalculatorNotFound
	}
	if err != nil {
		return models.Calculator{}, err
	}

	user, signedIn := middleware.UserFromContext(r.Context())
	if !visibleTo(&c, user, signedIn) {
		return models.Calculator{}, errCalculatorNotFound
	}
	return c, nil
}

// List handles GET /calculators
func (h *CalculatorHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimit(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, signedIn := middleware.UserFromContext(r.Context())

	conds := []string{}
	args := []interface{}{}
	if signedIn {
		args = append(args, user.UserID)
		conds = append(conds, fmt.Sprintf("(is_public = TRUE OR creator_id = $%d)", len(args)))
	} else {
		conds = append(conds, "is_public = TRUE")
	}

	if category := strings.TrimSpace(q.Get("category")); category != "" && !strings.EqualFold(category, "all") {
		args = append(args, formula.NormalizeCategory(category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}

	if search := strings.TrimSpace(q.Get("q")); search != "" {
		args = append(args, likePattern(strings.ToLower(search)))
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(LOWER(name) LIKE $%d ESCAPE '\' OR LOWER(description) LIKE $%d ESCAPE '\')`, n, n))
	}

	var order string
	switch q.Get("sort") {
	case models.SortPopular:
		order = "usage_count DESC"
	case models.SortRating:
		order = "rating_avg DESC"
	case models.SortRecent, "":
		order = "created_at DESC"
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "sort must be recent, popular or rating")
		return
	}

	args = append(args, limit)
	query := fmt.Sprintf(`SELECT %s FROM calculators WHERE %s ORDER BY %s, id DESC LIMIT $%d`,
		calculatorColumns, strings.Join(conds, " AND "), order, len(args))

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query calculators", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load calculators")
		return
	}
	defer rows.Close()

	calculators := []models.Calculator{}
	for rows.Next() {
		c, err := scanCalculator(rows)
		if err != nil {
			slog.Error("failed to scan calculator", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load calculators")
			return
		}
		visibleTo(&c, user, signedIn)
		calculators = append(calculators, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate calculators", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load calculators")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CalculatorList{Calculators: calculators})
}

// Get handles GET /calculators/{id}
func (h *CalculatorHandler) Get(w http.ResponseWriter, r *http.Request) {
	calculatorID := r.PathValue("id")
	if calculatorID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	c, err := h.loadCalculator(r, calculatorID)
	if err == errCalculatorNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Calculator not found")
		return
	}
	if err != nil {
		slog.Error("failed to query calculator", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, c)
}

// Create handles POST /calculators
func (h *CalculatorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCalculatorRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	def := models.CalculatorDefinition{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Formula:     strings.TrimSpace(req.Formula),
		Variables:   req.Variables,
		Category:    formula.NormalizeCategory(req.Category),
	}
	if def.Name == "" || def.Formula == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Name and formula are required")
		return
	}
	if def.Variables == nil {
		def.Variables = []models.Variable{}
	}
	for i := range def.Variables {
		v := &def.Variables[i]
		v.Name = strings.TrimSpace(v.Name)
		if v.Type == "" {
			v.Type = models.VariableNumber
		}
		if strings.TrimSpace(v.Label) == "" {
			v.Label = v.Name
		}
	}

	if err := formula.ValidateDefinition(def); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	// A formula that only fails on its defaults (say, a zero divisor) is
	// still a valid calculator
	if _, err := formula.Run(def, nil); err != nil && !errors.Is(err, formula.ErrNonFiniteResult) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid formula: "+err.Error())
		return
	}

	user, signedIn := middleware.UserFromContext(r.Context())
	var creator *string
	if signedIn {
		creator = &user.UserID
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	variables, err := json.Marshal(def.Variables)
	if err != nil {
		slog.Error("failed to encode variables", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save calculator")
		return
	}

	id := auth.NewID()
	now := time.Now().UTC()
	_, err = h.db.Exec(`
		INSERT INTO calculators (id, name, description, formula, variables, category, is_public, is_anonymous, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, id, def.Name, def.Description, def.Formula, string(variables), def.Category, isPublic, req.IsAnonymous, creator, now, now)
	if err != nil {
		slog.Error("failed to insert calculator", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save calculator")
		return
	}

	slog.Info("calculator created", "calculator_id", id, "category", def.Category, "public", isPublic)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// Delete handles DELETE /calculators/{id}
func (h *CalculatorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCaller(w, r, "Please login to continue")
	if !ok {
		return
	}

	calculatorID := r.PathValue("id")
	if calculatorID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var creator sql.NullString
	err := h.db.QueryRow(`SELECT creator_id FROM calculators WHERE id = $1`, calculatorID).Scan(&creator)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Calculator not found")
		return
	}
	if err != nil {
		slog.Error("failed to query calculator", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !creator.Valid || creator.String != user.UserID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the creator can delete this calculator")
		return
	}

	if _, err := h.db.Exec(`DELETE FROM calculators WHERE id = $1`, calculatorID); err != nil {
		slog.Error("failed to delete calculator", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete calculator")
		return
	}

	slog.Info("calculator deleted", "calculator_id", calculatorID, "user_id", user.UserID)

	w.WriteHeader(http.StatusNoContent)
}

// Run handles POST /calculators/{id}/run
func (h *CalculatorHandler) Run(w http.ResponseWriter, r *http.Request) {
	calculatorID := r.PathValue("id")
	if calculatorID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	// An empty body runs the calculator on its defaults
	var req models.RunCalculatorRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, signedIn := middleware.UserFromContext(r.Context())
	if req.Save && !signedIn {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Please login to save results")
		return
	}

	c, err := h.loadCalculator(r, calculatorID)
	if err == errCalculatorNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Calculator not found")
		return
	}
	if err != nil {
		slog.Error("failed to query calculator", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	def := c.Definition()
	result, err := formula.Run(def, req.Inputs)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Could not evaluate formula: "+err.Error())
		return
	}

	// Record the inputs actually used, defaults included
	used := make(map[string]float64, len(def.Variables))
	for _, v := range def.Variables {
		value, ok := req.Inputs[v.Name]
		if !ok {
			value = v.DefaultValue
		}
		used[v.Name] = value
	}
	inputs, _ := json.Marshal(used)
	expression := formula.DescribeRun(def, req.Inputs)

	var userID *string
	if signedIn {
		userID = &user.UserID
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record usage")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO calculator_usage (id, calculator_id, user_id, inputs, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, auth.NewID(), c.ID, userID, string(inputs), result.Text, time.Now().UTC())
	if err != nil {
		slog.Error("failed to insert usage", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record usage")
		return
	}

	if _, err := tx.Exec(`UPDATE calculators SET usage_count = usage_count + 1 WHERE id = $1`, c.ID); err != nil {
		slog.Error("failed to increment usage count", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record usage")
		return
	}

	var historyID string
	if req.Save {
		notes := strings.TrimSpace(req.Notes)
		if notes == "" {
			notes = "Calculated using " + c.Name
		}
		historyID, err = insertHistory(tx, user.UserID, expression, result.Text, []string{c.Category, c.Name}, &notes)
		if err != nil {
			slog.Error("failed to save run to history", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save result")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit run", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record usage")
		return
	}

	slog.Info("calculator run", "calculator_id", c.ID, "result", result.Text, "saved", historyID != "")

	middleware.JSONResponse(w, http.StatusOK, models.RunCalculatorResponse{
		Result:     result.Text,
		Value:      result.Value,
		Expression: expression,
		Evaluated:  result.Evaluated,
		HistoryID:  historyID,
	})
}

// Rate handles PUT /calculators/{id}/rating
func (h *CalculatorHandler) Rate(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCaller(w, r, "Please login to rate calculators")
	if !ok {
		return
	}

	calculatorID := r.PathValue("id")
	if calculatorID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var req models.RateCalculatorRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	if _, err := h.loadCalculator(r, calculatorID); err == errCalculatorNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Calculator not found")
		return
	} else if err != nil {
		slog.Error("failed to query calculator", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit rating")
		return
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.Exec(`
		INSERT INTO calculator_ratings (id, calculator_id, user_id, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (calculator_id, user_id)
		DO UPDATE SET rating = excluded.rating, updated_at = excluded.updated_at
	`, auth.NewID(), calculatorID, user.UserID, req.Rating, now, now)
	if err != nil {
		slog.Error("failed to upsert rating", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit rating")
		return
	}

	_, err = tx.Exec(`
		UPDATE calculators SET
			rating_avg = (SELECT COALESCE(AVG(rating), 0) FROM calculator_ratings WHERE calculator_id = $1),
			rating_count = (SELECT COUNT(*) FROM calculator_ratings WHERE calculator_id = $1)
		WHERE id = $1
	`, calculatorID)
	if err != nil {
		slog.Error("failed to update rating aggregates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit rating")
		return
	}

	resp := models.RateCalculatorResponse{Rating: req.Rating}
	err = tx.QueryRow(`SELECT rating_avg, rating_count FROM calculators WHERE id = $1`, calculatorID).
		Scan(&resp.RatingAvg, &resp.RatingCount)
	if err != nil {
		slog.Error("failed to read rating aggregates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit rating")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit rating", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit rating")
		return
	}

	slog.Info("rating submitted", "calculator_id", calculatorID, "user_id", user.UserID, "rating", req.Rating)

	middleware.JSONResponse(w, http.StatusOK, resp)
}
