// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/auth"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/cliparse"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/export"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/middleware"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
)

type HistoryHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewHistoryHandler(db *sql.DB, cfg cliparse.Config) *HistoryHandler {
	return &HistoryHandler{db: db, cfg: cfg}
}

const historyColumns = `id, user_id, expression, result, tags, notes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHistory(row rowScanner) (models.HistoryEntry, error) {
	var e models.HistoryEntry
	var tags string
	var notes sql.NullString
	if err := row.Scan(&e.ID, &e.UserID, &e.Expression, &e.Result, &tags, &notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return models.HistoryEntry{}, err
	}
	e.Tags = decodeTags(tags)
	if notes.Valid {
		e.Notes = &notes.String
	}
	return e, nil
}

// listHistory returns the user's entries newest first. limit <= 0 means all.
func (h *HistoryHandler) listHistory(userID, tag string, limit int) ([]models.HistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM calculation_history WHERE user_id = $1`
	args := []interface{}{userID}

	if tag != "" {
		quoted, _ := json.Marshal(tag)
		args = append(args, likePattern(string(quoted)))
		query += fmt.Sprintf(` AND tags LIKE $%d ESCAPE '\'`, len(args))
	}

	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		e, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// List handles GET /history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCaller(w, r, "Please login to view your history")
	if !ok {
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))

	entries, err := h.listHistory(user.UserID, tag, limit)
	if err != nil {
		slog.Error("failed to query history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load calculation history")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HistoryList{Entries: entries})
}

// insertHistory writes a history row through db or an open transaction
func insertHistory(exec interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}, userID, expression, result string, tags []string, notes *string) (string, error) {
	id := auth.NewID()
	now := time.Now().UTC()
	_, err := exec.Exec(`
		INSERT INTO calculation_history (id, user_id, expression, result, tags, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, userID, expression, result, encodeTags(tags), notes, now, now)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Create handles POST /history
func (h *HistoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCaller(w, r, "Please login to save calculations")
	if !ok {
		return
	}

	var req models.CreateHistoryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	expression := strings.TrimSpace(req.Expression)
	result := strings.TrimSpace(req.Result)
	if expression == "" || result == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Expression and result are required")
		return
	}

	id, err := insertHistory(h.db, user.UserID, expression, result, req.Tags, joinNotes(req.Notes, req.Context))
	if err != nil {
		slog.Error("failed to insert history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save calculation")
		return
	}

	slog.Info("calculation saved", "history_id", id, "user_id", user.UserID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// Update handles PATCH /history/{id}
func (h *HistoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCaller(w, r, "Please login to edit your history")
	if !ok {
		return
	}

	entryID := r.PathValue("id")
	if entryID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var req models.UpdateHistoryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Tags == nil && req.Notes == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	sets := []string{}
	args := []interface{}{}
	if req.Tags != nil {
		args = append(args, encodeTags(*req.Tags))
		sets = append(sets, fmt.Sprintf("tags = $%d", len(args)))
	}
	if req.Notes != nil {
		args = append(args, joinNotes(*req.Notes, ""))
		sets = append(sets, fmt.Sprintf("notes = $%d", len(args)))
	}
	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	args = append(args, entryID, user.UserID)
	query := fmt.Sprintf(`UPDATE calculation_history SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	res, err := h.db.Exec(query, args...)
	if err != nil {
		slog.Error("failed to update history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update calculation")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Calculation not found")
		return
	}

	entry, err := scanHistory(h.db.QueryRow(`SELECT `+historyColumns+` FROM calculation_history WHERE id = $1`, entryID))
	if err != nil {
		slog.Error("failed to reload history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, entry)
}

// Delete handles DELETE /history/{id}
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCaller(w, r, "Please login to edit your history")
	if !ok {
		return
	}

	entryID := r.PathValue("id")
	if entryID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	res, err := h.db.Exec(`DELETE FROM calculation_history WHERE id = $1 AND user_id = $2`, entryID, user.UserID)
	if err != nil {
		slog.Error("failed to delete history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete calculation")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Calculation not found")
		return
	}

	slog.Info("calculation deleted", "history_id", entryID, "user_id", user.UserID)

	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /history/export
func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCaller(w, r, "Please login to export your history")
	if !ok {
		return
	}

	entries, err := h.listHistory(user.UserID, strings.TrimSpace(r.URL.Query().Get("tag")), 0)
	if err != nil {
		slog.Error("failed to query history for export", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export history")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(time.Now())))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteHistoryCSV(w, entries); err != nil {
		slog.Error("failed to write history export", "error", err)
		return
	}

	slog.Info("history exported", "user_id", user.UserID, "entries", len(entries))
}
