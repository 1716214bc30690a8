// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/auth"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/middleware"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

var errBadLimit = errors.New("limit must be a positive integer")

// parseLimit reads ?limit=, defaulting to 50 and capping at 100
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errBadLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}

// requireCaller writes a 401 and returns false when nobody is signed in
func requireCaller(w http.ResponseWriter, r *http.Request, message string) (auth.Identity, bool) {
	id, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, message)
		return auth.Identity{}, false
	}
	return id, true
}

// cleanTags trims tags and drops blanks. The result is never nil.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func encodeTags(tags []string) string {
	b, _ := json.Marshal(cleanTags(tags))
	return string(b)
}

// decodeTags tolerates rows written by other clients with a bad tags value
func decodeTags(raw string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

// joinNotes combines the note and context fields the way the save dialog
// does: non-blank parts joined by "\n\nContext: ". Nothing left means NULL.
func joinNotes(notes, context string) *string {
	parts := make([]string, 0, 2)
	for _, p := range []string{notes, context} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, "\n\nContext: ")
	return &joined
}

// likePattern builds a LIKE pattern matching s anywhere, escaping wildcards
// for use with ESCAPE '\'
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
