// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/auth"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/cliparse"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/db"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/middleware"
	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
)

// TestJWTSecret signs tokens minted by the helpers below
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh in-memory database with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(cliparse.DatabaseSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: cliparse.DatabaseSQLite,
		JWTSecret:    TestJWTSecret,
	}
}

// AuthHeader returns an Authorization header value for userID
func AuthHeader(t *testing.T, userID string) string {
	t.Helper()

	token, err := auth.NewToken(auth.Identity{UserID: userID, Email: userID + "@example.com"}, TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return "Bearer " + token
}

// AsUser returns req with userID attached as the authenticated caller, as
// middleware.WithUser would
func AsUser(req *http.Request, userID string) *http.Request {
	id := auth.Identity{UserID: userID, Email: userID + "@example.com"}
	return req.WithContext(middleware.ContextWithUser(req.Context(), id))
}

// CreateTestCalculator inserts a calculator and returns its ID.
// creatorID may be empty for an anonymous calculator.
func CreateTestCalculator(t *testing.T, conn *sql.DB, def models.CalculatorDefinition, creatorID string, isPublic bool) string {
	t.Helper()

	variables, err := json.Marshal(def.Variables)
	if err != nil {
		t.Fatalf("Failed to encode variables: %v", err)
	}
	if def.Category == "" {
		def.Category = models.CategoryOther
	}

	var creator *string
	if creatorID != "" {
		creator = &creatorID
	}

	id := auth.NewID()
	now := time.Now().UTC()
	_, err = conn.Exec(`
		INSERT INTO calculators (id, name, description, formula, variables, category, is_public, is_anonymous, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, id, def.Name, def.Description, def.Formula, string(variables), def.Category, isPublic, creatorID == "", creator, now, now)
	if err != nil {
		t.Fatalf("Failed to create test calculator: %v", err)
	}

	return id
}

// SimpleInterest is the calculator used throughout the handler tests
func SimpleInterest() models.CalculatorDefinition {
	return models.CalculatorDefinition{
		Name:        "Simple Interest Calculator",
		Description: "Interest earned on a principal",
		Formula:     "principal * rate * time / 100",
		Category:    "Finance",
		Variables: []models.Variable{
			{Name: "principal", Label: "Principal Amount", Type: models.VariableNumber, DefaultValue: 1000},
			{Name: "rate", Label: "Interest Rate", Type: models.VariableNumber, DefaultValue: 5, Unit: "%"},
			{Name: "time", Label: "Time Period", Type: models.VariableNumber, DefaultValue: 1, Unit: "years"},
		},
	}
}

// CreateTestHistory inserts a history entry and returns its ID
func CreateTestHistory(t *testing.T, conn *sql.DB, userID, expression, result string, tags []string, createdAt time.Time) string {
	t.Helper()

	if tags == nil {
		tags = []string{}
	}
	tagsJSON, _ := json.Marshal(tags)

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO calculation_history (id, user_id, expression, result, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, userID, expression, result, string(tagsJSON), createdAt.UTC(), createdAt.UTC())
	if err != nil {
		t.Fatalf("Failed to create test history: %v", err)
	}

	return id
}

// CountRows returns the number of rows in table matching where
func CountRows(t *testing.T, conn *sql.DB, table, where string, args ...interface{}) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
