// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const testSecret = "test-jwt-secret"

func TestNewID(t *testing.T) {
	id := NewID()

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("NewID() is not a UUID: %v", err)
	}
	if parsed.Version() != 7 {
		t.Errorf("NewID() version = %d, want 7", parsed.Version())
	}

	// Test randomness - two IDs should be different
	if NewID() == NewID() {
		t.Error("NewID() produced duplicate IDs")
	}
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"standard", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc", "abc", false},
		{"extra whitespace", "  Bearer   abc  ", "abc", false},
		{"empty", "", "", true},
		{"no token", "Bearer ", "", true},
		{"basic auth", "Basic dXNlcjpwYXNz", "", true},
		{"token only", "abc.def.ghi", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearer(tt.header)
			if tt.wantErr {
				if !errors.Is(err, ErrMissingToken) {
					t.Errorf("ParseBearer() error = %v, want ErrMissingToken", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBearer() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseBearer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	want := Identity{UserID: "user-123", Email: "ada@example.com", Username: "ada"}

	token, err := NewToken(want, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}

	// JWTs have three dot-separated segments
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("Token has %d segments, want 3", len(parts))
	}

	got, err := VerifyToken(token, testSecret)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if got != want {
		t.Errorf("VerifyToken() = %+v, want %+v", got, want)
	}
}

func TestVerifyToken_Rejects(t *testing.T) {
	valid, _ := NewToken(Identity{UserID: "user-123"}, testSecret, time.Hour)
	expired, _ := NewToken(Identity{UserID: "user-123"}, testSecret, -time.Minute)
	noSubject, _ := NewToken(Identity{}, testSecret, time.Hour)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-123"})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other-secret"},
		{"no secret configured", valid, ""},
		{"expired", expired, testSecret},
		{"missing subject", noSubject, testSecret},
		{"alg none", unsigned, testSecret},
		{"garbage", "not-a-token", testSecret},
		{"tampered", valid + "x", testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyToken(tt.token, tt.secret)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("VerifyToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
