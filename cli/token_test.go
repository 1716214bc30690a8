// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runToken(t *testing.T, opts *RootOptions, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewTokenCommand(opts)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestTokenVerifies(t *testing.T) {
	output, _, err := runToken(t, &RootOptions{Format: "text"},
		"--user", "user-42", "--email", "ada@example.com", "--username", "ada", "--secret", "cli-secret")
	require.NoError(t, err)

	id, err := auth.VerifyToken(strings.TrimSpace(output), "cli-secret")
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{UserID: "user-42", Email: "ada@example.com", Username: "ada"}, id)
}

func TestTokenSecretFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")

	output, _, err := runToken(t, &RootOptions{Format: "text"}, "--user", "dev")
	require.NoError(t, err)

	_, err = auth.VerifyToken(strings.TrimSpace(output), "env-secret")
	require.NoError(t, err)
}

func TestTokenJSON(t *testing.T) {
	output, _, err := runToken(t, &RootOptions{Format: "json"}, "--user", "dev", "--secret", "s", "--ttl", "2h")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   tokenOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "dev", resp.Data.UserID)
	assert.NotEmpty(t, resp.Data.Token)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), resp.Data.ExpiresAt, time.Minute)
}

func TestTokenVerboseShowsExpiry(t *testing.T) {
	_, errOut, err := runToken(t, &RootOptions{Format: "text", Verbose: true}, "--user", "dev", "--secret", "s")
	require.NoError(t, err)
	assert.Contains(t, errOut, "token for dev expires")
}

func TestTokenErrors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	testCases := []struct {
		name     string
		args     []string
		exitCode int
	}{
		{"missing user", []string{"--secret", "s"}, ExitFailure},
		{"blank user", []string{"--user", " ", "--secret", "s"}, ExitCommandError},
		{"missing secret", []string{"--user", "dev"}, ExitCommandError},
		{"non-positive ttl", []string{"--user", "dev", "--secret", "s", "--ttl", "0s"}, ExitCommandError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runToken(t, &RootOptions{Format: "text"}, tc.args...)
			require.Error(t, err)
			assert.Equal(t, tc.exitCode, GetExitCode(err))
		})
	}
}
