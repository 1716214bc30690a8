// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"

	temperature = 0.3
	maxTokens   = 1000
)

var (
	ErrMissingAPIKey   = errors.New("OpenAI API key not configured")
	ErrEmptyPrompt     = errors.New("prompt is required")
	ErrEmptyCompletion = errors.New("invalid response from OpenAI")
)

// UpstreamError is a non-2xx reply from the completion API.
type UpstreamError struct {
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("OpenAI API request failed (status %d): %s", e.Status, e.Detail)
}

// ParseError is a completion that could not be turned into a definition.
type ParseError struct {
	Detail string
	Raw    string
}

func (e *ParseError) Error() string {
	return "failed to parse AI response: " + e.Detail
}

const systemPrompt = `You are an expert calculator creator. Create a calculator based on the user's request.

IMPORTANT: You must respond with ONLY a valid JSON object, no additional text or markdown.

Return this exact JSON structure:
{
  "name": "Calculator Name",
  "description": "Clear description of what this calculator does",
  "formula": "math.js compatible formula using variable names",
  "variables": [
    {
      "name": "variableName",
      "label": "Human readable label",
      "type": "number",
      "defaultValue": 0,
      "unit": "optional unit like $, %, kg, etc"
    }
  ],
  "category": "Category name"
}

Example:
{
  "name": "Simple Interest Calculator",
  "description": "Calculate simple interest",
  "formula": "principal * rate * time / 100",
  "variables": [
    {"name": "principal", "label": "Principal Amount", "type": "number", "defaultValue": 1000, "unit": "$"},
    {"name": "rate", "label": "Interest Rate", "type": "number", "defaultValue": 5, "unit": "%"},
    {"name": "time", "label": "Time Period", "type": "number", "defaultValue": 1, "unit": "years"}
  ],
  "category": "Finance"
}`

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// HTTPClient defaults to a client with a 60 second timeout.
	HTTPClient *http.Client
}

// Client generates calculator definitions through a chat-completion API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

func New(cfg Config) *Client {
	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		http:    cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 60 * time.Second}
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// UserMessage builds the user turn sent to the model.
func UserMessage(prompt, userInput string) string {
	if userInput == "" {
		return prompt
	}
	return prompt + " Additional details: " + userInput
}

// Generate asks the model for a calculator matching prompt.
func (c *Client) Generate(ctx context.Context, prompt, userInput string) (*models.CalculatorDefinition, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: UserMessage(prompt, userInput)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	slog.Info("completion response",
		"status", resp.StatusCode,
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := "Unknown error"
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			detail = apiErr.Error.Message
		}
		return nil, &UpstreamError{Status: resp.StatusCode, Detail: detail}
	}

	var completion chatResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyCompletion
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	return ParseReply(content)
}
