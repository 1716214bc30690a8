// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL connection string or SQLite path (required)
  - DatabaseType: "postgres" or "sqlite" (inferred from the URL when unset)
  - JWTSecret: HMAC secret of the identity provider's tokens (required)
  - OpenAIAPIKey: key for the create-calculator function (optional)
  - OpenAIBaseURL, OpenAIModel: completion endpoint overrides
  - AllowedOrigin: CORS origin (default: echo the request origin)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-origin       Allowed CORS origin
	-env-file     Environment file to load
	-jwt-secret   JWT secret
	-openai-key   OpenAI API key

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	ALLOWED_ORIGIN  → -origin
	JWT_SECRET      → -jwt-secret
	OPENAI_API_KEY  → -openai-key
	OPENAI_BASE_URL
	OPENAI_MODEL

A .env file in the working directory (or the one named by -env-file) is
loaded with godotenv first. It never overrides variables already set.
CLI flags take precedence over everything.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - JWT_SECRET must be provided
*/
package cliparse
