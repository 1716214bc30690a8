// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("OPENAI_API_KEY", "sk-test")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabasePostgres {
		t.Errorf("expected postgres to be inferred, got %q", cfg.DatabaseType)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("expected OpenAI key from env, got %q", cfg.OpenAIAPIKey)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-jwt-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("expected sqlite to be inferred, got %q", cfg.DatabaseType)
	}
}

func TestParseFlags_MissingSecret(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	_, err := ParseFlags([]string{"-d", "calc.db"})
	if err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestParseFlags_MissingDatabase(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	_, err := ParseFlags([]string{"-jwt-secret", "s1"})
	if err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestParseFlags_UnsupportedDatabaseType(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	_, err := ParseFlags([]string{"-d", "calc.db", "-t", "mysql", "-jwt-secret", "s1"})
	if err == nil {
		t.Fatal("expected error for mysql database type")
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	path := filepath.Join(t.TempDir(), "test.env")
	content := "DATABASE_URL=calc.db\nJWT_SECRET=from-file\nOPENAI_MODEL=gpt-test\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	// Already-set variables win over the file
	os.Setenv("JWT_SECRET", "from-env")

	cfg, err := ParseFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseURL != "calc.db" {
		t.Errorf("expected DATABASE_URL from file, got %q", cfg.DatabaseURL)
	}
	if cfg.JWTSecret != "from-env" {
		t.Errorf("expected env to win over file, got %q", cfg.JWTSecret)
	}
	if cfg.OpenAIModel != "gpt-test" {
		t.Errorf("expected OPENAI_MODEL from file, got %q", cfg.OpenAIModel)
	}
}

func TestParseFlags_MissingEnvFile(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	_, err := ParseFlags([]string{"-env-file", "/nonexistent/.env", "-d", "calc.db", "-jwt-secret", "s1"})
	if err == nil {
		t.Fatal("expected error for missing env file")
	}
}
