package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// unsetEnv clears keys for the duration of the test. t.Setenv registers the
// restore, so values injected by godotenv do not leak into other tests.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "APP_ENV", "PORT", "MONGODB_URI", "MONGODB_DB", "MONGODB_CONNECT_TIMEOUT",
		"LOG_LEVEL", "LOG_FORMAT", "REDIS_URL", "RATE_LIMIT_ENABLED")

	cfg, err := LoadFiles()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("expected default AppEnv 'development', got %s", cfg.AppEnv)
	}

	if cfg.Port != 4000 {
		t.Errorf("expected default Port 4000, got %d", cfg.Port)
	}

	if cfg.MongoURI != "mongodb://localhost:27017/mern_skeleton_local" {
		t.Errorf("unexpected default MongoURI %s", cfg.MongoURI)
	}

	if cfg.MongoDatabase != "mern_skeleton" {
		t.Errorf("expected default MongoDatabase 'mern_skeleton', got %s", cfg.MongoDatabase)
	}

	if cfg.MongoConnectTimeout != 10*time.Second {
		t.Errorf("expected default MongoConnectTimeout 10s, got %s", cfg.MongoConnectTimeout)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected default LogLevel 'info', got %s", cfg.LogLevel)
	}

	if cfg.LogFormat != "json" {
		t.Errorf("expected default LogFormat 'json', got %s", cfg.LogFormat)
	}

	if cfg.RedisURL != "" {
		t.Errorf("expected empty RedisURL, got %s", cfg.RedisURL)
	}

	if cfg.RateLimitEnabled {
		t.Error("expected rate limiting disabled by default")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db.internal:27017")
	t.Setenv("MONGODB_DB", "roster_test")
	t.Setenv("PORT", "9090")

	cfg, err := LoadFiles()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.MongoURI != "mongodb://db.internal:27017" {
		t.Errorf("expected MongoURI to be set, got %s", cfg.MongoURI)
	}

	if cfg.MongoDatabase != "roster_test" {
		t.Errorf("expected MongoDatabase to be set, got %s", cfg.MongoDatabase)
	}

	if cfg.Port != 9090 {
		t.Errorf("expected Port 9090, got %d", cfg.Port)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "70000")

	if _, err := LoadFiles(); err == nil {
		t.Fatal("expected error for out of range port, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{MongoURI: "mongodb://localhost", MongoDatabase: "db", Port: 4000}, false},
		{"empty uri", Config{MongoDatabase: "db", Port: 4000}, true},
		{"empty database", Config{MongoURI: "mongodb://localhost", Port: 4000}, true},
		{"zero port", Config{MongoURI: "mongodb://localhost", MongoDatabase: "db"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFiles_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MONGODB_DB=from_dotenv\nLOG_FORMAT=text\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	unsetEnv(t, "MONGODB_DB", "LOG_FORMAT")

	cfg, err := LoadFiles(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.MongoDatabase != "from_dotenv" {
		t.Errorf("expected MongoDatabase from .env, got %s", cfg.MongoDatabase)
	}

	if cfg.LogFormat != "text" {
		t.Errorf("expected LogFormat from .env, got %s", cfg.LogFormat)
	}
}

func TestLoadFiles_EnvironmentWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MONGODB_DB=from_dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("MONGODB_DB", "from_env")

	cfg, err := LoadFiles(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.MongoDatabase != "from_env" {
		t.Errorf("expected MongoDatabase from environment, got %s", cfg.MongoDatabase)
	}
}

func TestLoadFiles_MissingFileIgnored(t *testing.T) {
	if _, err := LoadFiles(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}

func TestConfig_GetCORSAllowedOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "http://localhost:5173", []string{"http://localhost:5173"}},
		{"trims and skips blanks", " http://a.test , ,http://b.test", []string{"http://a.test", "http://b.test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{CORSAllowedOrigins: tt.raw}
			got := cfg.GetCORSAllowedOrigins()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GetCORSAllowedOrigins() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{AppEnv: "development"}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return true")
	}

	cfg.AppEnv = "production"
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{AppEnv: "production"}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction to return true")
	}

	cfg.AppEnv = "development"
	if cfg.IsProduction() {
		t.Error("expected IsProduction to return false")
	}
}
