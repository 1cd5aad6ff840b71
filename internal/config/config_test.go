package config

import (
	"os"
	"testing"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost:5432/payor_test")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 {
		t.Errorf("pool defaults = %d/%d, want 20/5", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.TokenTTLMin != 60 {
		t.Errorf("TokenTTLMin = %d, want 60", cfg.TokenTTLMin)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"prod without secret", Config{Env: "production", TokenTTLMin: 60, DBMaxConns: 20, DBMinConns: 5}, true},
		{"prod with dev secret", Config{Env: "production", JWTSecret: "dev-only-insecure-secret", TokenTTLMin: 60, DBMaxConns: 20, DBMinConns: 5}, true},
		{"prod with secret", Config{Env: "production", JWTSecret: "s3cret", TokenTTLMin: 60, DBMaxConns: 20, DBMinConns: 5}, false},
		{"zero ttl", Config{Env: "development", JWTSecret: "x", TokenTTLMin: 0, DBMaxConns: 20, DBMinConns: 5}, true},
		{"inverted pool bounds", Config{Env: "development", JWTSecret: "x", TokenTTLMin: 60, DBMaxConns: 2, DBMinConns: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
