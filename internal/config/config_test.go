package config

import "testing"

func base() *Config {
	return &Config{
		ListenAddr:         ":8080",
		JWTSecret:          "secret",
		PostgresDSN:        "postgres://localhost/tracklog",
		CORSAllowedOrigins: []string{"*"},
	}
}

func TestValidateBackendExclusivity(t *testing.T) {
	cfg := base()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("pg only should validate: %v", err)
	}

	cfg.EdgeURL = "https://edge.example.com/query"
	cfg.EdgeToken = "tok"
	if err := cfg.Validate(); err == nil {
		t.Fatal("both backends configured must fail")
	}

	cfg.PostgresDSN = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("edge only should validate: %v", err)
	}

	cfg.EdgeToken = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("edge without token must fail")
	}

	cfg.EdgeURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("no backend configured must fail")
	}
}

func TestValidateSecretRequired(t *testing.T) {
	cfg := base()
	cfg.JWTSecret = "  "
	if err := cfg.Validate(); err == nil {
		t.Fatal("blank secret must fail")
	}
}

func TestValidateProductionCORS(t *testing.T) {
	cfg := base()
	cfg.Env = "production"
	if err := cfg.Validate(); err == nil {
		t.Fatal("wildcard CORS must fail in production")
	}
	cfg.CORSAllowedOrigins = []string{"https://app.tracklog.org"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("explicit origins should validate: %v", err)
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("TRACKLOG_JWT_SECRET", "secret")
	t.Setenv("TRACKLOG_POSTGRES_DSN", "postgres://localhost/tracklog")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":8080" || cfg.BusCapacity != 16 || cfg.RateLimitRPS != 50 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.FrontendURL != "http://localhost:3000" {
		t.Fatalf("frontend default missing: %q", cfg.FrontendURL)
	}
}
