// Package config handles application configuration and environment loading.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the API process needs to start. Exactly one
// datastore backend is configured: a relational DSN or an edge query URL.
type Config struct {
	ListenAddr string // HTTP listen address (default ":8080")
	Env        string // "development" (default) or "production"

	// Datastore. PostgresDSN selects the relational driver; EdgeURL (with
	// EdgeToken) selects the JSON-over-HTTP driver.
	PostgresDSN string
	EdgeURL     string
	EdgeToken   string

	// Credentials
	JWTSecret string

	// Realtime
	BusCapacity int // per-subscriber event buffer (default 16)

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 50)
	RateLimitBurst int     // burst capacity (default 100)

	// CORS
	CORSAllowedOrigins []string // default ["*"], forbidden in production

	// Mail. With no endpoint configured, messages go to the log.
	MailEndpoint string
	MailAPIKey   string
	MailFrom     string
	FrontendURL  string // base for invitation/reset links (default http://localhost:3000)
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from TRACKLOG_* environment variables and
// applies defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:   os.Getenv("TRACKLOG_LISTEN_ADDR"),
		Env:          os.Getenv("TRACKLOG_ENV"),
		PostgresDSN:  os.Getenv("TRACKLOG_POSTGRES_DSN"),
		EdgeURL:      os.Getenv("TRACKLOG_EDGE_URL"),
		EdgeToken:    os.Getenv("TRACKLOG_EDGE_TOKEN"),
		JWTSecret:    os.Getenv("TRACKLOG_JWT_SECRET"),
		MailEndpoint: os.Getenv("TRACKLOG_MAIL_ENDPOINT"),
		MailAPIKey:   os.Getenv("TRACKLOG_MAIL_API_KEY"),
		MailFrom:     os.Getenv("TRACKLOG_MAIL_FROM"),
		FrontendURL:  os.Getenv("TRACKLOG_FRONTEND_URL"),
	}

	if v := os.Getenv("TRACKLOG_BUS_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BusCapacity = n
		}
	}
	if v := os.Getenv("TRACKLOG_RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("TRACKLOG_RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}
	if v := os.Getenv("TRACKLOG_CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		out := make([]string, 0, len(origins))
		for _, o := range origins {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
		cfg.CORSAllowedOrigins = out
	}

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.BusCapacity == 0 {
		cfg.BusCapacity = 16
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 50
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 100
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("TRACKLOG_JWT_SECRET must be set")
	}
	hasPG := c.PostgresDSN != ""
	hasEdge := c.EdgeURL != ""
	if hasPG == hasEdge {
		return fmt.Errorf("exactly one of TRACKLOG_POSTGRES_DSN and TRACKLOG_EDGE_URL must be set")
	}
	if hasEdge && c.EdgeToken == "" {
		return fmt.Errorf("TRACKLOG_EDGE_TOKEN is required with TRACKLOG_EDGE_URL")
	}
	if c.IsProduction() {
		if len(c.CORSAllowedOrigins) == 1 && c.CORSAllowedOrigins[0] == "*" {
			return fmt.Errorf("CORS wildcard (*) is not allowed in production")
		}
	}
	return nil
}
