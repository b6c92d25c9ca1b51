package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	submissiondomain "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/domain"
	submissionevents "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/events"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	HTTP          HTTPConfig          `yaml:"http"`
	NATS          NATSConfig          `yaml:"nats"`
	JWT           JWTConfig           `yaml:"jwt"`
	Verification  VerificationConfig  `yaml:"verification"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// HTTPConfig holds the API listener configuration.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
}

// NATSConfig holds NATS configuration. An empty URL disables event publishing.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// JWTConfig holds bearer token settings.
type JWTConfig struct {
	Secret   string `yaml:"secret"`
	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
}

// VerificationConfig holds submission verification settings.
type VerificationConfig struct {
	ScoreTolerance *int64 `yaml:"score_tolerance"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	ServiceName    string `yaml:"service_name"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	MetricsAddress string `yaml:"metrics_address"`
}

const (
	defaultHTTPAddress    = ":8080"
	defaultRateLimitRPS   = 5
	defaultRateLimitBurst = 10
	defaultServiceName    = "strategy-ledger"
)

// LoadConfig reads the configuration and validates it.
func LoadConfig(filename string) (*Config, error) {
	cfg, err := ReadConfig(filename)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadConfig loads the configuration from a YAML file, then applies environment
// overrides and defaults. A missing file is not an error; the environment alone is used.
// A .env file in the working directory is loaded first when present.
func ReadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// --- OVERRIDE WITH ENV VARS IF PRESENT ---
func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS value: %w", err)
		}
		cfg.HTTP.RateLimitRPS = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_BURST value: %w", err)
		}
		cfg.HTTP.RateLimitBurst = n
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_SUBJECT"); v != "" {
		cfg.NATS.Subject = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		cfg.JWT.Issuer = v
	}
	if v := os.Getenv("JWT_AUDIENCE"); v != "" {
		cfg.JWT.Audience = v
	}
	if v := os.Getenv("SCORE_TOLERANCE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SCORE_TOLERANCE value: %w", err)
		}
		cfg.Verification.ScoreTolerance = &n
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = defaultHTTPAddress
	}
	if c.HTTP.RateLimitRPS == 0 {
		c.HTTP.RateLimitRPS = defaultRateLimitRPS
	}
	if c.HTTP.RateLimitBurst == 0 {
		c.HTTP.RateLimitBurst = defaultRateLimitBurst
	}
	if c.NATS.Subject == "" {
		c.NATS.Subject = submissionevents.DefaultSubject
	}
	if c.Verification.ScoreTolerance == nil {
		tol := submissiondomain.DefaultScoreTolerance
		c.Verification.ScoreTolerance = &tol
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = defaultServiceName
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Postgres.DSN == "" {
		errs = append(errs, errors.New("postgres.dsn (DATABASE_URL) is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret (JWT_SECRET) is required"))
	}
	if c.Verification.ScoreTolerance != nil && *c.Verification.ScoreTolerance < 0 {
		errs = append(errs, errors.New("verification.score_tolerance must not be negative"))
	}
	if c.HTTP.RateLimitRPS < 0 || c.HTTP.RateLimitBurst < 0 {
		errs = append(errs, errors.New("http rate limits must not be negative"))
	}
	return errors.Join(errs...)
}

// Tolerance returns the configured score tolerance.
func (c *Config) Tolerance() int64 {
	if c.Verification.ScoreTolerance == nil {
		return submissiondomain.DefaultScoreTolerance
	}
	return *c.Verification.ScoreTolerance
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
