package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Credential store backends.
const (
	StoreMongo = "mongo"
	StoreMySQL = "mysql"
)

type Config struct {
	Port                 string   `env:"PORT,                   default=8080"`
	Env                  string   `env:"ENV,                    default=development"`
	LogLevel             string   `env:"LOG_LEVEL,              default=info"`
	ExposeInternalErrors bool     `env:"EXPOSE_INTERNAL_ERRORS, default=true"`
	AllowedOrigins       []string `env:"ALLOWED_ORIGINS,        default=*"`

	JWT         JWTConfig
	Credentials CredentialConfig
	Mongo       MongoConfig
	MySQL       MySQLConfig
	Redis       RedisConfig
	Calls       CallsConfig
	Scoring     ScoringConfig
}

type JWTConfig struct {
	Secret        string `env:"JWT_SECRET,                  default=secret-demo"`
	Algorithm     string `env:"JWT_ALGORITHM,               default=HS256"`
	ExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=30"`
}

// TTL returns the access token lifetime.
func (c JWTConfig) TTL() time.Duration { return time.Duration(c.ExpireMinutes) * time.Minute }

type CredentialConfig struct {
	Store          string `env:"CREDENTIAL_STORE, default=mongo"`
	PasswordScheme string `env:"PASSWORD_SCHEME,  default=sha256"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=callcoach"`
}

type MySQLConfig struct {
	DSN           string `env:"MYSQL_DSN,            default=callcoach:callcoach@tcp(localhost:3306)/callcoach"`
	Migrate       bool   `env:"MYSQL_MIGRATIONS,     default=true"`
	MigrationsDir string `env:"MYSQL_MIGRATIONS_DIR"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type CallsConfig struct {
	TranscriptsDir  string        `env:"TRANSCRIPTS_DIR,   default=transcripts"`
	AnalysisWorkers int           `env:"ANALYSIS_WORKERS,  default=4"`
	AnalysisLockTTL time.Duration `env:"ANALYSIS_LOCK_TTL, default=10m"`
}

type ScoringConfig struct {
	Endpoint     string        `env:"SCORING_ENDPOINT,       default=http://localhost:8081"`
	Model        string        `env:"SCORING_MODEL,          default=mistralai/Mistral-7B-Instruct-v0.3"`
	MaxNewTokens int           `env:"SCORING_MAX_NEW_TOKENS, default=700"`
	Timeout      time.Duration `env:"SCORING_TIMEOUT,        default=2m"`
}

// IsDevelopment reports whether ENV selects the development profile.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

// Validate rejects settings the services cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	switch strings.ToUpper(c.JWT.Algorithm) {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q not supported", c.JWT.Algorithm))
	}
	if c.JWT.ExpireMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	switch c.Credentials.PasswordScheme {
	case "sha256", "bcrypt":
	default:
		errs = append(errs, fmt.Errorf("PASSWORD_SCHEME %q not supported", c.Credentials.PasswordScheme))
	}
	switch c.Credentials.Store {
	case StoreMongo, StoreMySQL:
	default:
		errs = append(errs, fmt.Errorf("CREDENTIAL_STORE %q not supported", c.Credentials.Store))
	}
	if c.Calls.AnalysisWorkers <= 0 {
		errs = append(errs, errors.New("ANALYSIS_WORKERS must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads an optional .env file, then the environment, using go-envconfig.
// It panics on malformed or invalid settings.
func Load() *Config {
	_ = godotenv.Load()
	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
