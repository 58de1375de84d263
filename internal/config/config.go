package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const Production = "production"

type DatabaseOptions struct {
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        string `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"DB_USER" envDefault:"postgres"`
	Password    string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name        string `env:"DB_NAME" envDefault:"hr_ops"`
	SSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxRetries  int    `env:"DB_MAX_RETRIES" envDefault:"5"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

func (d DatabaseOptions) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type RedisOptions struct {
	Addr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	MaxRetries int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
}

type KafkaOptions struct {
	Broker          string        `env:"KAFKA_BROKER"`
	ConsumerGroupID string        `env:"KAFKA_CONSUMER_GROUP" envDefault:"hr-ops-attendance-sync"`
	PollInterval    time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`
	MaxRetries      int           `env:"KAFKA_MAX_RETRIES" envDefault:"5"`
}

// FolderOptions locate the raw spreadsheet drop folder and the archive folder
// imported files are moved to.
type FolderOptions struct {
	Raw       string `env:"RAW_FOLDER" envDefault:"./load_file"`
	Processed string `env:"PROCESSED_FOLDER" envDefault:"./processed_files"`
}

type ZohoOptions struct {
	TokenURL        string        `env:"TOKEN_URL"`
	PortalID        string        `env:"ZOHO_PORTAL_ID"`
	ProjectsBaseURL string        `env:"ZOHO_PROJECTS_BASE_URL" envDefault:"https://projectsapi.zoho.in/api/v3"`
	PeopleBaseURL   string        `env:"ZOHO_PEOPLE_BASE_URL" envDefault:"https://people.zoho.in/api/v2"`
	PageSize        int           `env:"ZOHO_PAGE_SIZE" envDefault:"200"`
	PageInterval    time.Duration `env:"ZOHO_PAGE_INTERVAL" envDefault:"1s"`
	Timeout         time.Duration `env:"ZOHO_TIMEOUT" envDefault:"30s"`
}

type ImportOptions struct {
	HeaderRow       int           `env:"IMPORT_HEADER_ROW" envDefault:"-1"`
	SkipAfterHeader int           `env:"IMPORT_SKIP_AFTER_HEADER" envDefault:"1"`
	LockTTL         time.Duration `env:"IMPORT_LOCK_TTL" envDefault:"5m"`
	MaxUploadBytes  int64         `env:"IMPORT_MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

type ServerOptions struct {
	Port         string        `env:"PORT" envDefault:"3000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	RateLimitRPS float64       `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateBurst    int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
	// IdempotencyTTL is how long a replayable sync response is kept.
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
}

type MetricsOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/metrics"`
}

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	Database DatabaseOptions
	Redis    RedisOptions
	Kafka    KafkaOptions
	Folders  FolderOptions
	Zoho     ZohoOptions
	Import   ImportOptions
	Server   ServerOptions
	Metrics  MetricsOptions
}

// Load reads .env (when present) and parses the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Import.SkipAfterHeader < 0 {
		errs = append(errs, fmt.Errorf("IMPORT_SKIP_AFTER_HEADER must be non-negative, got %d", c.Import.SkipAfterHeader))
	}
	if c.Import.LockTTL <= 0 {
		errs = append(errs, fmt.Errorf("IMPORT_LOCK_TTL must be positive, got %s", c.Import.LockTTL))
	}
	if c.Zoho.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("ZOHO_PAGE_SIZE must be positive, got %d", c.Zoho.PageSize))
	}
	if c.Folders.Raw != "" && c.Folders.Raw == c.Folders.Processed {
		errs = append(errs, errors.New("RAW_FOLDER and PROCESSED_FOLDER must differ"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == Production
}
