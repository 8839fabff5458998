package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string `env:"APP_NAME" envDefault:"trackdesk"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Storage     StorageConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
	Janitor     JanitorConfig
	Roadmap     RoadmapConfig
}

type HTTPConfig struct {
	Host               string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port               string        `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout        time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout       time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"0s"` // zero keeps event streams open
	IdleTimeout        time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	MaxConn            int           `env:"SERVER_MAX_CONN" envDefault:"0"`
	MaxRequestBodySize int           `env:"SERVER_MAX_BODY_BYTES" envDefault:"16777216"`
}

type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	Name            string        `env:"DB_NAME" envDefault:"trackdesk"`
	User            string        `env:"DB_USER" envDefault:"trackdesk"`
	Password        string        `env:"DB_PASSWORD"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxConnLifetime time.Duration `env:"DB_CONN_LIFETIME" envDefault:"1h"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
}

type RedisConfig struct {
	URL      string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET,required,notEmpty"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"trackdesk"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`
}

type StorageConfig struct {
	Path              string `env:"ATTACHMENTS_PATH" envDefault:"./data/attachments.db"`
	MaxAttachmentSize int64  `env:"ATTACHMENTS_MAX_BYTES" envDefault:"10485760"`
}

type ContextConfig struct {
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

type LoggerConfig struct {
	Level    string `env:"LOG_LEVEL" envDefault:"info"`
	Encoding string `env:"LOG_ENCODING" envDefault:"json"`
}

type MigrationsConfig struct {
	Enabled bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	Path    string `env:"MIGRATIONS_PATH" envDefault:"./assets/migrations"`
}

type JanitorConfig struct {
	Enabled  bool   `env:"JANITOR_ENABLED" envDefault:"true"`
	Schedule string `env:"JANITOR_SCHEDULE" envDefault:"@every 1h"`
}

type RoadmapConfig struct {
	QuarterCount int `env:"ROADMAP_QUARTERS" envDefault:"8"`
}

// Load reads configuration from environment variables (optionally .env).
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg.Database)
	}
	if cfg.Roadmap.QuarterCount <= 0 {
		cfg.Roadmap.QuarterCount = 8
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func buildPostgresURL(db DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
