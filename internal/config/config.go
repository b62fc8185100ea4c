package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server      ServerConfig
	Log         LogConfig
	Store       StoreConfig
	Postgres    PostgresConfig
	Remediation RemediationConfig
	Ingest      IngestConfig
}

type ServerConfig struct {
	Port               string
	GinMode            string
	CORSAllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type StoreConfig struct {
	Driver string // postgres, memory
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type RemediationConfig struct {
	BaseURL   string
	Timeout   time.Duration
	Workers   int
	QueueSize int
}

type IngestConfig struct {
	MaxBatchSize int
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:               getenv("PORT", "8080"),
			GinMode:            getenv("GIN_MODE", "release"),
			CORSAllowedOrigins: getenvList("CORS_ALLOWED_ORIGINS"),
		},
		Log: LogConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "json"),
		},
		Store: StoreConfig{
			Driver: getenv("STORE_DRIVER", "postgres"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Remediation: RemediationConfig{
			BaseURL:   getenv("REMEDIATION_URL", "http://carla-fixer.interworky.svc:8000"),
			Timeout:   getenvDuration("REMEDIATION_TIMEOUT", 30*time.Second),
			Workers:   getenvInt("REMEDIATION_WORKERS", 4),
			QueueSize: getenvInt("REMEDIATION_QUEUE_SIZE", 256),
		},
		Ingest: IngestConfig{
			MaxBatchSize: getenvInt("INGEST_MAX_BATCH", 50),
		},
	}
}

// Validate - 기동 전에 잘못된 설정 조합을 거부
func (c Config) Validate() error {
	switch c.Store.Driver {
	case "memory":
	case "postgres":
		if c.Postgres.DatabaseURL == "" && (c.Postgres.User == "" || c.Postgres.Database == "") {
			return fmt.Errorf("missing required env: DATABASE_URL or PGUSER/PGDATABASE")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER: %q (allowed: postgres, memory)", c.Store.Driver)
	}
	if c.Ingest.MaxBatchSize <= 0 {
		return fmt.Errorf("INGEST_MAX_BATCH must be positive, got %d", c.Ingest.MaxBatchSize)
	}
	if c.Remediation.Workers <= 0 {
		return fmt.Errorf("REMEDIATION_WORKERS must be positive, got %d", c.Remediation.Workers)
	}
	return nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// 쉼표 구분 목록, 빈 항목 제외
func getenvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
