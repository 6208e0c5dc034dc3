package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Identity IdentityConfig `mapstructure:"identity"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port    int    `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`
}

// LogConfig 控制 slog 的输出级别与格式。
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig contains connection options for PostgreSQL.
// URL 非空时优先使用，忽略其余离散字段。
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Identity verification modes.
const (
	IdentityModeRemote = "remote"
	IdentityModeJWT    = "jwt"
)

// IdentityConfig 描述外部身份服务的接入方式。
type IdentityConfig struct {
	Mode             string        `mapstructure:"mode"`
	URL              string        `mapstructure:"url"`
	APIKey           string        `mapstructure:"api_key"`
	JWTSecret        string        `mapstructure:"jwt_secret"`
	JWTPublicKeyFile string        `mapstructure:"jwt_public_key_file"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
}

// RedisConfig 包含 Redis 连接配置。Host 为空表示不启用缓存。
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
// Endpoint 为空表示模板预览图直接使用数据库中的 URL。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Enabled reports whether a redis address is configured.
func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.Host) != "" }

// Addr returns host:port.
func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%d", r.Host, r.Port) }

// Enabled reports whether object storage is configured.
func (m MinIOConfig) Enabled() bool { return strings.TrimSpace(m.Endpoint) != "" }

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	if strings.TrimSpace(d.URL) != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration from environment variables (with optional defaults).
// .env.local / .env in the working directory are loaded first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	loadDotEnv(".env.local", ".env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func loadDotEnv(files ...string) {
	for _, f := range files {
		// 缺失文件不是错误
		_ = godotenv.Load(f)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.gin_mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "cvforge")
	v.SetDefault("database.user", "cvforge")
	v.SetDefault("database.password", "cvforge")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("identity.mode", IdentityModeRemote)
	v.SetDefault("identity.cache_ttl", 30*time.Second)
	v.SetDefault("identity.request_timeout", 10*time.Second)
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "template-previews")
	v.SetDefault("metrics.enabled", true)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                     "API_PORT",
		"api.gin_mode":                 "GIN_MODE",
		"log.level":                    "LOG_LEVEL",
		"log.format":                   "LOG_FORMAT",
		"database.url":                 "DATABASE_URL",
		"database.host":                "DATABASE_HOST",
		"database.port":                "DATABASE_PORT",
		"database.name":                "POSTGRES_DB",
		"database.user":                "POSTGRES_USER",
		"database.password":            "POSTGRES_PASSWORD",
		"database.sslmode":             "DATABASE_SSLMODE",
		"identity.mode":                "IDENTITY_MODE",
		"identity.url":                 "IDENTITY_URL",
		"identity.api_key":             "IDENTITY_API_KEY",
		"identity.jwt_secret":          "IDENTITY_JWT_SECRET",
		"identity.jwt_public_key_file": "IDENTITY_JWT_PUBLIC_KEY_FILE",
		"identity.cache_ttl":           "IDENTITY_CACHE_TTL",
		"identity.request_timeout":     "IDENTITY_REQUEST_TIMEOUT",
		"redis.host":                   "REDIS_HOST",
		"redis.port":                   "REDIS_PORT",
		"redis.password":               "REDIS_PASSWORD",
		"minio.endpoint":               "MINIO_ENDPOINT",
		"minio.access_key_id":          "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":      "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":                "MINIO_USE_SSL",
		"minio.bucket":                 "MINIO_BUCKET",
		"minio.region":                 "MINIO_REGION",
		"metrics.enabled":              "METRICS_ENABLED",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format %q", cfg.Log.Format)
	}
	if strings.TrimSpace(cfg.Database.URL) == "" {
		if cfg.Database.Host == "" {
			return errors.New("database host is required")
		}
		if cfg.Database.Port <= 0 {
			return errors.New("database port must be positive")
		}
		if cfg.Database.Name == "" {
			return errors.New("database name is required")
		}
		if cfg.Database.User == "" {
			return errors.New("database user is required")
		}
		if cfg.Database.Password == "" {
			return errors.New("database password is required")
		}
		if cfg.Database.SSLMode == "" {
			return errors.New("database sslmode is required")
		}
	}
	switch cfg.Identity.Mode {
	case IdentityModeRemote:
		if cfg.Identity.URL == "" {
			return errors.New("identity url is required in remote mode")
		}
	case IdentityModeJWT:
		if cfg.Identity.JWTSecret == "" && cfg.Identity.JWTPublicKeyFile == "" {
			return errors.New("identity jwt secret or public key file is required in jwt mode")
		}
	default:
		return fmt.Errorf("unsupported identity mode %q", cfg.Identity.Mode)
	}
	if cfg.Identity.CacheTTL < 0 {
		return errors.New("identity cache ttl must not be negative")
	}
	if cfg.Redis.Enabled() && cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Enabled() {
		if cfg.MinIO.AccessKeyID == "" {
			return errors.New("minio access key id is required")
		}
		if cfg.MinIO.SecretAccessKey == "" {
			return errors.New("minio secret access key is required")
		}
		if cfg.MinIO.Bucket == "" {
			return errors.New("minio bucket is required")
		}
	}
	return nil
}
