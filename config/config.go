package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

type DatabaseConfig struct {
	Host          string        `mapstructure:"host"`
	Port          string        `mapstructure:"port"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	DBName        string        `mapstructure:"dbname"`
	SSLMode       string        `mapstructure:"sslmode"`
	TimeZone      string        `mapstructure:"timezone"`
	MaxOpenConns  int           `mapstructure:"max_open_conns"`
	MaxIdleConns  int           `mapstructure:"max_idle_conns"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	// PublicBaseURL is prepended to "<bucket>/<object>" when building file URLs.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	// AllowUnverifiedFallback chains the claim-decoding resolver behind the
	// verifying one. Tokens accepted this way are not signature checked.
	AllowUnverifiedFallback bool `mapstructure:"allow_unverified_fallback"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type MetricsConfig struct {
	Port string `mapstructure:"port"`
}

type GRPCConfig struct {
	HealthPort string `mapstructure:"health_port"`
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", "5050")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_upload_bytes", int64(32<<20))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "edubridge")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)
	v.SetDefault("minio.bucket_name", "submissions")
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.port", "2112")
	v.SetDefault("grpc.health_port", "50060")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"server.port":                    "PORT",
		"server.environment":             "APP_ENV",
		"server.shutdown_timeout":        "SHUTDOWN_TIMEOUT",
		"server.max_upload_bytes":        "MAX_UPLOAD_BYTES",
		"database.host":                  "DB_HOST",
		"database.port":                  "DB_PORT",
		"database.user":                  "DB_USER",
		"database.password":              "DB_PASSWORD",
		"database.dbname":                "DB_NAME",
		"database.sslmode":               "DB_SSLMODE",
		"database.timezone":              "DB_TIMEZONE",
		"database.max_open_conns":        "DB_MAX_OPEN_CONNS",
		"database.max_idle_conns":        "DB_MAX_IDLE_CONNS",
		"database.slow_threshold":        "DB_SLOW_THRESHOLD",
		"minio.endpoint":                 "MINIO_ENDPOINT",
		"minio.access_key":               "MINIO_ACCESS_KEY",
		"minio.secret_key":               "MINIO_SECRET_KEY",
		"minio.use_ssl":                  "MINIO_USE_SSL",
		"minio.bucket_name":              "MINIO_BUCKET_NAME",
		"minio.public_base_url":          "MINIO_PUBLIC_BASE_URL",
		"auth.jwt_secret":                "JWT_SECRET",
		"auth.allow_unverified_fallback": "AUTH_ALLOW_UNVERIFIED_FALLBACK",
		"log.level":                      "LOG_LEVEL",
		"log.file":                       "LOG_FILE",
		"metrics.port":                   "METRICS_PORT",
		"grpc.health_port":               "GRPC_HEALTH_PORT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode, c.TimeZone)
}

func (c *ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
