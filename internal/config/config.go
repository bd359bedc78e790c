package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	CORS   CORSConfig
	Alerts AlertConfig
	Notify NotifyConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds object storage settings for archived workbook uploads.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AlertConfig holds mismatch-alert notification worker settings.
type AlertConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// NotifyConfig holds supervisor notification delivery settings.
type NotifyConfig struct {
	Provider          string `mapstructure:"provider"`
	Region            string `mapstructure:"region"`
	FromAddress       string `mapstructure:"from_address"`
	FromName          string `mapstructure:"from_name"`
	SupervisorAddress string `mapstructure:"supervisor_address"`
}

// Load reads configuration from environment variables with the DOCKPASS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCKPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "dockpass")
	v.SetDefault("db.password", "dockpass_secret")
	v.SetDefault("db.name", "dockpass_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "dockpass")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "dockpass-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Alert worker defaults
	v.SetDefault("alerts.poll_interval_secs", 10)
	v.SetDefault("alerts.max_retries", 5)
	v.SetDefault("alerts.concurrency", 2)

	// Notification defaults
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.region", "ap-south-1")
	v.SetDefault("notify.from_address", "noreply@dockpass.local")
	v.SetDefault("notify.from_name", "DockPass")
	v.SetDefault("notify.supervisor_address", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "DOCKPASS_SERVER_PORT",
		"server.read_timeout":       "DOCKPASS_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "DOCKPASS_SERVER_WRITE_TIMEOUT",
		"server.environment":        "DOCKPASS_SERVER_ENVIRONMENT",
		"db.host":                   "DOCKPASS_DB_HOST",
		"db.port":                   "DOCKPASS_DB_PORT",
		"db.user":                   "DOCKPASS_DB_USER",
		"db.password":               "DOCKPASS_DB_PASSWORD",
		"db.name":                   "DOCKPASS_DB_NAME",
		"db.sslmode":                "DOCKPASS_DB_SSLMODE",
		"db.max_open":               "DOCKPASS_DB_MAX_OPEN",
		"db.max_idle":               "DOCKPASS_DB_MAX_IDLE",
		"jwt.secret":                "DOCKPASS_JWT_SECRET",
		"jwt.access_expiry":         "DOCKPASS_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":        "DOCKPASS_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                "DOCKPASS_JWT_ISSUER",
		"s3.region":                 "DOCKPASS_S3_REGION",
		"s3.bucket":                 "DOCKPASS_S3_BUCKET",
		"s3.endpoint":               "DOCKPASS_S3_ENDPOINT",
		"s3.access_key":             "DOCKPASS_S3_ACCESS_KEY",
		"s3.secret_key":             "DOCKPASS_S3_SECRET_KEY",
		"s3.max_file_size_mb":       "DOCKPASS_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":         "DOCKPASS_S3_PRESIGN_EXPIRY",
		"cors.allowed_origins":      "DOCKPASS_CORS_ALLOWED_ORIGINS",
		"alerts.poll_interval_secs": "DOCKPASS_ALERTS_POLL_INTERVAL_SECS",
		"alerts.max_retries":        "DOCKPASS_ALERTS_MAX_RETRIES",
		"alerts.concurrency":        "DOCKPASS_ALERTS_CONCURRENCY",
		"notify.provider":           "DOCKPASS_NOTIFY_PROVIDER",
		"notify.region":             "DOCKPASS_NOTIFY_REGION",
		"notify.from_address":       "DOCKPASS_NOTIFY_FROM_ADDRESS",
		"notify.from_name":          "DOCKPASS_NOTIFY_FROM_NAME",
		"notify.supervisor_address": "DOCKPASS_NOTIFY_SUPERVISOR_ADDRESS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DOCKPASS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCKPASS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Alerts = AlertConfig{
		PollIntervalSecs: v.GetInt("alerts.poll_interval_secs"),
		MaxRetries:       v.GetInt("alerts.max_retries"),
		Concurrency:      v.GetInt("alerts.concurrency"),
	}
	cfg.Notify = NotifyConfig{
		Provider:          v.GetString("notify.provider"),
		Region:            v.GetString("notify.region"),
		FromAddress:       v.GetString("notify.from_address"),
		FromName:          v.GetString("notify.from_name"),
		SupervisorAddress: v.GetString("notify.supervisor_address"),
	}

	return cfg, nil
}
