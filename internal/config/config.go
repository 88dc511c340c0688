// Package config handles application configuration loading from a YAML file
// and environment variables. Environment values win over file values.
package config

import (
	"os"
	"strconv"
	"time"

	contextutils "feedbackapp/internal/utils"

	"gopkg.in/yaml.v3"
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port    string `json:"port" yaml:"port"`
	GinMode string `json:"gin_mode" yaml:"gin_mode"`
}

// MongoConfig represents document store configuration
type MongoConfig struct {
	URI            string        `json:"uri" yaml:"uri"`
	Database       string        `json:"database" yaml:"database"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
	QueryTimeout   time.Duration `json:"query_timeout" yaml:"query_timeout"`
}

// JWTConfig represents bearer token configuration
type JWTConfig struct {
	SigningKey string        `json:"-" yaml:"signing_key"`
	Expiry     time.Duration `json:"expiry" yaml:"expiry"`
	Issuer     string        `json:"issuer" yaml:"issuer"`
}

// MailConfig represents outbound SMTP configuration for password reset mail
type MailConfig struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	Host         string `json:"host" yaml:"host"`
	Port         int    `json:"port" yaml:"port"`
	Username     string `json:"username" yaml:"username"`
	Password     string `json:"-" yaml:"password"`
	From         string `json:"from" yaml:"from"`
	ResetBaseURL string `json:"reset_base_url" yaml:"reset_base_url"`
}

// Config is the top-level application configuration
type Config struct {
	ServiceName string       `json:"service_name" yaml:"service_name"`
	Server      ServerConfig `json:"server" yaml:"server"`
	Mongo       MongoConfig  `json:"mongo" yaml:"mongo"`
	JWT         JWTConfig    `json:"jwt" yaml:"jwt"`
	Mail        MailConfig   `json:"mail" yaml:"mail"`
}

// NewConfig loads configuration with defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variable overrides.
func NewConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, contextutils.WrapErrorf(err, "failed to read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, contextutils.WrapErrorf(err, "failed to parse config file %s", path)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.JWT.SigningKey == "" {
		return nil, contextutils.NewAppError(
			contextutils.ErrorCodeValidationFailed,
			contextutils.SeverityError,
			"JWT signing key is not configured",
			"set JWT_SIGNING_KEY or jwt.signing_key in the config file",
		)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ServiceName: "feedbackapp",
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "release",
		},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "feedback",
			ConnectTimeout: 10 * time.Second,
			QueryTimeout:   5 * time.Second,
		},
		JWT: JWTConfig{
			Expiry: time.Hour,
			Issuer: "feedbackapp",
		},
		Mail: MailConfig{
			Port: 587,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.ServiceName, "SERVICE_NAME")
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.GinMode, "GIN_MODE")
	setString(&cfg.Mongo.URI, "MONGO_URI")
	setString(&cfg.Mongo.Database, "MONGO_DB")
	setDuration(&cfg.Mongo.ConnectTimeout, "MONGO_CONNECT_TIMEOUT")
	setDuration(&cfg.Mongo.QueryTimeout, "MONGO_QUERY_TIMEOUT")
	setString(&cfg.JWT.SigningKey, "JWT_SIGNING_KEY")
	setDuration(&cfg.JWT.Expiry, "JWT_EXPIRY")
	setString(&cfg.JWT.Issuer, "JWT_ISSUER")
	setBool(&cfg.Mail.Enabled, "MAIL_ENABLED")
	setString(&cfg.Mail.Host, "MAIL_HOST")
	setInt(&cfg.Mail.Port, "MAIL_PORT")
	setString(&cfg.Mail.Username, "MAIL_USERNAME")
	setString(&cfg.Mail.Password, "MAIL_PASSWORD")
	setString(&cfg.Mail.From, "MAIL_FROM")
	setString(&cfg.Mail.ResetBaseURL, "MAIL_RESET_BASE_URL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
