// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Analysis    AnalysisConfig
	Sentiment   SentimentConfig
	Twitter     TwitterConfig
	Log         LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds record store configuration
type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
	SQLitePath   string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	Enabled        bool
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// AnalysisConfig holds trend analysis configuration
type AnalysisConfig struct {
	Horizon        int
	Timezone       string
	EventsTopic    string
	ReportInterval time.Duration
}

// SentimentConfig holds sentiment classifier configuration
type SentimentConfig struct {
	Endpoint      string
	Token         string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// TwitterConfig holds Twitter record source configuration
type TwitterConfig struct {
	BearerToken string
	UserID      string
	Host        string
	MaxResults  int
	MaxPages    int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Supported record store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverTwitter  = "twitter"
)

// Load loads configuration from an optional .env file and environment variables
func Load() (Config, error) {
	// A missing .env file is fine, the environment still applies
	_ = godotenv.Load()

	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "curator"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			SQLitePath:   getEnv("DB_SQLITE_PATH", "engagement_data.db"),
		},
		NATS: NATSConfig{
			Enabled:        getEnvAsBool("NATS_ENABLED", false),
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Analysis: AnalysisConfig{
			Horizon:        getEnvAsInt("ANALYSIS_HORIZON", 7),
			Timezone:       getEnv("ANALYSIS_TIMEZONE", "UTC"),
			EventsTopic:    getEnv("ANALYSIS_EVENTS_TOPIC", "engagement"),
			ReportInterval: getEnvAsDuration("ANALYSIS_REPORT_INTERVAL", 0),
		},
		Sentiment: SentimentConfig{
			Endpoint:      getEnv("SENTIMENT_ENDPOINT", ""),
			Token:         getEnv("SENTIMENT_TOKEN", ""),
			Timeout:       getEnvAsDuration("SENTIMENT_TIMEOUT", 10*time.Second),
			RatePerSecond: getEnvAsFloat("SENTIMENT_RATE_PER_SECOND", 5),
			Burst:         getEnvAsInt("SENTIMENT_BURST", 5),
		},
		Twitter: TwitterConfig{
			BearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
			UserID:      getEnv("TWITTER_USER_ID", ""),
			Host:        getEnv("TWITTER_HOST", "https://api.twitter.com"),
			MaxResults:  getEnvAsInt("TWITTER_MAX_RESULTS", 100),
			MaxPages:    getEnvAsInt("TWITTER_MAX_PAGES", 5),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	return config, validate(config)
}

// Location resolves the analysis timezone
func (c AnalysisConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// validate checks if config is valid
func validate(config Config) error {
	switch config.Database.Driver {
	case DriverPostgres, DriverSQLite:
	case DriverTwitter:
		if config.Twitter.BearerToken == "" || config.Twitter.UserID == "" {
			return fmt.Errorf("twitter driver requires TWITTER_BEARER_TOKEN and TWITTER_USER_ID")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", config.Database.Driver)
	}

	if config.Analysis.Horizon < 1 || config.Analysis.Horizon > 365 {
		return fmt.Errorf("ANALYSIS_HORIZON must be between 1 and 365, got %d", config.Analysis.Horizon)
	}

	if _, err := config.Analysis.Location(); err != nil {
		return fmt.Errorf("invalid ANALYSIS_TIMEZONE: %w", err)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
