package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/taskflow/modules/api"
	"github.com/example/taskflow/modules/task"
)

// Config holds the runtime settings read from the environment.
type Config struct {
	HTTPAddr             string
	ReadTimeout          time.Duration
	WriteTimeout         time.Duration
	RequestTimeout       time.Duration
	ShutdownTimeout      time.Duration
	CORSOrigins          string
	AccessLog            bool
	DBDriver             string
	DBPath               string
	DatabaseURL          string
	DBDebug              bool
	AllowDeleteCompleted bool
	LogLevel             string
}

// loadConfig reads the configuration from environment variables.
func loadConfig() Config {
	return Config{
		HTTPAddr:             getEnv("HTTP_ADDR", ":3000"),
		ReadTimeout:          getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:         getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		RequestTimeout:       getEnvDuration("REQUEST_TIMEOUT", 5*time.Second),
		ShutdownTimeout:      getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		CORSOrigins:          getEnv("CORS_ALLOWED_ORIGINS", "*"),
		AccessLog:            getEnvBool("ACCESS_LOG", true),
		DBDriver:             strings.ToLower(getEnv("DB_DRIVER", task.DriverSQLite)),
		DBPath:               getEnv("DB_PATH", "taskflow.db"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		DBDebug:              getEnvBool("DB_DEBUG", false),
		AllowDeleteCompleted: getEnvBool("ALLOW_DELETE_COMPLETED", true),
		LogLevel:             getEnvLogLevel("LOG_LEVEL", "info"),
	}
}

// validate reports settings that cannot start the application.
func (c Config) validate() error {
	switch c.DBDriver {
	case task.DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for driver %q", c.DBDriver)
		}
	case task.DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for driver %q", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func (c Config) taskConfig() task.Config {
	return task.Config{
		Store: task.StoreConfig{
			Driver:      c.DBDriver,
			SQLitePath:  c.DBPath,
			DatabaseURL: c.DatabaseURL,
			Debug:       c.DBDebug,
		},
		AllowDeleteCompleted: c.AllowDeleteCompleted,
	}
}

func (c Config) apiConfig() api.Config {
	return api.Config{
		Addr:           c.HTTPAddr,
		AllowedOrigins: c.CORSOrigins,
		RequestTimeout: c.RequestTimeout,
		ReadTimeout:    c.ReadTimeout,
		WriteTimeout:   c.WriteTimeout,
		AccessLog:      c.AccessLog,
	}
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvLogLevel returns a log level supported by the mono logger or default.
func getEnvLogLevel(key, defaultValue string) string {
	value := strings.ToLower(os.Getenv(key))
	switch value {
	case "":
		return defaultValue
	case "info", "error":
		return value
	}
	log.Printf("Warning: unsupported log level for %s: %s (expected info or error), using default: %s", key, value, defaultValue)
	return defaultValue
}

// getEnvDuration returns environment variable as time.Duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
