// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	APIName             string `env:"ICA_API_APP_NAME" default:"Instruments Catalog API"`
	APIVersion          string `env:"ICA_API_APP_VERSION" default:"1.0.0"`
	ServerPort          string `env:"ICA_API_SERVER_PORT" default:"3009"`
	ServerLogLevel      string `env:"ICA_API_SERVER_LOG_LEVEL" default:"info"`
	CatalogURL          string `env:"ICA_API_CATALOG_URL" default:"https://assets.upstox.com/market-quote/instruments/exchange/NSE.json.gz"`
	CatalogFetchTimeout string `env:"ICA_API_CATALOG_FETCH_TIMEOUT" default:"120s"`
	RedisAddr           string `env:"ICA_API_REDIS_ADDR" default:""`
	RedisPassword       string `env:"ICA_API_REDIS_PASSWORD" default:""`
}

var (
	SingleLine string = "--------------------------------------------------"
)

var (
	instance *Config
	once     sync.Once
	err      error
)

// Get returns the application configuration
func Get() (*Config, error) {
	once.Do(func() {
		// missing .env is fine, env vars may be set by the deployment
		_ = godotenv.Load()
		instance, err = loadConfig()
	})
	return instance, err
}

// loadConfig loads configuration from environment variables
func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() error {
	t := reflect.TypeOf(*c)
	v := reflect.ValueOf(c).Elem()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		envTag := field.Tag.Get("env")
		if envTag == "" {
			return fmt.Errorf("missing env tag for field %s", field.Name)
		}

		value := os.Getenv(envTag)
		if value == "" {
			defaultValue, ok := field.Tag.Lookup("default")
			if !ok {
				return fmt.Errorf("env variable %s is required but not set", envTag)
			}
			value = defaultValue
		}

		v.Field(i).SetString(value)
	}

	return nil
}

// FetchTimeout returns the catalog fetch timeout as a duration
func (c *Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.CatalogFetchTimeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// String returns the configuration as a string
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n--------------------------------------\n")
	sb.WriteString("Configuration:\n")
	sb.WriteString("--------------------------------------\n")

	t := reflect.TypeOf(*c)
	v := reflect.ValueOf(*c)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i).String()

		// Mask sensitive fields
		value = maskSensitiveField(field.Name, value)
		sb.WriteString(fmt.Sprintf("  %s:  %s\n", field.Name, value))
	}

	sb.WriteString("--------------------------------------\n")

	return sb.String()
}

func maskSensitiveField(fieldName, value string) string {
	sensitiveFields := []string{"token", "dsn", "secret", "password"}

	fieldNameLower := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFields {
		if strings.Contains(fieldNameLower, sensitive) {
			return maskValue(value)
		}
	}

	return value
}

func maskValue(value string) string {
	if len(value) <= 3 {
		return strings.Repeat("*", 7)
	}
	return value[:3] + strings.Repeat("*", 7)
}
