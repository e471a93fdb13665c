// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Auth
	JWTSecret string

	// AMQP; empty URL disables invite notifications.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Mailer (notify worker); empty API key disables email delivery.
	MailerAPIKey    string
	MailerBaseURL   string
	MailerFromEmail string
	MailerFromName  string
	MailerTimeout   time.Duration

	// ClientURL is the frontend base URL embedded in invitation emails.
	ClientURL string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/budgetsync.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budgetsync"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "invite_notifications"),

		MailerAPIKey:    getEnv("MAILER_API_KEY", ""),
		MailerBaseURL:   getEnv("MAILER_BASE_URL", "https://api.brevo.com"),
		MailerFromEmail: getEnv("MAILER_FROM_EMAIL", "noreply@budgetsync.app"),
		MailerFromName:  getEnv("MAILER_FROM_NAME", "BudgetSync"),
		MailerTimeout:   getEnvDuration("MAILER_TIMEOUT", 10*time.Second),

		ClientURL: getEnv("CLIENT_URL", "http://localhost:3000"),
	}
}

// Validate checks the configuration, collecting every problem into one error.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET must be set")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.MailerAPIKey != "" {
		if c.MailerBaseURL == "" {
			errs = append(errs, "mailer base URL cannot be empty when an API key is provided")
		}
		if c.MailerFromEmail == "" {
			errs = append(errs, "mailer from address cannot be empty when an API key is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
