// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"storefront/pkg/cart"
)

// DefaultRelayURL is the hosted form relay the storefront posts to.
const DefaultRelayURL = "https://api.web3forms.com/submit"

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Session SessionConfig
	Tracing TracingConfig
	Relay   RelayConfig
	Pricing PricingConfig
	Auth    AuthConfig
	Log     LogConfig
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string
	TLSCertFile     string
	TLSKeyFile      string
	ShutdownTimeout time.Duration
}

// StorageConfig selects the order and session backends.
type StorageConfig struct {
	DatabaseURL string // empty keeps orders in memory
	RedisAddr   string // empty keeps sessions in memory
}

// SessionConfig sets how long each kind of session value lives without
// being touched.
type SessionConfig struct {
	CartTTL    time.Duration
	ContactTTL time.Duration
	LoginTTL   time.Duration
}

// TracingConfig points spans at an OTLP collector. An empty Host prints
// spans to stdout.
type TracingConfig struct {
	Host        string
	Probability float64
}

// RelayConfig configures the hosted form relay that receives orders and
// bookings.
type RelayConfig struct {
	URL       string
	AccessKey string
	FromName  string
	Timeout   time.Duration
}

// PricingConfig holds the currency symbol and the optional fee rules
// applied on top of the discounted total.
type PricingConfig struct {
	CurrencySymbol        string
	ShippingFeeMinor      int64
	FreeShippingOverMinor int64
	TaxRate               decimal.Decimal
}

// AuthConfig lists accounts allowed to log in. Empty means any username,
// and order history is not served.
type AuthConfig struct {
	Users map[string]string // username -> bcrypt hash
}

// LogConfig sets the minimum log level.
type LogConfig struct {
	Level string
}

// Load reads .env.local and .env when present, then the environment. An
// unparsable or negative TAX_RATE is an error.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	taxRate, err := decimal.NewFromString(getEnv("TAX_RATE", "0"))
	if err != nil {
		return nil, fmt.Errorf("TAX_RATE: %w", err)
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("TAX_RATE: %s is negative", taxRate)
	}

	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8443"),
			TLSCertFile:     getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:      getEnv("TLS_KEY_FILE", ""),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			DatabaseURL: getEnv("DATABASE_URL", ""),
			RedisAddr:   getEnv("REDIS_ADDR", ""),
		},
		Session: SessionConfig{
			CartTTL:    getEnvAsDuration("SESSION_TTL", time.Hour),
			ContactTTL: getEnvAsDuration("CONTACT_TTL", 30*24*time.Hour),
			LoginTTL:   getEnvAsDuration("LOGIN_TTL", time.Hour),
		},
		Tracing: TracingConfig{
			Host:        getEnv("OTEL_HOST", ""),
			Probability: getEnvAsFloat("OTEL_SAMPLE_RATE", 1.0),
		},
		Relay: RelayConfig{
			URL:       getEnv("RELAY_URL", DefaultRelayURL),
			AccessKey: getEnv("RELAY_ACCESS_KEY", ""),
			FromName:  getEnv("RELAY_FROM_NAME", "Storefront"),
			Timeout:   getEnvAsDuration("RELAY_TIMEOUT", 10*time.Second),
		},
		Pricing: PricingConfig{
			CurrencySymbol:        getEnv("CURRENCY_SYMBOL", "₹"),
			ShippingFeeMinor:      getEnvAsInt64("SHIPPING_FEE_MINOR", 0),
			FreeShippingOverMinor: getEnvAsInt64("FREE_SHIPPING_OVER_MINOR", 0),
			TaxRate:               taxRate,
		},
		Auth: AuthConfig{
			Users: parseUsers(getEnv("AUTH_USERS", "")),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

// FeeRules turns the pricing settings into cart fee rules. Nothing is
// returned for zero settings, so by default the grand total equals the total.
func (p PricingConfig) FeeRules() []cart.FeeRule {
	var rules []cart.FeeRule
	switch {
	case p.ShippingFeeMinor > 0 && p.FreeShippingOverMinor > 0:
		rules = append(rules, cart.FreeShippingOver{AmountMinor: p.ShippingFeeMinor, ThresholdMinor: p.FreeShippingOverMinor})
	case p.ShippingFeeMinor > 0:
		rules = append(rules, cart.FlatShipping{AmountMinor: p.ShippingFeeMinor})
	}
	if p.TaxRate.IsPositive() {
		rules = append(rules, cart.PercentTax{Rate: p.TaxRate})
	}
	return rules
}

// UseTLS reports whether both certificate and key are configured.
func (s ServerConfig) UseTLS() bool {
	return s.TLSCertFile != "" && s.TLSKeyFile != ""
}

// parseUsers reads "name:hash,name:hash". Malformed entries are skipped.
func parseUsers(s string) map[string]string {
	users := map[string]string{}
	for _, entry := range strings.Split(s, ",") {
		name, hash, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || name == "" || hash == "" {
			continue
		}
		users[name] = hash
	}
	return users
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
