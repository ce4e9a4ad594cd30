package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig
	Run      RunConfig
	Browser  BrowserConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// RunConfig describes what a single scan looks at.
type RunConfig struct {
	URL              string
	Blacklist        []string
	FallbackShipping decimal.Decimal
	SettleDelay      time.Duration
	SettleJitter     time.Duration
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int32
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Stream   string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; TCG_RUN_FILE names an
// optional YAML file whose url and blacklist extend the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvInt("PORT", 8084),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 5*time.Minute),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Run: RunConfig{
			URL:              getEnv("TCG_URL", ""),
			Blacklist:        getEnvStringSlice("TCG_BLACKLIST", nil),
			FallbackShipping: getEnvDecimal("TCG_FALLBACK_SHIPPING", decimal.RequireFromString("3.99")),
			SettleDelay:      getEnvDuration("TCG_SETTLE_DELAY", 3*time.Second),
			SettleJitter:     getEnvDuration("TCG_SETTLE_JITTER", 0),
		},
		Browser: BrowserConfig{
			Headless:       getEnvBool("BROWSER_HEADLESS", true),
			Timeout:        getEnvDuration("BROWSER_TIMEOUT", 30*time.Second),
			ViewportWidth:  getEnvInt("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getEnvInt("BROWSER_VIEWPORT_HEIGHT", 1080),
			AcceptLanguage: getEnv("BROWSER_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
			TimezoneID:     getEnv("BROWSER_TIMEZONE", "America/New_York"),
			Locale:         getEnv("BROWSER_LOCALE", "en-US"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "tcg_buyout"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 4)),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Stream:   getEnv("REDIS_STREAM", "stream:buyout_rankings"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if path := getEnv("TCG_RUN_FILE", ""); path != "" {
		if err := cfg.Run.MergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Run.FallbackShipping.IsNegative() {
		return fmt.Errorf("TCG_FALLBACK_SHIPPING cannot be negative: %s", c.Run.FallbackShipping)
	}

	if c.Run.SettleDelay < 0 || c.Run.SettleJitter < 0 {
		return errors.New("TCG_SETTLE_DELAY and TCG_SETTLE_JITTER cannot be negative")
	}

	if c.Database.Enabled && c.Database.Name == "" {
		return errors.New("database name is required")
	}

	if c.Redis.Enabled && c.Redis.Stream == "" {
		return errors.New("REDIS_STREAM is required when redis is enabled")
	}

	return nil
}

// RunFile is the YAML form of a scan target.
type RunFile struct {
	URL       string   `yaml:"url"`
	Blacklist []string `yaml:"blacklist"`
}

// LoadRunFile reads a YAML file such as
//
//	url: https://www.tcgplayer.com/product/10583/magic-onslaught-break-open
//	blacklist:
//	  - Mtgaok
func LoadRunFile(path string) (*RunFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}

	var rf RunFile
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse run file %s: %w", path, err)
	}

	return &rf, nil
}

// MergeFile applies a run file: its url replaces an empty URL and its
// blacklist is added to the existing one.
func (r *RunConfig) MergeFile(path string) error {
	rf, err := LoadRunFile(path)
	if err != nil {
		return err
	}

	if r.URL == "" {
		r.URL = rf.URL
	}
	r.Blacklist = MergeBlacklists(r.Blacklist, rf.Blacklist)

	return nil
}

// MergeBlacklists concatenates seller lists, dropping blanks and repeats.
// Names are compared exactly.
func MergeBlacklists(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var merged []string

	for _, list := range lists {
		for _, name := range list {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			merged = append(merged, name)
		}
	}

	return merged
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Seller names may contain spaces, so only the surrounding whitespace of
// each comma separated entry is trimmed.
func getEnvStringSlice(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
