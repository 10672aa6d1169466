package models

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the evaluation service. Values are
// resolved in order: built-in defaults, YAML config file, environment
// variables (optionally loaded from a .env file), CLI flag overrides.
type Config struct {
	ListenAddr      string `yaml:"listen_addr"`
	EndpointBaseURL string `yaml:"endpoint_base_url"`

	// CachePath is the sqlite file backing the result cache. Empty selects
	// the in-memory store.
	CachePath string `yaml:"cache_path"`
	CacheTTL  string `yaml:"cache_ttl"`

	RequestTimeout string `yaml:"request_timeout"`

	// Policy selects a built-in scoring policy by version name; PolicyFile
	// loads one from YAML instead and wins when both are set.
	Policy     string `yaml:"policy"`
	PolicyFile string `yaml:"policy_file"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:      ":8087",
		EndpointBaseURL: "https://www.idealista.com",
		CachePath:       "trust-shield-cache.db",
		CacheTTL:        "24h",
		RequestTimeout:  "15s",
		Policy:          "2025.2",
	}
}

// LoadConfig reads the config file at path (optional: a missing file falls
// back to defaults) and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg.ListenAddr, "TRUST_SHIELD_LISTEN_ADDR")
	applyEnv(&cfg.EndpointBaseURL, "TRUST_SHIELD_ENDPOINT_BASE_URL")
	applyEnv(&cfg.CachePath, "TRUST_SHIELD_CACHE_PATH")
	applyEnv(&cfg.CacheTTL, "TRUST_SHIELD_CACHE_TTL")
	applyEnv(&cfg.RequestTimeout, "TRUST_SHIELD_REQUEST_TIMEOUT")
	applyEnv(&cfg.Policy, "TRUST_SHIELD_POLICY")
	applyEnv(&cfg.PolicyFile, "TRUST_SHIELD_POLICY_FILE")

	if _, err := cfg.TTL(); err != nil {
		return nil, err
	}
	if _, err := cfg.Timeout(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// TTL parses the cache TTL.
func (c *Config) TTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache_ttl %q: %w", c.CacheTTL, err)
	}
	return d, nil
}

// Timeout parses the per-request network timeout.
func (c *Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
	}
	return d, nil
}
