// Package config loads gamemeta configuration from YAML files.
package config

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ProviderConfig holds the configuration for a single metadata provider.
type ProviderConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Credentials map[string]string `yaml:"credentials,omitempty"`
	Priority    int               `yaml:"priority"`
	TimeoutSecs int               `yaml:"timeout"`
	RateLimit   float64           `yaml:"rate_limit,omitempty"`
}

// Credential returns a credential value by key, or an empty string.
func (p ProviderConfig) Credential(key string) string {
	return p.Credentials[key]
}

// IsConfigured reports whether the provider is enabled with credentials.
func (p ProviderConfig) IsConfigured() bool {
	return p.Enabled && len(p.Credentials) > 0
}

// CacheConfig holds cache backend configuration.
type CacheConfig struct {
	Backend string `yaml:"backend"` // "memory", "sqlite" or "none"
	TTLSecs int    `yaml:"ttl"`
	MaxSize int    `yaml:"max_size"`
	Path    string `yaml:"path,omitempty"`
}

// LoggingConfig controls log output format and verbosity.
type LoggingConfig struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
}

// Config holds application configuration.
type Config struct {
	Providers      map[string]ProviderConfig `yaml:"providers"`
	Cache          CacheConfig               `yaml:"cache"`
	Logging        LoggingConfig             `yaml:"logging"`
	DefaultTimeout int                       `yaml:"default_timeout"`
	UserAgent      string                    `yaml:"user_agent"`
	RegionPriority []string                  `yaml:"region_priority"`
}

// providerNames are all providers the configuration recognizes, whether or
// not an implementation ships for them yet.
var providerNames = []string{
	"igdb",
	"mobygames",
	"screenscraper",
	"retroachievements",
	"steamgriddb",
	"hltb",
	"thegamesdb",
	"hasheous",
	"flashpoint",
	"playmatch",
	"launchbox",
	"gamelist",
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	providers := make(map[string]ProviderConfig, len(providerNames))
	for _, name := range providerNames {
		providers[name] = ProviderConfig{Priority: 100, TimeoutSecs: 30}
	}
	return &Config{
		Providers: providers,
		Cache: CacheConfig{
			Backend: "memory",
			TTLSecs: 3600,
			MaxSize: 10000,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
		DefaultTimeout: 30,
		UserAgent:      "gamemeta/1.0",
		RegionPriority: []string{"us", "wor", "eu", "jp"},
	}
}

// configPaths returns the list of paths to search for a config file.
func configPaths() []string {
	paths := []string{
		".gamemeta.yaml",
		".gamemeta.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gamemeta", "config.yaml"),
			filepath.Join(home, ".config", "gamemeta", "config.yml"),
			filepath.Join(home, ".gamemeta.yaml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// Priority: env GAMEMETA_CONFIG > search paths > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if envPath := os.Getenv("GAMEMETA_CONFIG"); envPath != "" {
		if err := cfg.loadFromFile(envPath); err != nil {
			return nil, err
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvOverrides() {
	if cachePath := os.Getenv("GAMEMETA_CACHE"); cachePath != "" {
		c.Cache.Backend = "sqlite"
		c.Cache.Path = cachePath
	}
	if level := os.Getenv("GAMEMETA_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Provider returns the configuration for a named provider.
func (c *Config) Provider(name string) ProviderConfig {
	return c.Providers[name]
}

// EnabledProviders returns enabled provider names sorted ascending by
// priority (lower number = tried first). Ties keep a stable name order.
func (c *Config) EnabledProviders() []string {
	type entry struct {
		name     string
		priority int
	}

	var enabled []entry
	for name, pc := range c.Providers {
		if pc.Enabled {
			enabled = append(enabled, entry{name, pc.Priority})
		}
	}

	sort.Slice(enabled, func(i, j int) bool {
		if enabled[i].priority != enabled[j].priority {
			return enabled[i].priority < enabled[j].priority
		}
		return enabled[i].name < enabled[j].name
	})

	names := make([]string, len(enabled))
	for i, e := range enabled {
		names[i] = e.name
	}
	return names
}
