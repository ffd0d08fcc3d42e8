package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/jackzampolin/novella/internal/providers"
	"github.com/jackzampolin/novella/internal/summary"
)

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v         *viper.Viper
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
// searchDir is used when cfgFile is empty.
func NewManager(cfgFile, searchDir string) (*Manager, error) {
	if err := LoadDotEnv(".", searchDir); err != nil {
		return nil, err
	}

	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile, searchDir); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile, searchDir string) error {
	for _, entry := range DefaultEntries() {
		cm.v.SetDefault(entry.Key, entry.Value)
	}

	// Environment variables with NOVELLA_ prefix: NOVELLA_LLM_MODEL
	cm.v.SetEnvPrefix("NOVELLA")
	cm.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cm.v.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		cm.v.SetConfigFile(cfgFile)
	} else {
		cm.v.SetConfigName("config")
		cm.v.SetConfigType("yaml")
		cm.v.AddConfigPath(".")
		if searchDir != "" {
			cm.v.AddConfigPath(searchDir)
		}
	}

	// Try to read config file (not required)
	if err := cm.v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !(cfgFile != "" && errors.Is(err, os.ErrNotExist)) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// Value returns the effective value of a single key.
func (cm *Manager) Value(key string) (any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if GetDefault(key) == nil {
		return nil, fmt.Errorf("%w for key %q", ErrNoDefault, key)
	}
	return cm.v.Get(key), nil
}

// ConfigFile returns the file viper read, or "" when none was found.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// LoadDotEnv loads a .env file from each dir that has one. Variables already
// set in the environment win, so ${ENV_VAR} references and NOVELLA_*
// overrides can live next to the config file.
func LoadDotEnv(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, ".env")
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ClientConfig converts the LLM section for providers.ClientFactory.
// It resolves ${ENV_VAR} references in the API key.
func (c *Config) ClientConfig() providers.ClientConfig {
	return providers.ClientConfig{
		APIKey:       ResolveEnvVars(c.LLM.APIKey),
		BaseURL:      ResolveEnvVars(c.LLM.BaseURL),
		DefaultModel: c.LLM.Model,
		Timeout:      time.Duration(c.LLM.TimeoutSeconds) * time.Second,
		MaxRetries:   c.LLM.MaxRetries,
	}
}

// SummaryConfig converts the config for summary.Orchestrator requests.
func (c *Config) SummaryConfig() summary.Config {
	client := c.ClientConfig()
	return summary.Config{
		APIKey:        client.APIKey,
		BaseURL:       client.BaseURL,
		Model:         c.LLM.Model,
		SmallInterval: c.Summary.SmallInterval,
		BigInterval:   c.Summary.BigInterval,
		SmallPrompt:   c.Summary.SmallPrompt,
		BigPrompt:     c.Summary.BigPrompt,
		Temperature:   c.LLM.Temperature,
		Timeout:       client.Timeout,
		MaxRetries:    client.MaxRetries,
	}
}

// RetryDelay returns the structured generation retry delay.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Generation.RetryDelayMs) * time.Millisecond
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Novella configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set it in your shell: export OPENAI_API_KEY=xxx
# Any key can be overridden from the environment, e.g. NOVELLA_LLM_MODEL=gpt-4o

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
