// Package config resolves credentials and generation defaults once at
// process start. Adapters receive an explicit credential set; nothing reads
// the environment after Load returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/modellens/modellens/pkg/adapter"
	"github.com/modellens/modellens/pkg/catalog"
)

// Credentials maps providers to API keys. An empty key is a legal state;
// only the matching adapter fails, and only when actually invoked.
type Credentials struct {
	OpenAI      string
	Anthropic   string
	HuggingFace string
}

// For returns the key configured for a provider, or "".
func (c Credentials) For(p catalog.Provider) string {
	switch p {
	case catalog.ProviderOpenAI:
		return c.OpenAI
	case catalog.ProviderAnthropic:
		return c.Anthropic
	case catalog.ProviderHuggingFace:
		return c.HuggingFace
	}
	return ""
}

// Has reports whether a key is configured for the provider.
func (c Credentials) Has(p catalog.Provider) bool {
	return c.For(p) != ""
}

// Defaults holds the generation settings overridable via environment.
type Defaults struct {
	MaxTokens      int           `envconfig:"DEFAULT_MAX_TOKENS" default:"1000"`
	Temperature    float64       `envconfig:"DEFAULT_TEMPERATURE" default:"0.7"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"2m"`
}

// Options expands the defaults into adapter options. The nucleus and penalty
// knobs are fixed; only length, temperature and timeout vary.
func (d Defaults) Options() adapter.Options {
	return adapter.Options{
		MaxTokens:        d.MaxTokens,
		Temperature:      d.Temperature,
		TopP:             1.0,
		FrequencyPenalty: 0.0,
		PresencePenalty:  0.0,
		Timeout:          d.RequestTimeout,
	}
}

// Config holds the resolved application configuration.
type Config struct {
	Credentials Credentials
	Defaults    Defaults
	ConfigDir   string

	// CatalogPath points at ~/.modellens/models.yaml when present; empty
	// means the built-in catalog applies.
	CatalogPath string
}

// fileConfig represents the structure of ~/.modellens/config.yaml.
type fileConfig struct {
	APIKeys apiKeysConfig `yaml:"api_keys"`
}

type apiKeysConfig struct {
	OpenAI      string `yaml:"openai"`
	Anthropic   string `yaml:"anthropic"`
	HuggingFace string `yaml:"huggingface"`
}

// Load reads configuration from .env, the config file and environment
// variables. Environment variables take precedence over file configuration.
func Load() (*Config, error) {
	// A .env in the working directory is a convenience, not a requirement.
	_ = godotenv.Load()

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	fc := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	var defaults Defaults
	if err := envconfig.Process("", &defaults); err != nil {
		return nil, fmt.Errorf("failed to parse environment defaults: %w", err)
	}

	cfg := &Config{
		Credentials: Credentials{
			OpenAI:      getEnvOrDefault("OPENAI_API_KEY", fc.APIKeys.OpenAI),
			Anthropic:   getEnvOrDefault("ANTHROPIC_API_KEY", fc.APIKeys.Anthropic),
			HuggingFace: getEnvOrDefault("HUGGINGFACE_API_KEY", fc.APIKeys.HuggingFace),
		},
		Defaults:  defaults,
		ConfigDir: configDir,
	}

	catalogPath := filepath.Join(configDir, "models.yaml")
	if _, err := os.Stat(catalogPath); err == nil {
		cfg.CatalogPath = catalogPath
	}

	return cfg, nil
}

// loadFileConfig reads the config file, returning an empty config if the
// file is missing or malformed.
func loadFileConfig(path string) *fileConfig {
	cfg := &fileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, cfg)
	return cfg
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".modellens")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
