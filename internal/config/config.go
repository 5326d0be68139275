package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// API keys
	OpenAIKey    string `json:"openai_api_key,omitempty"`
	AnthropicKey string `json:"anthropic_api_key,omitempty"`

	// LLM defaults
	DefaultProvider string `json:"default_provider,omitempty"`
	DefaultModel    string `json:"default_model,omitempty"`

	// Grounding
	Vocabularies     []string `json:"vocabularies,omitempty"`
	MaxSearchResults int      `json:"max_search_results,omitempty"`
	DataDir          string   `json:"data_dir,omitempty"`
	OLSBaseURL       string   `json:"ols_base_url,omitempty"`

	// Services
	NATSURL      string `json:"nats_url,omitempty"`
	WebSearchURL string `json:"web_search_url,omitempty"`
}

var (
	configDir  string
	configFile string
	current    *Config
)

func init() {
	// Use ~/.config/ontoground for config
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	configDir = filepath.Join(home, ".config", "ontoground")
	configFile = filepath.Join(configDir, "config.json")
}

func defaults() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DefaultProvider:  "openai",
		DefaultModel:     "gpt-4o",
		Vocabularies:     []string{"mondo", "hp", "go", "chebi", "uberon", "cl"},
		MaxSearchResults: 10,
		DataDir:          filepath.Join(home, ".ontoground", "indexes"),
	}
}

// Load reads the config from disk
func Load() (*Config, error) {
	if current != nil {
		return current, nil
	}

	current = defaults()

	data, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return current, nil // Return default config
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, current); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return current, nil
}

// Save writes the config to disk
func Save(cfg *Config) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	current = cfg
	return nil
}

// Get returns the current config, loading if necessary
func Get() *Config {
	if current == nil {
		_, _ = Load()
	}
	return current
}

// Set updates a config value by key
func Set(key, value string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	switch key {
	case "openai_api_key", "openai":
		cfg.OpenAIKey = value
	case "anthropic_api_key", "anthropic":
		cfg.AnthropicKey = value
	case "default_provider", "provider":
		cfg.DefaultProvider = value
	case "default_model", "model":
		cfg.DefaultModel = value
	case "vocabularies":
		cfg.Vocabularies = splitList(value)
	case "max_search_results":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("max_search_results must be a positive integer, got %q", value)
		}
		cfg.MaxSearchResults = n
	case "data_dir":
		cfg.DataDir = value
	case "ols_base_url":
		cfg.OLSBaseURL = value
	case "nats_url":
		cfg.NATSURL = value
	case "web_search_url":
		cfg.WebSearchURL = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return Save(cfg)
}

// Delete removes a config value
func Delete(key string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	switch key {
	case "openai_api_key", "openai":
		cfg.OpenAIKey = ""
	case "anthropic_api_key", "anthropic":
		cfg.AnthropicKey = ""
	case "default_provider", "provider":
		cfg.DefaultProvider = ""
	case "default_model", "model":
		cfg.DefaultModel = ""
	case "vocabularies":
		cfg.Vocabularies = nil
	case "max_search_results":
		cfg.MaxSearchResults = 0
	case "data_dir":
		cfg.DataDir = ""
	case "ols_base_url":
		cfg.OLSBaseURL = ""
	case "nats_url":
		cfg.NATSURL = ""
	case "web_search_url":
		cfg.WebSearchURL = ""
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return Save(cfg)
}

// GetOpenAIKey returns the OpenAI API key (config or env)
func GetOpenAIKey() string {
	cfg := Get()
	if cfg.OpenAIKey != "" {
		return cfg.OpenAIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// GetAnthropicKey returns the Anthropic API key (config or env)
func GetAnthropicKey() string {
	cfg := Get()
	if cfg.AnthropicKey != "" {
		return cfg.AnthropicKey
	}
	return os.Getenv("ANTHROPIC_API_KEY")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return configFile
}

// ListKeys returns configured values (API keys masked for display)
func ListKeys() map[string]string {
	cfg := Get()
	result := make(map[string]string)

	if cfg.OpenAIKey != "" {
		result["openai_api_key"] = maskKey(cfg.OpenAIKey)
	} else if os.Getenv("OPENAI_API_KEY") != "" {
		result["openai_api_key"] = maskKey(os.Getenv("OPENAI_API_KEY")) + " (env)"
	}

	if cfg.AnthropicKey != "" {
		result["anthropic_api_key"] = maskKey(cfg.AnthropicKey)
	} else if os.Getenv("ANTHROPIC_API_KEY") != "" {
		result["anthropic_api_key"] = maskKey(os.Getenv("ANTHROPIC_API_KEY")) + " (env)"
	}

	if cfg.DefaultProvider != "" {
		result["default_provider"] = cfg.DefaultProvider
	}
	if cfg.DefaultModel != "" {
		result["default_model"] = cfg.DefaultModel
	}
	if len(cfg.Vocabularies) > 0 {
		result["vocabularies"] = strings.Join(cfg.Vocabularies, ",")
	}
	if cfg.MaxSearchResults > 0 {
		result["max_search_results"] = strconv.Itoa(cfg.MaxSearchResults)
	}
	if cfg.DataDir != "" {
		result["data_dir"] = cfg.DataDir
	}
	if cfg.OLSBaseURL != "" {
		result["ols_base_url"] = cfg.OLSBaseURL
	}
	if cfg.NATSURL != "" {
		result["nats_url"] = cfg.NATSURL
	}
	if cfg.WebSearchURL != "" {
		result["web_search_url"] = cfg.WebSearchURL
	}

	return result
}

// maskKey shows only first 4 and last 4 characters
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// splitList parses a comma-separated list, trimming whitespace and dropping
// empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetAgentPaths returns paths to search for custom agent definitions
// Returns both project-local (.ontoground/agents/) and global
// (~/.config/ontoground/agents/) paths
func GetAgentPaths() []string {
	paths := []string{}

	cwd, err := os.Getwd()
	if err == nil {
		paths = append(paths, filepath.Join(cwd, ".ontoground", "agents"))
	}

	paths = append(paths, filepath.Join(configDir, "agents"))

	return paths
}

// GetPipelinePaths returns paths to search for pipeline definitions
// Returns both project-local (.ontoground/pipelines/) and global
// (~/.config/ontoground/pipelines/) paths
func GetPipelinePaths() []string {
	paths := []string{}

	cwd, err := os.Getwd()
	if err == nil {
		paths = append(paths, filepath.Join(cwd, ".ontoground", "pipelines"))
	}

	paths = append(paths, filepath.Join(configDir, "pipelines"))

	return paths
}

// GetMapPaths returns paths to search for vocabulary map files
// Returns both project-local (.ontoground/maps/) and global
// (~/.config/ontoground/maps/) paths
func GetMapPaths() []string {
	paths := []string{}

	cwd, err := os.Getwd()
	if err == nil {
		paths = append(paths, filepath.Join(cwd, ".ontoground", "maps"))
	}

	paths = append(paths, filepath.Join(configDir, "maps"))

	return paths
}
