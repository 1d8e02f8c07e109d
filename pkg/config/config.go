// Package config resolves cubemcp configuration from the environment and an
// optional TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Environment variables consumed by the server. A missing required variable
// is a configuration error surfaced as tool output, never a crash.
const (
	EnvAPIKey     = "CUBE_API_KEY"
	EnvTenantName = "CUBE_TENANT_NAME"
	EnvAgentID    = "CUBE_AGENT_ID"
	EnvAPIURL     = "CUBE_API_URL"
)

// DefaultAPIURL is the Cube Cloud API base used when CUBE_API_URL is unset.
const DefaultAPIURL = "https://api.cubecloud.dev"

type Config struct {
	// APIKey is the signing secret for the short-lived bearer credential.
	APIKey string `toml:"api_key"`

	// TenantName identifies the Cube tenant, interpolated into the chat URL.
	TenantName string `toml:"tenant_name"`

	// AgentID identifies the analytics agent, interpolated into the chat URL.
	AgentID string `toml:"agent_id"`

	// APIURL is the Cube API base URL.
	APIURL string `toml:"api_url"`
}

// MissingFieldError reports a single absent required configuration field,
// naming the environment variable that supplies it.
type MissingFieldError struct {
	Field  string
	EnvVar string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing %s: set the %s environment variable", e.Field, e.EnvVar)
}

func NewDefaultConfig() *Config {
	return &Config{
		APIURL: DefaultAPIURL,
	}
}

// Validate checks each required field independently so the caller gets a
// specific, actionable message for the first missing one.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return &MissingFieldError{Field: "API key", EnvVar: EnvAPIKey}
	}
	if c.TenantName == "" {
		return &MissingFieldError{Field: "tenant name", EnvVar: EnvTenantName}
	}
	if c.AgentID == "" {
		return &MissingFieldError{Field: "agent id", EnvVar: EnvAgentID}
	}
	return nil
}

// ParseConfigTOML parses raw TOML bytes into a Config.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	return cfg, nil
}

// Load resolves the effective configuration.
//
// Precedence (highest to lowest):
//  1. Environment variables (CUBE_API_KEY, CUBE_TENANT_NAME, ...)
//  2. TOML file values, when path is non-empty
//  3. Defaults from NewDefaultConfig()
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		fileCfg, err := ParseConfigTOML(data)
		if err != nil {
			return nil, err
		}
		applyFile(cfg, fileCfg)
	}

	applyEnv(cfg, InitViper())

	return cfg, nil
}

// applyFile overlays non-empty file values onto cfg.
func applyFile(cfg, fileCfg *Config) {
	if fileCfg.APIKey != "" {
		cfg.APIKey = fileCfg.APIKey
	}
	if fileCfg.TenantName != "" {
		cfg.TenantName = fileCfg.TenantName
	}
	if fileCfg.AgentID != "" {
		cfg.AgentID = fileCfg.AgentID
	}
	if fileCfg.APIURL != "" {
		cfg.APIURL = fileCfg.APIURL
	}
}
