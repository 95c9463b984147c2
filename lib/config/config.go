// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the console's full configuration.
type Config struct {
	// DefaultGateway names the entry in Gateways used when a command
	// is run without --gateway. Required when more than one gateway
	// is configured.
	DefaultGateway string `yaml:"default_gateway"`

	// Gateways maps profile names to gateway connection settings.
	Gateways map[string]GatewayConfig `yaml:"gateways"`

	// Paths configures where the console keeps local state.
	Paths PathsConfig `yaml:"paths"`

	// Marketplace configures the plugin marketplace client.
	Marketplace MarketplaceConfig `yaml:"marketplace"`
}

// GatewayConfig is one gateway connection profile.
type GatewayConfig struct {
	// URL is the gateway WebSocket endpoint
	// (e.g. "ws://127.0.0.1:9300/gateway").
	URL string `yaml:"url"`

	// Token is the bearer token presented in the handshake. Empty
	// connects unauthenticated, which most gateways reject.
	Token string `yaml:"token"`

	// Role is the operator role requested in the handshake.
	// Default: operator.
	Role string `yaml:"role"`

	// Scopes are the capability scopes requested in the handshake.
	Scopes []string `yaml:"scopes"`

	// HandshakeDelay overrides the wait between transport open and
	// the handshake request. Zero keeps the client default.
	HandshakeDelay time.Duration `yaml:"handshake_delay"`

	// ReconnectBase and ReconnectMax tune the reconnect backoff.
	// Zero keeps the client defaults.
	ReconnectBase time.Duration `yaml:"reconnect_base"`
	ReconnectMax  time.Duration `yaml:"reconnect_max"`
}

// PathsConfig configures local state locations.
type PathsConfig struct {
	// State is the root directory for console state: the address
	// book, pinned notes, and the snapshot cache live under it.
	State string `yaml:"state"`

	// Transcripts is where event transcript recordings are written.
	// Default: <state>/transcripts.
	Transcripts string `yaml:"transcripts"`
}

// MarketplaceConfig configures the plugin marketplace client.
type MarketplaceConfig struct {
	// BaseURL is the marketplace HTTP endpoint. Empty disables
	// marketplace commands.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each marketplace HTTP request. Default: 30s.
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the base configuration merged under any loaded
// file. It exists so every field has a sensible zero, not as a
// substitute for a config file.
func Default() *Config {
	homeDirectory, _ := os.UserHomeDir()
	stateRoot := filepath.Join(homeDirectory, ".local", "state", "anteroom")

	return &Config{
		Gateways: map[string]GatewayConfig{},
		// Transcripts stays empty here; it is derived from the final
		// State value after the file is merged.
		Paths: PathsConfig{
			State: stateRoot,
		},
		Marketplace: MarketplaceConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Load loads configuration from the path in ANTEROOM_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv("ANTEROOM_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("ANTEROOM_CONFIG environment variable not set; " +
			"set it to the path of your anteroom.yaml config file, or use --config")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging it
// over the defaults and expanding ${VAR} references.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// Gateway resolves a gateway profile by name. An empty name selects
// DefaultGateway, or the sole configured gateway when only one exists.
func (c *Config) Gateway(name string) (GatewayConfig, error) {
	if name == "" {
		name = c.DefaultGateway
	}
	if name == "" {
		if len(c.Gateways) == 1 {
			for _, gw := range c.Gateways {
				return gw, nil
			}
		}
		return GatewayConfig{}, fmt.Errorf("config: no gateway selected; set default_gateway or pass --gateway")
	}
	gw, ok := c.Gateways[name]
	if !ok {
		return GatewayConfig{}, fmt.Errorf("config: gateway %q is not configured", name)
	}
	return gw, nil
}

// expandVariables expands ${VAR} patterns in path and URL fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.State = expandVars(c.Paths.State, vars)
	vars["ANTEROOM_STATE"] = c.Paths.State
	c.Paths.Transcripts = expandVars(c.Paths.Transcripts, vars)
	if c.Paths.Transcripts == "" && c.Paths.State != "" {
		c.Paths.Transcripts = filepath.Join(c.Paths.State, "transcripts")
	}
	c.Marketplace.BaseURL = expandVars(c.Marketplace.BaseURL, vars)

	for name, gw := range c.Gateways {
		gw.URL = expandVars(gw.URL, vars)
		gw.Token = expandVars(gw.Token, vars)
		c.Gateways[name] = gw
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, consulting
// the provided vars first and the process environment second.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors, reporting all of them
// at once.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Gateways) == 0 {
		errs = append(errs, fmt.Errorf("at least one gateway must be configured"))
	}
	for name, gw := range c.Gateways {
		if gw.URL == "" {
			errs = append(errs, fmt.Errorf("gateway %q has no url", name))
		}
		if gw.ReconnectBase < 0 || gw.ReconnectMax < 0 || gw.HandshakeDelay < 0 {
			errs = append(errs, fmt.Errorf("gateway %q has a negative duration", name))
		}
		if gw.ReconnectBase > 0 && gw.ReconnectMax > 0 && gw.ReconnectBase > gw.ReconnectMax {
			errs = append(errs, fmt.Errorf("gateway %q: reconnect_base exceeds reconnect_max", name))
		}
	}
	if c.DefaultGateway != "" {
		if _, ok := c.Gateways[c.DefaultGateway]; !ok {
			errs = append(errs, fmt.Errorf("default_gateway %q is not in gateways", c.DefaultGateway))
		}
	}
	if len(c.Gateways) > 1 && c.DefaultGateway == "" {
		errs = append(errs, fmt.Errorf("default_gateway is required when several gateways are configured"))
	}
	if c.Paths.State == "" {
		errs = append(errs, fmt.Errorf("paths.state is required"))
	}
	if c.Marketplace.Timeout < 0 {
		errs = append(errs, fmt.Errorf("marketplace.timeout must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the configured state directories if missing.
// State directories are private to the operator.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.State, c.Paths.Transcripts} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0700); err != nil {
			return fmt.Errorf("config: creating %s: %w", path, err)
		}
	}
	return nil
}
