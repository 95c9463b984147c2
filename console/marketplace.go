// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
)

// Marketplace is an HTTP client for the external plugin marketplace.
// It is independent of the gateway connection; plugins are fetched by
// the console and then installed through gateway config operations.
type Marketplace struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// MarketplaceConfig configures a Marketplace client.
type MarketplaceConfig struct {
	// BaseURL is the marketplace endpoint, e.g.
	// "https://plugins.example.com".
	BaseURL string

	// HTTPClient overrides the HTTP client. Nil means a client with
	// Timeout applied.
	HTTPClient *http.Client

	// Timeout bounds each request when HTTPClient is nil. Zero means
	// 30 seconds.
	Timeout time.Duration

	// Logger receives structured log output. Nil means slog.Default().
	Logger *slog.Logger
}

// NewMarketplace creates a Marketplace client.
func NewMarketplace(config MarketplaceConfig) (*Marketplace, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("console: marketplace base URL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("console: invalid marketplace URL: %w", err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Marketplace{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// PluginSummary is one search result.
type PluginSummary struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Downloads   int64  `json:"downloads,omitempty"`
}

// Search queries the marketplace for plugins matching query.
func (m *Marketplace) Search(ctx context.Context, query string) ([]PluginSummary, error) {
	endpoint := m.baseURL + "/v1/plugins?q=" + url.QueryEscape(query)
	body, err := m.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var result struct {
		Plugins []PluginSummary `json:"plugins"`
	}
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("console: decoding search results: %w", err)
	}
	return result.Plugins, nil
}

// PluginManifest describes one installable plugin. Manifests are
// authored as JSONC so publishers can annotate them; comments are
// stripped before decoding.
type PluginManifest struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description,omitempty"`
	Author      string            `json:"author,omitempty"`
	Homepage    string            `json:"homepage,omitempty"`
	Entry       string            `json:"entry"`
	Requires    map[string]string `json:"requires,omitempty"`
}

// Manifest fetches and decodes a plugin's manifest.
func (m *Marketplace) Manifest(ctx context.Context, name string) (*PluginManifest, error) {
	if name == "" {
		return nil, fmt.Errorf("console: plugin name is required")
	}
	endpoint := m.baseURL + "/v1/plugins/" + url.PathEscape(name) + "/manifest.jsonc"
	body, err := m.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("console: reading manifest for %s: %w", name, err)
	}

	var manifest PluginManifest
	if err := json.Unmarshal(jsonc.ToJSON(raw), &manifest); err != nil {
		return nil, fmt.Errorf("console: parsing manifest for %s: %w", name, err)
	}
	if manifest.Name == "" || manifest.Version == "" {
		return nil, fmt.Errorf("console: manifest for %s is missing name or version", name)
	}
	return &manifest, nil
}

// Download streams a plugin archive into w and returns the byte
// count.
func (m *Marketplace) Download(ctx context.Context, name, version string, w io.Writer) (int64, error) {
	if name == "" || version == "" {
		return 0, fmt.Errorf("console: plugin name and version are required")
	}
	endpoint := m.baseURL + "/v1/plugins/" + url.PathEscape(name) + "/" + url.PathEscape(version) + "/archive"
	body, err := m.get(ctx, endpoint)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	written, err := io.Copy(w, body)
	if err != nil {
		return written, fmt.Errorf("console: downloading %s@%s: %w", name, version, err)
	}
	m.logger.Debug("plugin archive downloaded", "plugin", name, "version", version, "bytes", written)
	return written, nil
}

// get issues one GET and returns the body on a 200, closing it on any
// other status.
func (m *Marketplace) get(ctx context.Context, endpoint string) (io.ReadCloser, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("console: building marketplace request: %w", err)
	}
	response, err := m.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("console: marketplace request failed: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		response.Body.Close()
		return nil, fmt.Errorf("console: marketplace returned %d for %s: %s",
			response.StatusCode, endpoint, strings.TrimSpace(string(detail)))
	}
	return response.Body, nil
}
