// Package sheets reads registration sheets from Google Sheets, through the
// Apps Script proxy, the Sheets API, or a local export.
package sheets

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Source selects where registration sheets are read from.
type Source string

const (
	// SourceProxy fetches through the Apps Script JSON proxy.
	SourceProxy Source = "proxy"
	// SourceAPI reads through the Google Sheets API.
	SourceAPI Source = "api"
	// SourceFile reads a local .xlsx or .csv export.
	SourceFile Source = "file"
)

// Environments recognized by SelectProxyEndpoint.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultLocalProxyBase is where `ledger proxy` serves the same-origin proxy.
const DefaultLocalProxyBase = "http://localhost:8080/api/gsheet"

// Config holds the configuration for reading registration sheets.
type Config struct {
	Source             Source
	ProxyEndpoint      string // Explicit endpoint; wins over environment selection
	LocalProxyBase     string
	ScriptURL          string // Deployed Apps Script exec URL
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	Range              string // A1 range read by the API source
	FileSheet          string // Worksheet read from .xlsx files; empty means the first
	Timeout            time.Duration
	RequestsPerSecond  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Source:         SourceProxy,
		LocalProxyBase: DefaultLocalProxyBase,
		Range:          "A:ZZ",
	}
}

// SelectProxyEndpoint picks the proxy endpoint for env once, at startup.
// Development builds go through the local same-origin proxy; everything else
// calls the deployed script directly. An explicit ProxyEndpoint is kept.
func (c *Config) SelectProxyEndpoint(env string) {
	if c.ProxyEndpoint != "" {
		return
	}

	switch strings.ToLower(strings.TrimSpace(env)) {
	case EnvDevelopment, "dev", "local":
		c.ProxyEndpoint = c.LocalProxyBase
	default:
		c.ProxyEndpoint = c.ScriptURL
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceProxy:
		if c.ProxyEndpoint == "" {
			return fmt.Errorf("no proxy endpoint configured; set sheets.proxy_endpoint or sheets.script_url")
		}
		u, err := url.Parse(c.ProxyEndpoint)
		if err != nil {
			return fmt.Errorf("invalid proxy endpoint: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("proxy endpoint must be an http(s) URL: %s", c.ProxyEndpoint)
		}
	case SourceAPI:
		hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
		hasServiceAccount := c.ServiceAccountPath != ""

		if !hasOAuth && !hasServiceAccount {
			return fmt.Errorf("no authentication method configured")
		}
		if hasOAuth && hasServiceAccount {
			return fmt.Errorf("multiple authentication methods configured; use either OAuth2 or service account")
		}
		if c.Range == "" {
			return fmt.Errorf("sheet range cannot be empty")
		}
	case SourceFile:
	default:
		return fmt.Errorf("unknown sheet source %q", c.Source)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second cannot be negative")
	}

	return nil
}
