package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		config  Config
		wantErr bool
	}{
		{
			name:    "proxy with endpoint",
			config:  Config{Source: SourceProxy, ProxyEndpoint: "https://script.google.com/macros/s/abc/exec"},
			wantErr: false,
		},
		{
			name:    "proxy without endpoint",
			config:  Config{Source: SourceProxy},
			wantErr: true,
			errMsg:  "no proxy endpoint configured",
		},
		{
			name:    "proxy endpoint must be http",
			config:  Config{Source: SourceProxy, ProxyEndpoint: "ftp://example.com/sheet"},
			wantErr: true,
			errMsg:  "must be an http(s) URL",
		},
		{
			name: "api with partial oauth credentials",
			config: Config{
				Source:       SourceAPI,
				ClientID:     "test-client",
				RefreshToken: "test-token",
				Range:        "A:Z",
			},
			wantErr: true,
			errMsg:  "no authentication method configured",
		},
		{
			name: "api with both auth methods",
			config: Config{
				Source:             SourceAPI,
				ClientID:           "id",
				ClientSecret:       "secret",
				RefreshToken:       "token",
				ServiceAccountPath: "/path/to/key.json",
				Range:              "A:Z",
			},
			wantErr: true,
			errMsg:  "multiple authentication methods",
		},
		{
			name:    "api with service account",
			config:  Config{Source: SourceAPI, ServiceAccountPath: "/path/to/key.json", Range: "A:Z"},
			wantErr: false,
		},
		{
			name:    "api without range",
			config:  Config{Source: SourceAPI, ServiceAccountPath: "/path/to/key.json"},
			wantErr: true,
			errMsg:  "range cannot be empty",
		},
		{
			name:    "file needs nothing",
			config:  Config{Source: SourceFile},
			wantErr: false,
		},
		{
			name:    "unknown source",
			config:  Config{Source: "ftp"},
			wantErr: true,
			errMsg:  "unknown sheet source",
		},
		{
			name:    "negative timeout",
			config:  Config{Source: SourceFile, Timeout: -1 * time.Second},
			wantErr: true,
			errMsg:  "timeout cannot be negative",
		},
		{
			name:    "negative rate",
			config:  Config{Source: SourceFile, RequestsPerSecond: -2},
			wantErr: true,
			errMsg:  "requests per second cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSelectProxyEndpoint(t *testing.T) {
	const script = "https://script.google.com/macros/s/abc/exec"

	tests := []struct {
		name     string
		env      string
		explicit string
		want     string
	}{
		{name: "development uses local proxy", env: "development", want: DefaultLocalProxyBase},
		{name: "dev alias", env: " DEV ", want: DefaultLocalProxyBase},
		{name: "production calls script", env: "production", want: script},
		{name: "unset env calls script", env: "", want: script},
		{name: "explicit endpoint wins", env: "development", explicit: "http://proxy.internal/gsheet", want: "http://proxy.internal/gsheet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ScriptURL = script
			cfg.ProxyEndpoint = tt.explicit

			cfg.SelectProxyEndpoint(tt.env)

			assert.Equal(t, tt.want, cfg.ProxyEndpoint)
		})
	}
}
