package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"

	"github.com/Veraticus/workshop-ledger/internal/sheets"
)

// LoadSheetsConfig loads the sheet source configuration. Precedence:
// 1. Viper configuration (from config file or LEDGER_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
//
// The proxy endpoint is selected for app.env before validation.
func LoadSheetsConfig() (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if v := viper.GetString("sheets.source"); v != "" {
		config.Source = sheets.Source(v)
	}
	if v := viper.GetString("sheets.proxy_endpoint"); v != "" {
		config.ProxyEndpoint = v
	}
	if v := viper.GetString("sheets.local_proxy_base"); v != "" {
		config.LocalProxyBase = v
	}
	if v := viper.GetString("sheets.script_url"); v != "" {
		config.ScriptURL = v
	}
	if v := viper.GetString("sheets.service_account_path"); v != "" {
		config.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		config.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		config.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		config.RefreshToken = v
	}
	if v := viper.GetString("sheets.range"); v != "" {
		config.Range = v
	}
	if v := viper.GetString("sheets.file_sheet"); v != "" {
		config.FileSheet = v
	}
	if viper.IsSet("sheets.timeout") {
		config.Timeout = viper.GetDuration("sheets.timeout")
	}
	if viper.IsSet("sheets.requests_per_second") {
		config.RequestsPerSecond = viper.GetFloat64("sheets.requests_per_second")
	}

	if config.ScriptURL == "" {
		config.ScriptURL = os.Getenv("GOOGLE_SHEETS_SCRIPT_URL")
	}
	if config.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			config.ServiceAccountPath = ExpandPath(v)
		}
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if config.RefreshToken == "" {
		config.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if config.Timeout == 0 {
		if v := os.Getenv("GOOGLE_SHEETS_TIMEOUT"); v != "" {
			seconds, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid GOOGLE_SHEETS_TIMEOUT %q: %w", v, err)
			}
			config.Timeout = secondsToDuration(seconds)
		}
	}
	if config.Timeout == 0 {
		config.Timeout = defaultFetchTimeout
	}

	config.SelectProxyEndpoint(viper.GetString("app.env"))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
