package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/workshop-ledger/internal/ingest"
	"github.com/Veraticus/workshop-ledger/internal/sheets"
)

const scriptURL = "https://script.google.com/macros/s/deploy/exec"

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	for _, key := range []string{
		"GOOGLE_SHEETS_SCRIPT_URL",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("LEDGER_TEST_DIR", "/srv/ledger")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "data", "ledger.db"), ExpandPath("~/data/ledger.db"))
	assert.Equal(t, "/srv/ledger/ledger.db", ExpandPath("$LEDGER_TEST_DIR/ledger.db"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
}

func TestDefaultPathsHonorXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")

	assert.Equal(t, "/xdg/data/ledger/ledger.db", DefaultDatabasePath())
	assert.Equal(t, "/xdg/config/ledger", ConfigDir())
	assert.Equal(t, "/xdg/config/ledger/sheets-token.json", TokenPath())
}

func TestLoadSheetsConfig(t *testing.T) {
	t.Run("production calls script directly", func(t *testing.T) {
		resetViper(t)
		viper.Set("sheets.script_url", scriptURL)
		viper.Set("app.env", "production")

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, sheets.SourceProxy, cfg.Source)
		assert.Equal(t, scriptURL, cfg.ProxyEndpoint)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})

	t.Run("development goes through local proxy", func(t *testing.T) {
		resetViper(t)
		viper.Set("sheets.script_url", scriptURL)
		viper.Set("app.env", "development")

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, sheets.DefaultLocalProxyBase, cfg.ProxyEndpoint)
	})

	t.Run("env fallback", func(t *testing.T) {
		resetViper(t)
		t.Setenv("GOOGLE_SHEETS_SCRIPT_URL", scriptURL)
		t.Setenv("GOOGLE_SHEETS_TIMEOUT", "5")

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, scriptURL, cfg.ProxyEndpoint)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("viper wins over env", func(t *testing.T) {
		resetViper(t)
		t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "env-id")
		viper.Set("sheets.source", "api")
		viper.Set("sheets.client_id", "viper-id")
		viper.Set("sheets.client_secret", "secret")
		viper.Set("sheets.refresh_token", "token")

		cfg, err := LoadSheetsConfig()
		require.NoError(t, err)
		assert.Equal(t, "viper-id", cfg.ClientID)
	})

	t.Run("bad timeout", func(t *testing.T) {
		resetViper(t)
		viper.Set("sheets.script_url", scriptURL)
		t.Setenv("GOOGLE_SHEETS_TIMEOUT", "soon")

		_, err := LoadSheetsConfig()
		assert.ErrorContains(t, err, "GOOGLE_SHEETS_TIMEOUT")
	})

	t.Run("nothing configured", func(t *testing.T) {
		resetViper(t)

		_, err := LoadSheetsConfig()
		assert.ErrorContains(t, err, "no proxy endpoint configured")
	})
}

func TestLoadSyncConfig(t *testing.T) {
	resetViper(t)

	cfg, err := LoadSyncConfig()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 1, cfg.Retry.MaxAttempts)
	assert.Equal(t, "@every 30m", cfg.Schedule)

	viper.Set("sync.concurrency", 8)
	viper.Set("sync.retries", 3)
	viper.Set("sync.schedule", "0 */2 * * *")
	cfg, err = LoadSyncConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, "0 */2 * * *", cfg.Schedule)

	viper.Set("sync.concurrency", 0)
	_, err = LoadSyncConfig()
	assert.Error(t, err)
}

func TestLoadColumnLayout(t *testing.T) {
	resetViper(t)

	layout, err := LoadColumnLayout()
	require.NoError(t, err)
	assert.Equal(t, ingest.DefaultLayout(), layout)

	viper.Set("columns.phone.variants", []string{"Mobile No", " ", "WhatsApp"})
	viper.Set("columns.notes.fallback", -1)
	layout, err = LoadColumnLayout()
	require.NoError(t, err)
	assert.Equal(t, []string{"Mobile No", "WhatsApp"}, layout[ingest.FieldPhone].Variants)
	assert.Equal(t, ingest.DefaultLayout()[ingest.FieldPhone].Fallback, layout[ingest.FieldPhone].Fallback)
	assert.Equal(t, ingest.Unresolved, layout[ingest.FieldNotes].Fallback)

	viper.Set("columns.email.fallback", -7)
	_, err = LoadColumnLayout()
	assert.Error(t, err)
}
