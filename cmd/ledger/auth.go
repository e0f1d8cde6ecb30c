package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/workshop-ledger/internal/cli"
	"github.com/Veraticus/workshop-ledger/internal/common"
	"github.com/Veraticus/workshop-ledger/internal/config"
	"github.com/Veraticus/workshop-ledger/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authorize read access to Google Sheets",
		Long: `Authorize ledger to read your Google Sheets with OAuth2.

This is only needed for sheets.source "api" without a service account.
It opens your browser, waits for Google's redirect, and stores the refresh
token in your config file as sheets.refresh_token.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 client secret (overrides config)")
	cmd.Flags().String("callback", "", "address for the local redirect listener (default localhost:8085)")
	cmd.Flags().Bool("no-browser", false, "print the consent URL instead of opening it")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")
	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if clientID == "" || clientSecret == "" {
		return common.NewUserError(
			"set sheets.client_id and sheets.client_secret, or pass --client-id and --client-secret",
			common.ErrMissingConfig)
	}

	callback, _ := cmd.Flags().GetString("callback")
	noBrowser, _ := cmd.Flags().GetBool("no-browser")

	oauthConfig := sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    config.TokenPath(),
		CallbackAddr: callback,
	}

	showURL := func(url string) {
		fmt.Println(cli.FormatInfo("Open this URL to authorize ledger:"))
		fmt.Println(url)
		if !noBrowser {
			openBrowser(url)
		}
	}

	token, err := sheets.Authenticate(ctx, oauthConfig, showURL, slog.Default())
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	viper.Set("sheets.refresh_token", token.RefreshToken)
	if err := saveConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		fmt.Println(cli.FormatWarning("Could not save the refresh token. Add this to your config.yaml:"))
		fmt.Printf("sheets:\n  refresh_token: %q\n", token.RefreshToken)
		return nil
	}

	fmt.Println(cli.FormatSuccess("Google Sheets authorized. Set sheets.source to \"api\" to use it."))
	return nil
}

func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = filepath.Join(config.ConfigDir(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}

// openBrowser tries to open the URL in the default browser.
func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start() //nolint:gosec // fixed binary, URL from oauth2
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start() //nolint:gosec // fixed binary, URL from oauth2
	case "darwin":
		err = exec.Command("open", url).Start() //nolint:gosec // fixed binary, URL from oauth2
	}
	if err != nil {
		slog.Debug("Failed to open browser", "error", err)
	}
}
