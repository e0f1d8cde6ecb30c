package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/workshop-ledger/internal/cli"
	"github.com/Veraticus/workshop-ledger/internal/common"
	"github.com/Veraticus/workshop-ledger/internal/proxy"
)

func proxyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Serve the local sheet proxy used in development",
		Long: `Serve GET /api/gsheet?url=<sheet-url> and forward it to the Apps Script
endpoint in sheets.script_url (or GOOGLE_SHEETS_SCRIPT_URL).

With app.env set to development the fetcher calls this proxy at
sheets.local_proxy_base instead of the script itself.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			addr, _ := cmd.Flags().GetString("addr")

			target := viper.GetString("sheets.script_url")
			if target == "" {
				target = os.Getenv("GOOGLE_SHEETS_SCRIPT_URL")
			}
			if target == "" {
				return common.NewUserError("set sheets.script_url to the Apps Script exec URL", common.ErrMissingConfig)
			}

			handler, err := proxy.NewHandler(target, slog.Default())
			if err != nil {
				return err
			}
			server := proxy.NewServer(addr, handler)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()

			fmt.Println(cli.FormatInfo(fmt.Sprintf("Proxying http://%s%s to %s", addr, proxy.SheetPath, target)))

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("proxy server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down proxy: %w", err)
			}
			slog.Info("Proxy stopped")
			return nil
		},
	}

	cmd.Flags().String("addr", "localhost:8080", "address to listen on")

	return cmd
}
