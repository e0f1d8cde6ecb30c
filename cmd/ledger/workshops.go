package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/workshop-ledger/internal/cli"
	"github.com/Veraticus/workshop-ledger/internal/common"
	"github.com/Veraticus/workshop-ledger/internal/finance"
	"github.com/Veraticus/workshop-ledger/internal/model"
	"github.com/Veraticus/workshop-ledger/internal/sheets"
)

func workshopsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workshops",
		Aliases: []string{"workshop", "ws"},
		Short:   "Manage workshops",
		Long:    `Create workshops, link their registration sheets, and see how each one is doing.`,
	}

	cmd.AddCommand(workshopsAddCmd())
	cmd.AddCommand(workshopsListCmd())
	cmd.AddCommand(workshopsShowCmd())
	cmd.AddCommand(workshopsSetSheetCmd())
	cmd.AddCommand(workshopsSetStatusCmd())

	return cmd
}

func workshopsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a workshop",
		Args:  cobra.ExactArgs(1),
		Example: `  ledger workshops add "Pottery Basics" --date 2026-11-02 --price 1500
  ledger workshops add "Block Printing" --date 2026-11-09 --sheet https://docs.google.com/spreadsheets/d/...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dateFlag, _ := cmd.Flags().GetString("date")
			priceFlag, _ := cmd.Flags().GetString("price")
			sheetURL, _ := cmd.Flags().GetString("sheet")

			date, err := parseDate(dateFlag)
			if err != nil {
				return err
			}
			var price float64
			if priceFlag != "" {
				if price, err = parseRupees(priceFlag); err != nil {
					return err
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			workshop := &model.Workshop{
				Title:       strings.TrimSpace(args[0]),
				Date:        date,
				TicketPrice: price,
				SheetURL:    strings.TrimSpace(sheetURL),
				Status:      model.WorkshopUpcoming,
			}
			if err := store.CreateWorkshop(ctx, workshop); err != nil {
				return fmt.Errorf("failed to create workshop: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created workshop %q (ID: %s)", workshop.Title, workshop.ID)))
			if !workshop.HasSheet() {
				fmt.Println(cli.FormatInfo("Link a registration sheet with: ledger workshops set-sheet " + workshop.ID + " <url>"))
			}
			return nil
		},
	}

	cmd.Flags().String("date", "", "workshop date (YYYY-MM-DD)")
	cmd.Flags().String("price", "", "ticket price in rupees")
	cmd.Flags().String("sheet", "", "registration sheet URL")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func workshopsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workshops with registrations and margin health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			workshops, err := store.GetWorkshops(ctx)
			if err != nil {
				return fmt.Errorf("failed to get workshops: %w", err)
			}
			if len(workshops) == 0 {
				fmt.Println(cli.InfoStyle.Render("No workshops yet. Use 'ledger workshops add' to create one."))
				return nil
			}

			rows := make([][]string, 0, len(workshops))
			for _, w := range workshops {
				registrations, err := store.GetRegistrations(ctx, w.ID)
				if err != nil {
					return fmt.Errorf("failed to get registrations for %s: %w", w.ID, err)
				}
				snapshots, err := store.GetFinancialSnapshots(ctx, w.ID)
				if err != nil {
					return fmt.Errorf("failed to get snapshots for %s: %w", w.ID, err)
				}

				overview := finance.NewOverview(w, len(registrations), snapshots)
				margin := "-"
				if len(snapshots) > 0 {
					margin = cli.FormatHealth(string(overview.Health), fmt.Sprintf("%.1f%%", overview.ProfitMargin))
				}
				rows = append(rows, []string{
					w.ID,
					w.Title,
					w.Date.Format(dateLayout),
					string(w.Status),
					fmt.Sprintf("%d", overview.Registered),
					margin,
					formatTime(w.LastSyncedAt),
				})
			}

			fmt.Println(cli.RenderTable(
				[]string{"ID", "Title", "Date", "Status", "Registered", "Margin", "Last Sync"},
				rows))
			return nil
		},
	}
}

func workshopsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <workshop-id>",
		Short: "Show one workshop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			workshop, err := store.GetWorkshop(ctx, args[0])
			if err != nil {
				return explainSyncError(err)
			}
			registrations, err := store.GetRegistrations(ctx, workshop.ID)
			if err != nil {
				return fmt.Errorf("failed to get registrations: %w", err)
			}
			costs, err := store.GetOtherCosts(ctx, workshop.ID)
			if err != nil {
				return fmt.Errorf("failed to get costs: %w", err)
			}
			snapshots, err := store.GetFinancialSnapshots(ctx, workshop.ID)
			if err != nil {
				return fmt.Errorf("failed to get snapshots: %w", err)
			}

			summary := finance.Compute(registrations, finance.LatestMetaSpend(snapshots), costs)

			var b strings.Builder
			fmt.Fprintf(&b, "ID:          %s\n", workshop.ID)
			fmt.Fprintf(&b, "Date:        %s\n", workshop.Date.Format(dateLayout))
			fmt.Fprintf(&b, "Status:      %s\n", workshop.Status)
			fmt.Fprintf(&b, "Ticket:      %s\n", finance.FormatRupees(workshop.TicketPrice))
			fmt.Fprintf(&b, "Sheet:       %s\n", cli.OrDash(&workshop.SheetURL))
			fmt.Fprintf(&b, "Last sync:   %s\n", formatTime(workshop.LastSyncedAt))
			fmt.Fprintf(&b, "Registered:  %d (%d paid, %d unpaid)\n", len(registrations), summary.PaidCount, summary.UnpaidCount)
			fmt.Fprintf(&b, "Revenue:     %s\n", finance.FormatRupees(summary.Revenue))
			fmt.Fprintf(&b, "Profit:      %s", cli.FormatHealth(string(summary.Health()),
				fmt.Sprintf("%s (%.1f%%)", finance.FormatRupees(summary.Profit), summary.ProfitMargin)))

			fmt.Println(cli.RenderBox(workshop.Title, b.String()))
			return nil
		},
	}
}

func workshopsSetSheetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-sheet <workshop-id> <sheet-url>",
		Short: "Link a registration sheet to a workshop",
		Long: `Link a registration sheet to a workshop. Pass an empty URL ("") to unlink it.

With the api source the URL must be a Google Sheets document URL.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sheetURL := strings.TrimSpace(args[1])

			if sheetURL != "" && strings.Contains(sheetURL, "docs.google.com/spreadsheets") {
				if _, err := sheets.SpreadsheetID(sheetURL); err != nil {
					return common.NewUserError("that does not look like a Google Sheets URL", err)
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			workshop, err := store.GetWorkshop(ctx, args[0])
			if err != nil {
				return explainSyncError(err)
			}
			workshop.SheetURL = sheetURL
			if err := store.UpdateWorkshop(ctx, workshop); err != nil {
				return fmt.Errorf("failed to update workshop: %w", err)
			}

			if sheetURL == "" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Unlinked the sheet from %q", workshop.Title)))
				return nil
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Linked %q to its registration sheet", workshop.Title)))
			fmt.Println(cli.FormatInfo("Sync it with: ledger sync " + workshop.ID))
			return nil
		},
	}
}

func workshopsSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "set-status <workshop-id> <upcoming|completed|cancelled>",
		Short:     "Change a workshop's status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(model.WorkshopUpcoming), string(model.WorkshopCompleted), string(model.WorkshopCancelled)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			status := model.WorkshopStatus(strings.ToLower(strings.TrimSpace(args[1])))
			if !status.IsValid() {
				return fmt.Errorf("invalid status %q: expected upcoming, completed or cancelled", args[1])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			workshop, err := store.GetWorkshop(ctx, args[0])
			if err != nil {
				return explainSyncError(err)
			}
			workshop.Status = status
			if err := store.UpdateWorkshop(ctx, workshop); err != nil {
				return fmt.Errorf("failed to update workshop: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%q is now %s", workshop.Title, status)))
			return nil
		},
	}
}
