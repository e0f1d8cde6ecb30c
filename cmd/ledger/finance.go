package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/workshop-ledger/internal/cli"
	"github.com/Veraticus/workshop-ledger/internal/finance"
)

func financeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finance <workshop-id>",
		Short: "Show a workshop's revenue, costs and margin",
		Long: `Show a workshop's paid revenue against its ad spend and other costs.

Only registrations marked paid count as revenue. The ad spend defaults to the
one in the latest saved snapshot; --save records the figures as a new one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			save, _ := cmd.Flags().GetBool("save")
			metaFlag, _ := cmd.Flags().GetString("meta-spend")

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

			metaSpend := finance.LatestMetaSpend(snapshots)
			if metaFlag != "" {
				if metaSpend, err = parseRupees(metaFlag); err != nil {
					return err
				}
			}

			summary := finance.Compute(registrations, metaSpend, costs)

			var b strings.Builder
			fmt.Fprintf(&b, "Registrations:  %d paid (%.0f%%), %d unpaid, %d pending\n",
				summary.PaidCount, summary.PaidPercent, summary.UnpaidCount, summary.PendingCount)
			fmt.Fprintf(&b, "Revenue:        %s\n", finance.FormatRupees(summary.Revenue))
			fmt.Fprintf(&b, "Avg payment:    %s\n", finance.FormatRupees(summary.AvgPayment))
			fmt.Fprintf(&b, "Meta spend:     %s\n", finance.FormatRupees(summary.MetaSpend))
			fmt.Fprintf(&b, "Other costs:    %s\n", finance.FormatRupees(summary.OtherCostsTotal))
			fmt.Fprintf(&b, "Total costs:    %s\n", finance.FormatRupees(summary.TotalCosts))
			fmt.Fprintf(&b, "Profit:         %s\n", finance.FormatRupees(summary.Profit))
			fmt.Fprintf(&b, "Margin:         %s", cli.FormatHealth(string(summary.Health()), fmt.Sprintf("%.1f%%", summary.ProfitMargin)))

			fmt.Println(cli.RenderBox(cli.MoneyIcon+" "+workshop.Title, b.String()))
			if line := followUpLine(finance.FollowUpsFor(registrations)); line != "" {
				fmt.Println(cli.FormatWarning(line))
			}

			if save {
				snapshot := summary.Snapshot(workshop.ID)
				if err := store.CreateFinancialSnapshot(ctx, snapshot); err != nil {
					return fmt.Errorf("failed to save snapshot: %w", err)
				}
				fmt.Println(cli.FormatSuccess("Saved snapshot " + snapshot.ID))
			}
			return nil
		},
	}

	cmd.Flags().String("meta-spend", "", "ad spend in rupees (default: latest snapshot)")
	cmd.Flags().Bool("save", false, "record these figures as a snapshot")

	return cmd
}

func snapshotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots <workshop-id>",
		Short: "List a workshop's saved financial snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			snapshots, err := store.GetFinancialSnapshots(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get snapshots: %w", err)
			}
			if len(snapshots) == 0 {
				fmt.Println(cli.InfoStyle.Render("No snapshots yet. Save one with 'ledger finance " + args[0] + " --save'."))
				return nil
			}

			rows := make([][]string, 0, len(snapshots))
			for _, s := range snapshots {
				rows = append(rows, []string{
					s.CreatedAt.Local().Format("2006-01-02 15:04"),
					finance.FormatRupees(s.Revenue),
					finance.FormatRupees(s.MetaSpend),
					finance.FormatRupees(s.OtherCostsTotal),
					finance.FormatRupees(s.Profit),
					cli.FormatHealth(string(finance.HealthFor(s.ProfitMargin)), fmt.Sprintf("%.1f%%", s.ProfitMargin)),
				})
			}

			fmt.Println(cli.RenderTable([]string{"Taken", "Revenue", "Meta", "Other", "Profit", "Margin"}, rows))
			return nil
		},
	}
}

// followUpLine summarizes who still owes payment, or returns "" when nobody does.
func followUpLine(f finance.FollowUps) string {
	n := len(f.Registrations)
	if n == 0 {
		return ""
	}

	line := fmt.Sprintf("%d people need follow-up", n)
	if n == 1 {
		line = "1 person needs follow-up"
	}
	for _, part := range []struct {
		label string
		count int
	}{
		{"pending", f.Pending},
		{"unpaid", f.Declined},
		{"other", f.Other},
	} {
		if part.count > 0 {
			line += fmt.Sprintf(" • %d %s", part.count, part.label)
		}
	}
	return line
}
