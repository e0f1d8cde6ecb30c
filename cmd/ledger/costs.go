package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/workshop-ledger/internal/cli"
	"github.com/Veraticus/workshop-ledger/internal/finance"
	"github.com/Veraticus/workshop-ledger/internal/model"
)

func costsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Manage a workshop's other costs",
		Long:  `Track venue, material and other costs that count against a workshop's revenue.`,
	}

	cmd.AddCommand(costsAddCmd())
	cmd.AddCommand(costsListCmd())
	cmd.AddCommand(costsUpdateCmd())
	cmd.AddCommand(costsDeleteCmd())

	return cmd
}

func costsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <workshop-id> <label> <amount>",
		Short:   "Add a cost to a workshop",
		Example: `  ledger costs add 3f2a... "Venue" 4000`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseRupees(args[2])
			if err != nil {
				return err
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

			cost := &model.OtherCost{
				WorkshopID: workshop.ID,
				Label:      strings.TrimSpace(args[1]),
				Amount:     amount,
			}
			if err := store.CreateOtherCost(ctx, cost); err != nil {
				return fmt.Errorf("failed to add cost: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s (%s) to %q (ID: %s)",
				cost.Label, finance.FormatRupees(cost.Amount), workshop.Title, cost.ID)))
			return nil
		},
	}
}

func costsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <workshop-id>",
		Short: "List a workshop's costs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			costs, err := store.GetOtherCosts(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get costs: %w", err)
			}
			if len(costs) == 0 {
				fmt.Println(cli.InfoStyle.Render("No costs recorded. Use 'ledger costs add' to add one."))
				return nil
			}

			var total float64
			rows := make([][]string, 0, len(costs)+1)
			for _, c := range costs {
				total += c.Amount
				rows = append(rows, []string{c.ID, c.Label, finance.FormatRupees(c.Amount)})
			}
			rows = append(rows, []string{"", cli.BoldStyle.Render("Total"), cli.BoldStyle.Render(finance.FormatRupees(total))})

			fmt.Println(cli.RenderTable([]string{"ID", "Label", "Amount"}, rows))
			return nil
		},
	}
}

func costsUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <cost-id> <label> <amount>",
		Short: "Change a cost's label and amount",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseRupees(args[2])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cost, err := store.UpdateOtherCost(ctx, args[0], strings.TrimSpace(args[1]), amount)
			if err != nil {
				return fmt.Errorf("failed to update cost: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated %s to %s", cost.Label, finance.FormatRupees(cost.Amount))))
			return nil
		},
	}
}

func costsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <cost-id>",
		Short: "Delete a cost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteOtherCost(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete cost: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Deleted cost " + args[0]))
			return nil
		},
	}
}
