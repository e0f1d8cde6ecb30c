package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/workshop-ledger/internal/cli"
	"github.com/Veraticus/workshop-ledger/internal/finance"
)

func registrationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "registrations <workshop-id>",
		Aliases: []string{"regs"},
		Short:   "List a workshop's stored registrations",
		Args:    cobra.ExactArgs(1),
		Example: `  ledger registrations 3f2a... --status unpaid
  ledger registrations 3f2a... --search asha`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			search, _ := cmd.Flags().GetString("search")
			statusFlag, _ := cmd.Flags().GetString("status")

			status, err := finance.ParseStatusFilter(statusFlag)
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
			registrations, err := store.GetRegistrations(ctx, workshop.ID)
			if err != nil {
				return fmt.Errorf("failed to get registrations: %w", err)
			}
			if len(registrations) == 0 {
				fmt.Println(cli.InfoStyle.Render("No registrations yet. Run 'ledger sync " + workshop.ID + "' to pull them."))
				return nil
			}

			shown := finance.Filter{Search: search, Status: status}.Apply(registrations)

			fmt.Println(cli.FormatTitle(workshop.Title))
			if len(shown) > 0 {
				rows := make([][]string, 0, len(shown))
				for _, r := range shown {
					rows = append(rows, []string{
						strconv.Itoa(r.RawRowIndex),
						cli.OrDash(r.FullName),
						cli.OrDash(r.Phone),
						cli.OrDash(r.Email),
						cli.OrDash(r.PaymentConfirmed),
						finance.FormatRupees(r.AmountRs),
						cli.OrDash(r.Notes),
					})
				}
				fmt.Println(cli.RenderTable([]string{"Row", "Name", "Phone", "Email", "Payment", "Amount", "Notes"}, rows))
			}
			fmt.Println(cli.SubtleStyle.Render(showingCount(len(shown), len(registrations))))
			return nil
		},
	}

	cmd.Flags().String("search", "", "only show registrants whose name or phone contains this text")
	cmd.Flags().String("status", "all", "payment status to show: "+statusFilterNames())
	cmd.AddCommand(registrationsClearCmd())

	return cmd
}

func showingCount(shown, total int) string {
	return fmt.Sprintf("Showing %d of %d registrations", shown, total)
}

func statusFilterNames() string {
	names := make([]string, 0, len(finance.StatusFilters))
	for _, f := range finance.StatusFilters {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func registrationsClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear <workshop-id>",
		Short: "Delete every stored registration of a workshop",
		Long: `Delete every stored registration of a workshop. The sheet itself is not
touched; sync again to reload it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			force, _ := cmd.Flags().GetBool("force")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			workshop, err := store.GetWorkshop(ctx, args[0])
			if err != nil {
				return explainSyncError(err)
			}

			if !force {
				fmt.Printf("Delete all registrations of %q? (y/N): ", workshop.Title)
				var answer string
				_, _ = fmt.Scanln(&answer)
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Println("Clear cancelled.")
					return nil
				}
			}

			deleted, err := store.DeleteRegistrationsByWorkshop(ctx, workshop.ID)
			if err != nil {
				return fmt.Errorf("failed to clear registrations: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted %d registrations of %q", deleted, workshop.Title)))
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "skip the confirmation prompt")

	return cmd
}
