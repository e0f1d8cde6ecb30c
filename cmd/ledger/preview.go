package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/workshop-ledger/internal/cli"
	"github.com/Veraticus/workshop-ledger/internal/finance"
	"github.com/Veraticus/workshop-ledger/internal/ingest"
)

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <sheet-url>",
		Short: "Show how a sheet would be read, without storing anything",
		Long: `Fetch a sheet and print the column each field was matched to, followed by
the registrations a sync would store.

Use this to check a new sheet before linking it to a workshop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")

			fetcher, err := newFetcher(ctx)
			if err != nil {
				return err
			}
			parser, err := newParser()
			if err != nil {
				return err
			}

			table, err := fetcher.Fetch(ctx, args[0])
			if err != nil {
				return explainSyncError(err)
			}
			cols, registrations := parser.Parse(table)
			header := ingest.NormalizeHeaders(table.Header())

			columnRows := make([][]string, 0, len(ingest.Fields))
			for _, field := range ingest.Fields {
				idx := cols.Index(field)
				column, heading := "unresolved", "-"
				if idx >= 0 {
					column = strconv.Itoa(idx)
					if idx < len(header) && header[idx] != "" {
						heading = header[idx]
					}
				}
				columnRows = append(columnRows, []string{string(field), column, heading})
			}
			fmt.Println(cli.FormatTitle("Columns"))
			fmt.Println(cli.RenderTable([]string{"Field", "Column", "Header"}, columnRows))

			var rows [][]string
			total := 0
			for reg := range registrations {
				total++
				if limit > 0 && len(rows) >= limit {
					continue
				}
				rows = append(rows, []string{
					strconv.Itoa(reg.RowIndex),
					cli.OrDash(reg.FullName),
					cli.OrDash(reg.Phone),
					cli.OrDash(reg.Email),
					cli.OrDash(reg.PaymentConfirmed),
					finance.FormatRupees(reg.AmountRs),
					cli.OrDash(reg.Notes),
				})
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Registrations (%d of %d data rows)", total, len(table.DataRows()))))
			if total == 0 {
				fmt.Println(cli.InfoStyle.Render("Every data row is blank."))
				return nil
			}
			fmt.Println(cli.RenderTable([]string{"Row", "Name", "Phone", "Email", "Payment", "Amount", "Notes"}, rows))
			if len(rows) < total {
				fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d more not shown; raise --limit to see them", total-len(rows))))
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum registrations to print (0 for all)")

	return cmd
}
