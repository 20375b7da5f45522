package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewFundersCommand creates the funders command group.
func NewFundersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "funders",
		Aliases: []string{"funder"},
		Short:   "Look up funding bodies in the Funder Registry",
	}

	cmd.AddCommand(newFundersListCommand())
	cmd.AddCommand(newFundersGetCommand())
	cmd.AddCommand(newFundersWorksCommand())

	return cmd
}

func newFundersListCommand() *cobra.Command {
	var (
		query  string
		rows   int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List funders",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := buildListParams(query, rows, offset, "", "", nil, nil)

			funders, err := client.Funders().List(context.Background(), params)
			if err != nil {
				return err
			}

			return renderOutput(funders, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Location")

				for i := range funders.Items {
					funder := &funders.Items[i]
					_ = table.Append(funder.ID, truncate(funder.Name, 60), funder.Location)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				fmt.Printf("\nShowing %d of %d results\n", len(funders.Items), funders.TotalResults)

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text query")
	cmd.Flags().IntVar(&rows, "rows", 0, "number of results per page")
	cmd.Flags().IntVar(&offset, "offset", 0, "result offset")

	return cmd
}

func newFundersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get a funder by Funder Registry ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			funder, err := client.Funders().Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			return renderOutput(funder, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")

				_ = table.Append("ID", funder.ID)
				_ = table.Append("Name", funder.Name)
				_ = table.Append("URI", funder.URI)
				_ = table.Append("Location", funder.Location)

				return table.Render()
			})
		},
	}
}

func newFundersWorksCommand() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "works ID",
		Short: "List works funded by a funder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := buildListParams("", rows, 0, "", "", nil, nil)

			works, err := client.Funders().Works(context.Background(), args[0], params)
			if err != nil {
				return err
			}

			return renderOutput(works, func() error {
				return renderWorksTable(works)
			})
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "number of results per page")

	return cmd
}
