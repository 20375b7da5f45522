package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewTypesCommand creates the types command group.
func NewTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Look up registered content types",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List content types",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			types, err := client.Types().List(context.Background())
			if err != nil {
				return err
			}

			return renderOutput(types, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Label")

				for i := range types.Items {
					_ = table.Append(types.Items[i].ID, types.Items[i].Label)
				}

				return table.Render()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "Get a content type by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			workType, err := client.Types().Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			return renderOutput(workType, func() error {
				fmt.Printf("%s: %s\n", workType.ID, workType.Label)

				return nil
			})
		},
	})

	return cmd
}

// NewPrefixesCommand creates the prefixes command group.
func NewPrefixesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prefixes",
		Aliases: []string{"prefix"},
		Short:   "Look up owner prefixes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get PREFIX",
		Short: "Get the owner of a DOI prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			prefix, err := client.Prefixes().Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			return renderOutput(prefix, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")

				_ = table.Append("Prefix", prefix.Prefix)
				_ = table.Append("Name", prefix.Name)
				_ = table.Append("Member", prefix.Member)

				return table.Render()
			})
		},
	})

	cmd.AddCommand(newPrefixWorksCommand())

	return cmd
}

func newPrefixWorksCommand() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "works PREFIX",
		Short: "List works registered under a DOI prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := buildListParams("", rows, 0, "", "", nil, nil)

			works, err := client.Prefixes().Works(context.Background(), args[0], params)
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

// NewLicensesCommand creates the licenses command group.
func NewLicensesCommand() *cobra.Command {
	var (
		query string
		rows  int
	)

	cmd := &cobra.Command{
		Use:   "licenses",
		Short: "List licenses attached to registered works",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := buildListParams(query, rows, 0, "", "", nil, nil)

			licenses, err := client.Licenses().List(context.Background(), params)
			if err != nil {
				return err
			}

			return renderOutput(licenses, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("URL", "Works")

				for i := range licenses.Items {
					license := &licenses.Items[i]
					_ = table.Append(truncate(license.URL, 70), strconv.Itoa(license.WorkCount))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				fmt.Printf("\nShowing %d of %d results\n", len(licenses.Items), licenses.TotalResults)

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text query")
	cmd.Flags().IntVar(&rows, "rows", 0, "number of results per page")

	return cmd
}
