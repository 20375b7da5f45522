package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewMembersCommand creates the members command group.
func NewMembersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "members",
		Aliases: []string{"member"},
		Short:   "Look up Crossref member organizations",
	}

	cmd.AddCommand(newMembersListCommand())
	cmd.AddCommand(newMembersGetCommand())
	cmd.AddCommand(newMembersWorksCommand())

	return cmd
}

func newMembersListCommand() *cobra.Command {
	var (
		query   string
		rows    int
		offset  int
		filters []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := buildListParams(query, rows, offset, "", "", filters, nil)

			members, err := client.Members().List(context.Background(), params)
			if err != nil {
				return err
			}

			return renderOutput(members, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Location", "Prefixes")

				for i := range members.Items {
					member := &members.Items[i]
					_ = table.Append(
						strconv.Itoa(member.ID),
						truncate(member.PrimaryName, 50),
						truncate(member.Location, 40),
						truncate(strings.Join(member.Prefixes, ", "), 30),
					)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				fmt.Printf("\nShowing %d of %d results\n", len(members.Items), members.TotalResults)

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text query")
	cmd.Flags().IntVar(&rows, "rows", 0, "number of results per page")
	cmd.Flags().IntVar(&offset, "offset", 0, "result offset")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "filter as name:value (repeatable)")

	return cmd
}

func newMembersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get a member by numeric ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid member ID %q: %w", args[0], err)
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			member, err := client.Members().Get(context.Background(), id)
			if err != nil {
				return err
			}

			return renderOutput(member, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")

				_ = table.Append("ID", strconv.Itoa(member.ID))
				_ = table.Append("Name", member.PrimaryName)
				_ = table.Append("Location", member.Location)
				_ = table.Append("Prefixes", strings.Join(member.Prefixes, ", "))
				_ = table.Append("Total Works", strconv.Itoa(member.Counts["total-dois"]))

				return table.Render()
			})
		},
	}
}

func newMembersWorksCommand() *cobra.Command {
	var (
		rows    int
		filters []string
	)

	cmd := &cobra.Command{
		Use:   "works ID",
		Short: "List works registered by a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid member ID %q: %w", args[0], err)
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := buildListParams("", rows, 0, "", "", filters, nil)

			works, err := client.Members().Works(context.Background(), id, params)
			if err != nil {
				return err
			}

			return renderOutput(works, func() error {
				return renderWorksTable(works)
			})
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "number of results per page")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "filter as name:value (repeatable)")

	return cmd
}
