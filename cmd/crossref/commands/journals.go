package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewJournalsCommand creates the journals command group.
func NewJournalsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "journals",
		Aliases: []string{"journal"},
		Short:   "Look up journals by ISSN",
	}

	cmd.AddCommand(newJournalsListCommand())
	cmd.AddCommand(newJournalsGetCommand())
	cmd.AddCommand(newJournalsWorksCommand())

	return cmd
}

func newJournalsListCommand() *cobra.Command {
	var (
		query  string
		rows   int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journals",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := buildListParams(query, rows, offset, "", "", nil, nil)

			journals, err := client.Journals().List(context.Background(), params)
			if err != nil {
				return err
			}

			return renderOutput(journals, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ISSN", "Title", "Publisher")

				for i := range journals.Items {
					journal := &journals.Items[i]
					_ = table.Append(
						strings.Join(journal.ISSN, ", "),
						truncate(journal.Title, 50),
						truncate(journal.Publisher, 40),
					)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				fmt.Printf("\nShowing %d of %d results\n", len(journals.Items), journals.TotalResults)

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text query")
	cmd.Flags().IntVar(&rows, "rows", 0, "number of results per page")
	cmd.Flags().IntVar(&offset, "offset", 0, "result offset")

	return cmd
}

func newJournalsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ISSN",
		Short: "Get a journal by ISSN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			journal, err := client.Journals().Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			return renderOutput(journal, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")

				_ = table.Append("Title", journal.Title)
				_ = table.Append("Publisher", journal.Publisher)
				_ = table.Append("ISSN", strings.Join(journal.ISSN, ", "))
				_ = table.Append("Total Works", fmt.Sprintf("%d", journal.Counts["total-dois"]))

				return table.Render()
			})
		},
	}
}

func newJournalsWorksCommand() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "works ISSN",
		Short: "List works published in a journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := buildListParams("", rows, 0, "", "", nil, nil)

			works, err := client.Journals().Works(context.Background(), args[0], params)
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
