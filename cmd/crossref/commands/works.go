package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/edent/crossref-client/pkg/crossref"
)

// NewWorksCommand creates the works command group.
func NewWorksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "works",
		Aliases: []string{"work"},
		Short:   "Look up registered works",
		Long:    "Search, list, and fetch works (journal articles, books, datasets) by DOI",
	}

	cmd.AddCommand(newWorksListCommand())
	cmd.AddCommand(newWorksGetCommand())
	cmd.AddCommand(newWorksAgencyCommand())

	return cmd
}

func newWorksListCommand() *cobra.Command {
	var (
		query   string
		rows    int
		offset  int
		sort    string
		order   string
		filters []string
		facets  []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List works",
		Long:  "List works, optionally filtered (e.g. --filter type:journal-article)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := buildListParams(query, rows, offset, sort, order, filters, facets)

			works, err := client.Works().List(context.Background(), params)
			if err != nil {
				return err
			}

			return renderOutput(works, func() error {
				return renderWorksTable(works)
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text query")
	cmd.Flags().IntVar(&rows, "rows", 0, "number of results per page")
	cmd.Flags().IntVar(&offset, "offset", 0, "result offset")
	cmd.Flags().StringVar(&sort, "sort", "", "sort field (e.g. published, score)")
	cmd.Flags().StringVar(&order, "order", "", "sort order (asc, desc)")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "filter as name:value (repeatable)")
	cmd.Flags().StringArrayVar(&facets, "facet", nil, "facet as name:value (repeatable)")

	return cmd
}

func newWorksGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get DOI",
		Short: "Get a work by DOI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			work, err := client.Works().Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			return renderOutput(work, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")

				_ = table.Append("DOI", work.DOI)
				_ = table.Append("Type", work.Type)
				_ = table.Append("Title", truncate(firstOrEmpty(work.Title), 70))
				_ = table.Append("Container", firstOrEmpty(work.ContainerTitle))
				_ = table.Append("Publisher", work.Publisher)
				_ = table.Append("Issued", workYear(work))
				_ = table.Append("Authors", formatAuthors(work.Author))
				_ = table.Append("References", fmt.Sprintf("%d", work.ReferenceCount))
				_ = table.Append("Cited By", fmt.Sprintf("%d", work.IsReferencedByCount))
				_ = table.Append("URL", work.URL)

				return table.Render()
			})
		},
	}
}

func newWorksAgencyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "agency DOI",
		Short: "Show the registration agency for a DOI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			agency, err := client.Works().Agency(context.Background(), args[0])
			if err != nil {
				return err
			}

			return renderOutput(agency, func() error {
				fmt.Printf("%s is registered with %s (%s)\n", agency.DOI, agency.Agency.Label, agency.Agency.ID)

				return nil
			})
		},
	}
}

func renderWorksTable(works *crossref.WorkList) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("DOI", "Type", "Year", "Title")

	for i := range works.Items {
		work := &works.Items[i]
		_ = table.Append(work.DOI, work.Type, workYear(work), truncate(firstOrEmpty(work.Title), 60))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Printf("\nShowing %d of %d results\n", len(works.Items), works.TotalResults)

	return nil
}

func formatAuthors(authors []crossref.Contributor) string {
	names := make([]string, 0, len(authors))

	for _, author := range authors {
		switch {
		case author.Family != "" && author.Given != "":
			names = append(names, author.Given+" "+author.Family)
		case author.Family != "":
			names = append(names, author.Family)
		case author.Name != "":
			names = append(names, author.Name)
		}
	}

	return truncate(strings.Join(names, ", "), 70)
}
