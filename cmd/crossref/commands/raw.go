package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the raw get command.
func NewGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PATH [KEY=VALUE...]",
		Short: "Issue a raw GET against any API path",
		Long: `Issue a GET against an arbitrary API path and print the decoded response.

Query parameters are given as KEY=VALUE pairs. Filter and facet parameters
accept comma-separated name:value lists:

  crossref get works rows=5 filter=type:journal-article,from-pub-date:2020-01-01`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := make(map[string]interface{})

			for _, arg := range args[1:] {
				key, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid parameter %q, expected KEY=VALUE", arg)
				}

				params[key] = value
			}

			result, err := client.Request(context.Background(), args[0], params)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")

			return encoder.Encode(result)
		},
	}
}

// NewExistsCommand creates the exists command.
func NewExistsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exists PATH",
		Short: "Probe whether an API path resolves",
		Long: `Issue a HEAD against an API path and report whether it resolves.

Prints "true" for a 200 response and "false" for a 404. The exit status is 0
either way; other failures are reported as errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			exists, err := client.Exists(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%t\n", exists)

			return nil
		},
	}
}
