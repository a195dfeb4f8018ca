package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/flip7/internal/api/response"
)

func newResultsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Finished game results",
	}

	cmd.AddCommand(newResultsListCmd(rt))
	cmd.AddCommand(newResultsGetCmd(rt))

	return cmd
}

func newResultsListCmd(rt *runtime) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently finished games",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/results"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}
			var result response.ResultsResponse
			if err := rt.client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			return rt.out.Print(result)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results (server default when unset)")

	return cmd
}

func newResultsGetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <game_id>",
		Short: "Show one finished game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameResult
			if err := rt.client.Get(cmd.Context(), "/api/v1/results/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}
			return rt.out.Print(result)
		},
	}
}
