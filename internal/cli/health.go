package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/flip7/internal/api/response"
)

func newHealthCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.HealthResponse
			if err := rt.client.Get(cmd.Context(), "/api/v1/health", &result); err != nil {
				return err
			}
			return rt.out.Print(result)
		},
	}
}
