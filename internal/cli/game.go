package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mcoot/flip7/internal/api/response"
)

func newGameCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game action commands",
	}

	cmd.AddCommand(snapshotCmd(rt, "get", "Show the game in a lobby", http.MethodGet, "game"))
	cmd.AddCommand(newGameDrawCmd(rt))
	cmd.AddCommand(newGameStayCmd(rt))

	return cmd
}

func newGameDrawCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "draw <code>",
		Short: "Draw a card on your turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.DrawResponse
			if err := rt.client.Post(cmd.Context(), lobbyPath(args[0], "game", "draw"), nil, &result); err != nil {
				return err
			}
			return rt.out.Print(result)
		},
	}
}

func newGameStayCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stay <code>",
		Short: "Bank your hand and end your turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.StayResponse
			if err := rt.client.Post(cmd.Context(), lobbyPath(args[0], "game", "stay"), nil, &result); err != nil {
				return err
			}
			return rt.out.Print(result)
		},
	}
}
