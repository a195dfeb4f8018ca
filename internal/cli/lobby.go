package cli

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/flip7/internal/api/request"
	"github.com/mcoot/flip7/internal/api/response"
	"github.com/mcoot/flip7/internal/model"
)

func lobbyPath(code string, parts ...string) string {
	path := "/api/v1/lobbies/" + url.PathEscape(code)
	for _, p := range parts {
		path += "/" + p
	}
	return path
}

func newLobbyCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Lobby management commands",
	}

	cmd.AddCommand(newLobbyCreateCmd(rt))
	cmd.AddCommand(newLobbyGetCmd(rt))
	cmd.AddCommand(newLobbyJoinCmd(rt))
	cmd.AddCommand(newLobbyStartCmd(rt))
	cmd.AddCommand(newLobbyAddBotCmd(rt))

	return cmd
}

// snapshotCmd builds a command that calls one lobby endpoint and prints the snapshot
func snapshotCmd(rt *runtime, use, short, method string, parts ...string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <code>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Snapshot
			if err := rt.client.Do(cmd.Context(), method, lobbyPath(args[0], parts...), nil, &result); err != nil {
				return err
			}
			return rt.out.Print(result)
		},
	}
}

func newLobbyCreateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new lobby",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Snapshot
			if err := rt.client.Post(cmd.Context(), "/api/v1/lobbies", nil, &result); err != nil {
				return err
			}
			return rt.out.Print(result)
		},
	}
}

func newLobbyGetCmd(rt *runtime) *cobra.Command {
	return snapshotCmd(rt, "get", "Show a lobby", http.MethodGet)
}

func newLobbyJoinCmd(rt *runtime) *cobra.Command {
	return snapshotCmd(rt, "join", "Join a lobby", http.MethodPost, "join")
}

func newLobbyStartCmd(rt *runtime) *cobra.Command {
	return snapshotCmd(rt, "start", "Start the game (creator only)", http.MethodPost, "start")
}

func newLobbyAddBotCmd(rt *runtime) *cobra.Command {
	var strategy, name string

	cmd := &cobra.Command{
		Use:   "add-bot <code>",
		Short: "Add a bot to a lobby (creator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.AddBotRequest{Strategy: strategy, DisplayName: name}
			var result response.AddBotResponse
			if err := rt.client.Post(cmd.Context(), lobbyPath(args[0], "bots"), req, &result); err != nil {
				return err
			}
			return rt.out.Print(result)
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", model.BotStrategyCautious, "Bot strategy: cautious, random")
	cmd.Flags().StringVar(&name, "name", "", "Bot display name")

	return cmd
}
