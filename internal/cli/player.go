package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/flip7/internal/api/request"
	"github.com/mcoot/flip7/internal/api/response"
)

func newPlayerCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerGuestCmd(rt))
	cmd.AddCommand(newPlayerRegisterCmd(rt))
	cmd.AddCommand(newPlayerLoginCmd(rt))
	cmd.AddCommand(newPlayerMeCmd(rt))

	return cmd
}

// authenticate posts to an auth endpoint and stores the returned token
func (rt *runtime) authenticate(cmd *cobra.Command, path string, body any) error {
	var result response.AuthResponse
	if err := rt.client.Post(cmd.Context(), path, body, &result); err != nil {
		return err
	}
	if err := rt.cfg.SaveToken(result.SessionToken); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	rt.client.SetToken(result.SessionToken)
	return rt.out.Print(result)
}

func newPlayerGuestCmd(rt *runtime) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Create a guest player",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.authenticate(cmd, "/api/v1/players/guest", request.CreateGuestRequest{DisplayName: name})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlayerRegisterCmd(rt *runtime) *cobra.Command {
	var name, user, pass string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.authenticate(cmd, "/api/v1/players/register", request.RegisterRequest{
				Username:    user,
				Password:    pass,
				DisplayName: name,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newPlayerLoginCmd(rt *runtime) *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.authenticate(cmd, "/api/v1/players/login", request.LoginRequest{
				Username: user,
				Password: pass,
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newPlayerMeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current player",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Player
			if err := rt.client.Get(cmd.Context(), "/api/v1/players/me", &result); err != nil {
				return err
			}
			return rt.out.Print(result)
		},
	}
}
