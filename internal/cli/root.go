package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// runtime is the state shared by every subcommand of one invocation
type runtime struct {
	cfg    *Config
	client *Client
	out    *Output
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rt := &runtime{cfg: DefaultConfig()}

	rootCmd := &cobra.Command{
		Use:   "flip7",
		Short: "CLI client for the Flip 7 server",
		Long: `flip7 talks to a Flip 7 server over its JSON API.

Create or log in as a player, open a lobby, invite bots, play draw/stay turns
and follow a lobby's live event stream.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if rt.cfg.Output != OutputText && rt.cfg.Output != OutputJSON {
				return fmt.Errorf("unknown output format %q", rt.cfg.Output)
			}
			if err := rt.cfg.LoadToken(); err != nil {
				return err
			}
			rt.client = NewClient(rt.cfg.ServerURL, rt.cfg.Token)
			rt.out = NewOutput(rt.cfg.Output, cmd.OutOrStdout())
			return nil
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rt.cfg.ServerURL, "server", rt.cfg.ServerURL, "Server URL (env: FLIP7_SERVER)")
	flags.StringVar(&rt.cfg.Token, "token", rt.cfg.Token, "Session token (env: FLIP7_TOKEN)")
	flags.StringVar(&rt.cfg.TokenFile, "token-file", rt.cfg.TokenFile, "Token file path (env: FLIP7_TOKEN_FILE)")
	flags.StringVarP(&rt.cfg.Output, "output", "o", rt.cfg.Output, "Output format: text, json")
	flags.BoolVarP(&rt.cfg.Verbose, "verbose", "v", rt.cfg.Verbose, "Print raw stream frames")

	rootCmd.AddCommand(newPlayerCmd(rt))
	rootCmd.AddCommand(newLobbyCmd(rt))
	rootCmd.AddCommand(newGameCmd(rt))
	rootCmd.AddCommand(newResultsCmd(rt))
	rootCmd.AddCommand(newEventsCmd(rt))
	rootCmd.AddCommand(newHealthCmd(rt))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
