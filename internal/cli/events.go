package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

// Stream names that end a subscription
const (
	streamGameComplete   = "game-complete"
	streamSessionExpired = "session-expired"
)

// maxFrameSize bounds one SSE line; snapshots of large lobbies exceed the scanner default
const maxFrameSize = 1 << 20

func newEventsCmd(rt *runtime) *cobra.Command {
	var untilComplete bool

	cmd := &cobra.Command{
		Use:   "events <code>",
		Short: "Stream live events from a lobby",
		Long: `Subscribe to a lobby's server-sent event stream and print events as they
happen.

Streams:
  - lobby-update: a player or bot joined
  - game-update: the game started, a card was drawn, a player busted or stayed
  - game-complete: the game finished, with final standings
  - session-expired: the lobby was idle too long and was removed

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			body, err := rt.client.Stream(ctx, lobbyPath(args[0], "events"))
			if err != nil {
				return err
			}
			defer func() { _ = body.Close() }()

			err = readSSE(body, func(stream string, data []byte) (bool, error) {
				if stream == "connected" {
					if rt.cfg.Output == OutputText {
						fmt.Fprintf(cmd.OutOrStdout(), "Connected to lobby %s\n", args[0])
					}
					return true, nil
				}
				if err := rt.out.PrintEvent(stream, data, rt.cfg.Verbose); err != nil {
					return false, err
				}
				if stream == streamSessionExpired {
					return false, nil
				}
				return !(untilComplete && stream == streamGameComplete), nil
			})
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("stream error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&untilComplete, "until-complete", false, "Exit once the game completes")

	return cmd
}

// readSSE parses server-sent event frames and hands each to fn until fn
// returns false or the stream ends. Comment lines are skipped.
func readSSE(r io.Reader, fn func(stream string, data []byte) (bool, error)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	var stream string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			stream = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case line == "":
			if stream == "" && len(dataLines) == 0 {
				continue
			}
			if stream == "" {
				stream = "message"
			}
			more, err := fn(stream, []byte(strings.Join(dataLines, "\n")))
			if err != nil || !more {
				return err
			}
			stream = ""
			dataLines = nil
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	return nil
}
