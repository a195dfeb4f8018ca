package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/mcoot/flip7/internal/api/response"
	"github.com/mcoot/flip7/internal/model"
)

// RenderSnapshot writes a human-readable view of a lobby or game:
// each player's hand, status and score, a marker on the player to act,
// and the standings once the game is over.
func RenderSnapshot(w io.Writer, s response.Snapshot) {
	fmt.Fprintf(w, "Lobby %s  phase: %s  version: %d\n", s.LobbyCode, s.Phase, s.Version)
	fmt.Fprintf(w, "Creator: %s\n", s.Creator)

	if s.Phase == string(model.PhaseLobby) {
		fmt.Fprintf(w, "Players (%d):\n", len(s.Roster))
		for _, id := range s.Roster {
			fmt.Fprintf(w, "    %s\n", id)
		}
		return
	}

	if s.GameID != "" {
		fmt.Fprintf(w, "Game: %s\n", s.GameID)
	}
	width := 0
	for _, p := range s.Players {
		width = max(width, len(p.PlayerID))
	}
	for _, p := range s.Players {
		marker := "  "
		if p.PlayerID == s.CurrentPlayer {
			marker = "> "
		}
		fmt.Fprintf(w, "  %s%-*s  %-16s  %-6s  %d\n", marker, width, p.PlayerID, formatHand(p.Hand), p.Status, p.Score)
	}

	if len(s.Standings) > 0 {
		renderStandings(w, s.Standings, s.Winners)
	}
}

// renderStandings ranks players by score; tied players share a rank
func renderStandings(w io.Writer, standings []response.Standing, winners []string) {
	fmt.Fprintln(w, "Standings:")
	rank := 0
	for i, st := range standings {
		if i == 0 || st.Score != standings[i-1].Score {
			rank = i + 1
		}
		fmt.Fprintf(w, "  %d. %s  %d (%s)\n", rank, st.PlayerID, st.Score, st.Status)
	}

	switch len(winners) {
	case 0:
	case 1:
		fmt.Fprintf(w, "Winner: %s\n", winners[0])
	default:
		fmt.Fprintf(w, "Winners (tied): %s\n", strings.Join(slices.Sorted(slices.Values(winners)), ", "))
	}
}

func formatHand(hand []int) string {
	cards := make([]string, len(hand))
	for i, c := range hand {
		cards[i] = strconv.Itoa(c)
	}
	return "[" + strings.Join(cards, " ") + "]"
}
