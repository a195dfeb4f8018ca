package pages

import (
	"context"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/web/templates/layout"
)

// GameData is the data for the game page
type GameData struct {
	layout.PageData
	Snapshot *model.Snapshot
	Names    map[model.PlayerID]string
	MyTurn   bool
}

// Game renders every hand with Flip and Stay buttons for the player on turn,
// and the standings once the game is over
func Game(data GameData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		snap := data.Snapshot
		base := "/lobby/" + string(snap.LobbyCode)
		hw := layout.NewWriter(w)

		hw.Raw(`<h1>Game <span id="game-id">`)
		hw.Text(string(snap.GameID))
		hw.Raw(`</span></h1>`)

		hw.Raw(`<table id="players"><thead><tr><th>Player</th><th>Hand</th><th>Status</th><th>Score</th></tr></thead><tbody>`)
		for _, p := range snap.Players {
			hw.Raw(`<tr class="player`)
			if p.PlayerID == snap.CurrentPlayer {
				hw.Raw(` current`)
			}
			hw.Raw(`" data-player-id="`)
			hw.Text(string(p.PlayerID))
			hw.Raw(`"><td class="name">`)
			hw.Text(nameOf(data.Names, p.PlayerID))
			hw.Raw(`</td><td class="hand">`)
			for _, card := range p.Hand {
				hw.Raw(`<span class="card">`)
				hw.Raw(strconv.Itoa(card))
				hw.Raw(`</span>`)
			}
			hw.Raw(`</td><td class="status">`)
			hw.Text(string(p.Status))
			hw.Raw(`</td><td class="score">`)
			hw.Raw(strconv.Itoa(p.Score))
			hw.Raw(`</td></tr>`)
		}
		hw.Raw(`</tbody></table>`)

		if data.MyTurn {
			hw.Raw(`<div id="actions"><form id="draw-form" method="post" action="`)
			hw.Text(base + "/game/draw")
			hw.Raw(`"><button type="submit">Flip</button></form><form id="stay-form" method="post" action="`)
			hw.Text(base + "/game/stay")
			hw.Raw(`"><button type="submit">Stay</button></form></div>`)
		} else if snap.CurrentPlayer != "" {
			hw.Raw(`<p class="waiting">Waiting for `)
			hw.Text(nameOf(data.Names, snap.CurrentPlayer))
			hw.Raw(`</p>`)
		}

		if snap.IsFinished() {
			renderStandings(hw, data.Names, snap)
			return hw.Err()
		}

		hw.Render(ctx, layout.LiveReload(base+"/events"))
		return hw.Err()
	}))
}

// renderStandings lists final scores; every tied top scorer is a winner
func renderStandings(hw *layout.Writer, names map[model.PlayerID]string, snap *model.Snapshot) {
	hw.Raw(`<ol id="standings">`)
	for _, st := range snap.Standings {
		hw.Raw(`<li data-player-id="`)
		hw.Text(string(st.PlayerID))
		hw.Raw(`">`)
		hw.Text(nameOf(names, st.PlayerID))
		hw.Raw(` <span class="score">`)
		hw.Raw(strconv.Itoa(st.Score))
		hw.Raw(`</span></li>`)
	}
	hw.Raw(`</ol>`)

	winners := make([]string, len(snap.Winners))
	for i, id := range snap.Winners {
		winners[i] = nameOf(names, id)
	}
	slices.Sort(winners)

	hw.Raw(`<p id="winners">`)
	if len(winners) == 1 {
		hw.Text("Winner: " + winners[0])
	} else {
		hw.Text("Winners (tied): " + strings.Join(winners, ", "))
	}
	hw.Raw(`</p>`)
}
