package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/web/templates/layout"
)

// LobbyData is the data for the pre-game lobby page
type LobbyData struct {
	layout.PageData
	Snapshot   *model.Snapshot
	Names      map[model.PlayerID]string
	IsCreator  bool
	IsMember   bool
	Strategies []string
}

// Lobby renders the roster with Join, Add bot and Start controls
func Lobby(data LobbyData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		snap := data.Snapshot
		base := "/lobby/" + string(snap.LobbyCode)
		hw := layout.NewWriter(w)

		hw.Raw(`<h1>Lobby <span id="lobby-code">`)
		hw.Text(string(snap.LobbyCode))
		hw.Raw(`</span></h1><ul id="roster">`)
		for _, id := range snap.Roster {
			hw.Raw(`<li class="player" data-player-id="`)
			hw.Text(string(id))
			hw.Raw(`">`)
			hw.Text(nameOf(data.Names, id))
			if id == snap.Creator {
				hw.Raw(` <span class="creator">(creator)</span>`)
			}
			hw.Raw(`</li>`)
		}
		hw.Raw(`</ul>`)

		if !data.IsMember {
			hw.Raw(`<form id="join-form" method="post" action="`)
			hw.Text(base + "/join")
			hw.Raw(`"><button type="submit">Join</button></form>`)
		}

		if data.IsCreator {
			hw.Raw(`<form id="add-bot-form" method="post" action="`)
			hw.Text(base + "/bots")
			hw.Raw(`"><select name="strategy">`)
			for _, strategy := range data.Strategies {
				hw.Raw(`<option value="`)
				hw.Text(strategy)
				hw.Raw(`">`)
				hw.Text(model.BotStrategyDisplayName(strategy))
				hw.Raw(`</option>`)
			}
			hw.Raw(`</select><button type="submit">Add bot</button></form>`)

			hw.Raw(`<form id="start-form" method="post" action="`)
			hw.Text(base + "/start")
			hw.Raw(`"><button type="submit">Start game</button></form>`)
		} else if data.IsMember {
			hw.Raw(`<p class="waiting">Waiting for `)
			hw.Text(nameOf(data.Names, snap.Creator))
			hw.Raw(` to start the game</p>`)
		}

		hw.Render(ctx, layout.LiveReload(base+"/events"))
		return hw.Err()
	}))
}

func nameOf(names map[model.PlayerID]string, id model.PlayerID) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return string(id)
}
