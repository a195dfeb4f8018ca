// Package pages holds the full-page web views.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/flip7/internal/web/templates/layout"
)

// HomeData is the data for the home page
type HomeData struct {
	layout.PageData
	Next string // Path to return to after signing in
}

// Home renders sign-in forms for visitors and lobby forms for players
func Home(data HomeData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<h1>Flip 7</h1>`)

		if data.Player == nil {
			hw.Raw(`<form id="guest-form" method="post" action="/auth/guest">`)
			hiddenNext(hw, data.Next)
			hw.Raw(`<input name="display_name" placeholder="Display name" required maxlength="32"><button type="submit">Play as guest</button></form>`)

			hw.Raw(`<form id="login-form" method="post" action="/auth/login">`)
			hiddenNext(hw, data.Next)
			hw.Raw(`<input name="username" placeholder="Username"><input name="password" type="password" placeholder="Password"><button type="submit">Log in</button></form>`)

			hw.Raw(`<form id="register-form" method="post" action="/auth/register">`)
			hw.Raw(`<input name="username" placeholder="Username"><input name="display_name" placeholder="Display name"><input name="password" type="password" placeholder="Password"><button type="submit">Register</button></form>`)
			return hw.Err()
		}

		hw.Raw(`<form id="create-lobby-form" method="post" action="/lobby"><button type="submit">Create lobby</button></form>`)
		hw.Raw(`<form id="join-lobby-form" method="post" action="/lobby/join"><input name="code" placeholder="Lobby code" required><button type="submit">Join</button></form>`)
		return hw.Err()
	}))
}

func hiddenNext(hw *layout.Writer, next string) {
	if next == "" {
		return
	}
	hw.Raw(`<input type="hidden" name="next" value="`)
	hw.Text(next)
	hw.Raw(`">`)
}
