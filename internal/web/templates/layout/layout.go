// Package layout holds the page shell shared by every web page.
package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/flip7/internal/model"
)

// FlashMessage is a one-shot notice carried to the next page
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData is common to every page
type PageData struct {
	Title  string
	Player *model.Player
	Flash  *FlashMessage
}

// Writer emits HTML and keeps the first write error
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup as-is
func (hw *Writer) Raw(s string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, s)
	}
}

// Text writes s with HTML escaping
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// Render writes a nested component
func (hw *Writer) Render(ctx context.Context, c templ.Component) {
	if hw.err == nil {
		hw.err = c.Render(ctx, hw.w)
	}
}

// Err returns the first error seen
func (hw *Writer) Err() error {
	return hw.err
}

// Base wraps content in the document shell, nav bar and flash banner
func Base(data PageData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		hw.Text(data.Title)
		hw.Raw(` - Flip 7</title></head><body><nav><a href="/">Flip 7</a>`)
		if data.Player != nil {
			hw.Raw(`<span class="player-name">`)
			hw.Text(data.Player.DisplayName)
			hw.Raw(`</span><form method="post" action="/auth/logout"><button type="submit">Log out</button></form>`)
		}
		hw.Raw(`</nav>`)

		if data.Flash != nil {
			hw.Raw(`<div class="flash flash-`)
			hw.Text(data.Flash.Type)
			hw.Raw(`">`)
			hw.Text(data.Flash.Message)
			hw.Raw(`</div>`)
		}

		hw.Raw(`<main>`)
		hw.Render(ctx, content)
		hw.Raw(`</main></body></html>`)
		return hw.Err()
	})
}

// LiveReload reloads the page whenever the lobby's event stream reports a change
func LiveReload(eventsURL string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw(`<div id="live" data-events="`)
		hw.Text(eventsURL)
		hw.Raw(`"></div><script>
const source = new EventSource(document.getElementById("live").dataset.events);
for (const name of ["lobby-update", "game-update", "game-complete"]) {
  source.addEventListener(name, () => location.reload());
}
source.addEventListener("session-expired", () => { location.href = "/"; });
</script>`)
		return hw.Err()
	})
}
