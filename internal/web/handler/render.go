package handler

import (
	"context"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/storage"
	"github.com/mcoot/flip7/internal/web/middleware"
	"github.com/mcoot/flip7/internal/web/templates/layout"
)

func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func pageData(r *http.Request, title string) layout.PageData {
	return layout.PageData{
		Title:  title,
		Player: middleware.GetPlayer(r.Context()),
		Flash:  middleware.GetFlash(r.Context()),
	}
}

// failWith flashes err and sends the browser back to target
func failWith(w http.ResponseWriter, r *http.Request, prefix string, err error, target string) {
	middleware.SetFlash(w, "error", prefix+": "+err.Error())
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// playerNames looks up display names for a roster; unknown ids are left out
func playerNames(ctx context.Context, store storage.Storage, ids []model.PlayerID) map[model.PlayerID]string {
	names := make(map[model.PlayerID]string, len(ids))
	for _, id := range ids {
		if p, err := store.GetPlayer(ctx, id); err == nil {
			names[id] = p.DisplayName
		}
	}
	return names
}

func lobbyPath(code model.LobbyCode) string {
	return "/lobby/" + string(code)
}
