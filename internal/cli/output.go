package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/flip7/internal/api/response"
)

// Output formats command results as text or JSON
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print writes data in the configured format
func (o *Output) Print(data any) error {
	if o.format == OutputJSON {
		return o.printJSON(data)
	}
	return o.printText(data)
}

func (o *Output) printJSON(data any) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (o *Output) printText(data any) error {
	switch v := data.(type) {
	case response.AuthResponse:
		o.printAuth(v)
	case response.Player:
		o.printPlayer(v)
	case response.Snapshot:
		RenderSnapshot(o.w, v)
	case response.DrawResponse:
		o.printDraw(v.Outcome)
		RenderSnapshot(o.w, v.Snapshot)
	case response.StayResponse:
		o.printStay(v.Outcome)
		RenderSnapshot(o.w, v.Snapshot)
	case response.AddBotResponse:
		fmt.Fprintf(o.w, "Added bot %s (%s, %s)\n", v.Bot.DisplayName, v.Bot.ID, v.Bot.BotStrategy)
		RenderSnapshot(o.w, v.Snapshot)
	case response.GameResult:
		o.printResult(v)
	case response.ResultsResponse:
		o.printResults(v)
	case response.HealthResponse:
		fmt.Fprintf(o.w, "Status:        %s\n", v.Status)
		fmt.Fprintf(o.w, "Storage:       %s\n", v.Storage)
		fmt.Fprintf(o.w, "Live sessions: %d\n", v.LiveSessions)
	default:
		return o.printJSON(data)
	}
	return nil
}

func (o *Output) printAuth(a response.AuthResponse) {
	fmt.Fprintf(o.w, "Authenticated as %s (%s)\n", a.Player.DisplayName, a.Player.ID)
	fmt.Fprintf(o.w, "Session expires %s\n", a.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
}

func (o *Output) printPlayer(p response.Player) {
	kind := "registered"
	switch {
	case p.IsBot:
		kind = "bot"
	case p.IsGuest:
		kind = "guest"
	}
	fmt.Fprintf(o.w, "%s (%s, %s)\n", p.DisplayName, p.ID, kind)
}

func (o *Output) printDraw(d response.DrawOutcome) {
	if d.Busted {
		fmt.Fprintf(o.w, "%s drew %d and busted\n", d.PlayerID, d.Card)
		return
	}
	fmt.Fprintf(o.w, "%s drew %d, hand worth %d\n", d.PlayerID, d.Card, d.Score)
}

func (o *Output) printStay(s response.StayOutcome) {
	fmt.Fprintf(o.w, "%s stayed with %d\n", s.PlayerID, s.Score)
}

func (o *Output) printResult(r response.GameResult) {
	fmt.Fprintf(o.w, "Game %s in lobby %s, finished %s\n", r.GameID, r.LobbyCode, r.CompletedAt.Format("2006-01-02 15:04:05"))
	renderStandings(o.w, r.Standings, r.Winners)
}

func (o *Output) printResults(r response.ResultsResponse) {
	if len(r.Results) == 0 {
		fmt.Fprintln(o.w, "No finished games")
		return
	}
	for _, res := range r.Results {
		fmt.Fprintf(o.w, "%s  %s  %s  winners: %s\n",
			res.CompletedAt.Format("2006-01-02 15:04"), res.GameID, res.LobbyCode, strings.Join(res.Winners, ", "))
	}
}

// PrintEvent writes one stream frame
func (o *Output) PrintEvent(stream string, data []byte, verbose bool) error {
	if o.format == OutputJSON {
		line, err := json.Marshal(struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}{Event: stream, Data: data})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(o.w, string(line))
		return err
	}

	var event response.Event
	if err := json.Unmarshal(data, &event); err != nil {
		fmt.Fprintf(o.w, "[%s] %s\n", stream, data)
		return nil
	}

	fmt.Fprintf(o.w, "[%s] %s\n", event.Timestamp.Format("15:04:05"), describeEvent(event))
	if event.Result != nil {
		renderStandings(o.w, event.Result.Standings, event.Result.Winners)
	}
	if verbose && event.Snapshot != nil {
		RenderSnapshot(o.w, *event.Snapshot)
	}
	return nil
}

func describeEvent(e response.Event) string {
	switch {
	case e.Draw != nil && e.Draw.Busted:
		return fmt.Sprintf("%s drew %d and busted", e.Draw.PlayerID, e.Draw.Card)
	case e.Draw != nil:
		return fmt.Sprintf("%s drew %d, hand worth %d", e.Draw.PlayerID, e.Draw.Card, e.Draw.Score)
	case e.Stay != nil:
		return fmt.Sprintf("%s stayed with %d", e.Stay.PlayerID, e.Stay.Score)
	case e.Player != nil && e.Player.IsBot:
		return fmt.Sprintf("bot %s joined lobby %s", e.Player.DisplayName, e.LobbyCode)
	case e.Player != nil:
		return fmt.Sprintf("%s joined lobby %s", e.Player.DisplayName, e.LobbyCode)
	case e.Result != nil:
		return fmt.Sprintf("game %s complete", e.Result.GameID)
	case e.PlayerID != "":
		return fmt.Sprintf("%s by %s", e.Type, e.PlayerID)
	default:
		return e.Type
	}
}
