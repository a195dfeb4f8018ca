package game

import (
	"slices"

	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/registry"
)

// BuildSnapshot copies the session into a plain Snapshot.
// Call it with the session locked (inside Registry.Do or Registry.View).
func (c *Controller) BuildSnapshot(sess *registry.Session) *model.Snapshot {
	lob := sess.Lobby
	snap := &model.Snapshot{
		LobbyCode: lob.Code,
		Phase:     sess.Phase(),
		Version:   sess.Version,
		Creator:   lob.Creator,
		Roster:    slices.Clone(lob.Roster),
		GameID:    lob.GameID,
	}

	g := sess.Game
	if g == nil {
		for _, id := range lob.Roster {
			snap.Players = append(snap.Players, model.PlayerView{
				PlayerID: id,
				Hand:     []int{},
				Status:   model.StatusActive,
			})
		}
		return snap
	}

	for _, id := range g.Roster {
		hand := slices.Clone(g.Hands[id])
		if hand == nil {
			hand = []int{}
		}
		snap.Players = append(snap.Players, model.PlayerView{
			PlayerID: id,
			Hand:     hand,
			Status:   g.Status(id),
			Score:    g.Score(id),
		})
	}

	snap.Standings = c.scoring.Standings(g)
	if g.State == model.GameStateFinished {
		snap.Winners = c.scoring.Winners(snap.Standings)
	} else {
		snap.CurrentPlayer = g.CurrentPlayer()
	}

	return snap
}
